package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"

	"Lumina_AI/backend/go/internal/models"
)

// fakeUserStore implements store.UserStore in memory.
type fakeUserStore struct {
	users  map[string]*models.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User), nextID: 1}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	user.ID = f.nextID
	f.nextID++
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, errors.New("record not found")
	}
	return user, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, errors.New("record not found")
}

func TestRegisterHashesPassword(t *testing.T) {
	users := newFakeUserStore()
	auth := NewAuthService(users, "secret", 3600)

	user, err := auth.Register(context.Background(), "ada@example.com", "hunter2hunter2", "Ada")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.HashedPassword == "hunter2hunter2" || user.HashedPassword == "" {
		t.Errorf("password stored without hashing")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("hunter2hunter2")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
	if !user.IsActive {
		t.Errorf("new user not active")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	auth := NewAuthService(users, "secret", 3600)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "ada@example.com", "hunter2hunter2", "Ada"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := auth.Register(ctx, "ada@example.com", "different-pass", "Ada II"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("second Register error = %v, want ErrEmailTaken", err)
	}
}

func TestLoginIssuesValidToken(t *testing.T) {
	users := newFakeUserStore()
	auth := NewAuthService(users, "secret", 3600)
	ctx := context.Background()

	registered, err := auth.Register(ctx, "ada@example.com", "hunter2hunter2", "Ada")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	signed, err := auth.Login(ctx, "ada@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte("secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("issued token rejected: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if sub, ok := claims["sub"].(float64); !ok || uint(sub) != registered.ID {
		t.Errorf("sub claim = %v, want %d", claims["sub"], registered.ID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users := newFakeUserStore()
	auth := NewAuthService(users, "secret", 3600)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "ada@example.com", "hunter2hunter2", "Ada"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := auth.Login(ctx, "ada@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := auth.Login(ctx, "nobody@example.com", "hunter2hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v, want ErrInvalidCredentials", err)
	}
}
