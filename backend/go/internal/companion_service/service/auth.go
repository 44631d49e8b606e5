package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"

	"Lumina_AI/backend/go/internal/companion_service/store"
	"Lumina_AI/backend/go/internal/models"
)

var (
	// ErrEmailTaken 表示注册邮箱已被占用。
	ErrEmailTaken = errors.New("该邮箱已被注册")
	// ErrInvalidCredentials 表示登录凭证不正确。为避免枚举攻击，
	// 用户不存在和密码错误返回同一个错误。
	ErrInvalidCredentials = errors.New("用户不存在或密码错误")
)

// AuthService 封装了注册、登录和令牌签发的业务逻辑。
type AuthService struct {
	users     store.UserStore
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService 创建一个新的 AuthService 实例。
func NewAuthService(users store.UserStore, jwtSecret string, tokenTTLSeconds int) *AuthService {
	if tokenTTLSeconds <= 0 {
		tokenTTLSeconds = 24 * 3600
	}
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  time.Duration(tokenTTLSeconds) * time.Second,
	}
}

// Register 处理新用户通过邮箱注册的逻辑。
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	user := &models.User{
		Email:          email,
		FullName:       fullName,
		HashedPassword: string(hashed),
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 验证凭证并签发 JWT。
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.generateJWT(user.ID)
}

// GetUser 按 ID 查找用户。
func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) generateJWT(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(s.tokenTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("签发 JWT 失败: %w", err)
	}
	return signed, nil
}
