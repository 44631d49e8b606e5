package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"Lumina_AI/backend/go/internal/models"
)

func seedChat(t *testing.T, kv *memKV, userID string, meta models.ChatMetadata) {
	t.Helper()
	data, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("marshal metadata: %v", err)
	}
	if kv.hashes[chatsKey(userID)] == nil {
		kv.hashes[chatsKey(userID)] = make(map[string]string)
	}
	kv.hashes[chatsKey(userID)][meta.ID] = string(data)
}

func TestCreateChatRegistersMetadata(t *testing.T) {
	kv := newMemKV()
	s := NewSessionStore(kv, testLogger())
	ctx := context.Background()

	meta, err := s.CreateChat(ctx, "42", "Trip planning")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if meta.ID == "" || meta.Title != "Trip planning" || meta.CreatedAt <= 0 {
		t.Errorf("metadata = %+v", meta)
	}

	chats := s.ListChats(ctx, "42")
	if len(chats) != 1 || chats[0].ID != meta.ID {
		t.Errorf("ListChats = %+v", chats)
	}
}

func TestCreateChatUnavailableBackend(t *testing.T) {
	s := NewSessionStore(nil, testLogger())

	if _, err := s.CreateChat(context.Background(), "42", "anything"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("CreateChat error = %v, want ErrUnavailable", err)
	}
}

func TestListChatsNewestFirst(t *testing.T) {
	kv := newMemKV()
	seedChat(t, kv, "42", models.ChatMetadata{ID: "a", Title: "first", CreatedAt: 100})
	seedChat(t, kv, "42", models.ChatMetadata{ID: "c", Title: "third", CreatedAt: 300})
	seedChat(t, kv, "42", models.ChatMetadata{ID: "b", Title: "second", CreatedAt: 200})
	s := NewSessionStore(kv, testLogger())

	chats := s.ListChats(context.Background(), "42")
	if len(chats) != 3 {
		t.Fatalf("got %d chats, want 3", len(chats))
	}
	for i, want := range []string{"c", "b", "a"} {
		if chats[i].ID != want {
			t.Errorf("chats[%d].ID = %q, want %q", i, chats[i].ID, want)
		}
	}
}

func TestAppendAndHistoryPreserveOrder(t *testing.T) {
	kv := newMemKV()
	s := NewSessionStore(kv, testLogger())
	ctx := context.Background()

	s.AppendMessage(ctx, "chat-1", models.RoleUser, "hello")
	s.AppendMessage(ctx, "chat-1", models.RoleAssistant, "hi there")
	s.AppendMessage(ctx, "chat-1", models.RoleUser, "how are you?")

	history := s.History(ctx, "chat-1")
	if len(history) != 3 {
		t.Fatalf("got %d messages, want 3", len(history))
	}
	if history[0].Role != models.RoleUser || history[0].Content != "hello" {
		t.Errorf("history[0] = %+v", history[0])
	}
	if history[1].Role != models.RoleAssistant || history[1].Content != "hi there" {
		t.Errorf("history[1] = %+v", history[1])
	}
	if history[2].Content != "how are you?" {
		t.Errorf("history[2] = %+v", history[2])
	}
}

func TestRenameChatUpdatesTitleOnly(t *testing.T) {
	kv := newMemKV()
	seedChat(t, kv, "42", models.ChatMetadata{ID: "a", Title: "New Chat", CreatedAt: 100})
	s := NewSessionStore(kv, testLogger())
	ctx := context.Background()

	s.RenameChat(ctx, "42", "a", "Study plan")

	chats := s.ListChats(ctx, "42")
	if len(chats) != 1 {
		t.Fatalf("got %d chats, want 1", len(chats))
	}
	if chats[0].Title != "Study plan" || chats[0].CreatedAt != 100 {
		t.Errorf("renamed chat = %+v", chats[0])
	}
}

func TestDeleteChatRemovesIndexAndLog(t *testing.T) {
	kv := newMemKV()
	seedChat(t, kv, "42", models.ChatMetadata{ID: "a", Title: "New Chat", CreatedAt: 100})
	s := NewSessionStore(kv, testLogger())
	ctx := context.Background()
	s.AppendMessage(ctx, "a", models.RoleUser, "hello")

	s.DeleteChat(ctx, "42", "a")

	if chats := s.ListChats(ctx, "42"); len(chats) != 0 {
		t.Errorf("ListChats = %+v after delete", chats)
	}
	if history := s.History(ctx, "a"); len(history) != 0 {
		t.Errorf("History = %+v after delete", history)
	}
}

func TestSessionStoreDegradesWithoutBackend(t *testing.T) {
	s := NewSessionStore(nil, testLogger())
	ctx := context.Background()

	if chats := s.ListChats(ctx, "42"); chats != nil {
		t.Errorf("ListChats = %+v, want nil", chats)
	}
	if history := s.History(ctx, "chat-1"); history != nil {
		t.Errorf("History = %+v, want nil", history)
	}
	s.AppendMessage(ctx, "chat-1", models.RoleUser, "hello")
	s.RenameChat(ctx, "42", "chat-1", "anything")
	s.DeleteChat(ctx, "42", "chat-1")
}
