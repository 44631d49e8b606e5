package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"Lumina_AI/backend/go/internal/models"
	"Lumina_AI/backend/go/pkg/logger"
)

// SessionStore 维护每个会话只追加的消息日志，以及每个用户的会话
// 元数据索引。消息日志是"是否首轮"的唯一事实来源 (长度 0 即首轮)。
//
// 除 CreateChat 外的操作在后端不可用时按降级契约执行：读返回空，
// 写静默跳过。
type SessionStore interface {
	CreateChat(ctx context.Context, userID, title string) (*models.ChatMetadata, error)
	// ListChats 返回用户的全部会话元数据，按创建时间降序。
	ListChats(ctx context.Context, userID string) []models.ChatMetadata
	// DeleteChat 同时删除索引条目和消息日志，不可恢复。
	DeleteChat(ctx context.Context, userID, chatID string)
	// RenameChat 只做元数据的原地更新。
	RenameChat(ctx context.Context, userID, chatID, title string)
	// AppendMessage 纯追加；对 role 不做两值枚举之外的校验。
	AppendMessage(ctx context.Context, chatID, role, content string)
	// History 返回完整日志，最旧在前。
	History(ctx context.Context, chatID string) []models.ChatMessage
}

type redisSessionStore struct {
	kv  KV
	log *logger.Logger
}

// NewSessionStore 创建一个由 KV 后端支撑的 SessionStore。
func NewSessionStore(kv KV, log *logger.Logger) SessionStore {
	return &redisSessionStore{kv: kv, log: log}
}

func chatsKey(userID string) string {
	return fmt.Sprintf("user:%s:chats", userID)
}

func messagesKey(chatID string) string {
	return fmt.Sprintf("chat:%s:messages", chatID)
}

func (s *redisSessionStore) CreateChat(ctx context.Context, userID, title string) (*models.ChatMetadata, error) {
	if s.kv == nil {
		return nil, ErrUnavailable
	}

	meta := &models.ChatMetadata{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: unixNow(),
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("序列化会话元数据失败: %w", err)
	}
	if err := s.kv.HSet(ctx, chatsKey(userID), meta.ID, string(data)); err != nil {
		return nil, fmt.Errorf("注册会话失败: %w", err)
	}
	return meta, nil
}

func (s *redisSessionStore) ListChats(ctx context.Context, userID string) []models.ChatMetadata {
	if s.kv == nil {
		return nil
	}

	raw, err := s.kv.HGetAll(ctx, chatsKey(userID))
	if err != nil {
		s.log.WithError(err).Warn("读取会话索引失败，降级为空")
		return nil
	}

	chats := make([]models.ChatMetadata, 0, len(raw))
	for _, data := range raw {
		var meta models.ChatMetadata
		if err := json.Unmarshal([]byte(data), &meta); err != nil {
			continue
		}
		chats = append(chats, meta)
	}
	sort.Slice(chats, func(i, j int) bool {
		return chats[i].CreatedAt > chats[j].CreatedAt
	})
	return chats
}

func (s *redisSessionStore) DeleteChat(ctx context.Context, userID, chatID string) {
	if s.kv == nil {
		return
	}
	if err := s.kv.HDel(ctx, chatsKey(userID), chatID); err != nil {
		s.log.WithError(err).Warn("删除会话索引条目失败")
	}
	if err := s.kv.Del(ctx, messagesKey(chatID)); err != nil {
		s.log.WithError(err).Warn("删除会话消息日志失败")
	}
}

func (s *redisSessionStore) RenameChat(ctx context.Context, userID, chatID, title string) {
	if s.kv == nil {
		return
	}

	raw, err := s.kv.HGet(ctx, chatsKey(userID), chatID)
	if err != nil {
		return
	}
	var meta models.ChatMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return
	}
	meta.Title = title
	data, err := json.Marshal(meta)
	if err != nil {
		return
	}
	if err := s.kv.HSet(ctx, chatsKey(userID), chatID, string(data)); err != nil {
		s.log.WithError(err).Warn("更新会话标题失败")
	}
}

func (s *redisSessionStore) AppendMessage(ctx context.Context, chatID, role, content string) {
	if s.kv == nil {
		return
	}

	data, err := json.Marshal(models.ChatMessage{Role: role, Content: content})
	if err != nil {
		return
	}
	if err := s.kv.RPush(ctx, messagesKey(chatID), string(data)); err != nil {
		s.log.WithError(err).Warn("追加会话消息失败")
	}
}

func (s *redisSessionStore) History(ctx context.Context, chatID string) []models.ChatMessage {
	if s.kv == nil {
		return nil
	}

	raw, err := s.kv.LRange(ctx, messagesKey(chatID), 0, -1)
	if err != nil {
		s.log.WithError(err).Warn("读取会话历史失败，降级为空")
		return nil
	}
	messages := make([]models.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages
}
