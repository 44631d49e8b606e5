package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"Lumina_AI/backend/go/internal/models"
)

// EmotionStore 持久化情绪分类记录并支持按时间窗口查询。
type EmotionStore interface {
	Insert(ctx context.Context, entry *models.EmotionLog) error
	// RecentSince 返回某用户在 since 之后的全部记录，按时间降序。
	RecentSince(ctx context.Context, userID uint, since time.Time) ([]models.EmotionLog, error)
}

type gormEmotionStore struct {
	db *gorm.DB
}

// NewEmotionStore 创建一个由 GORM 支撑的 EmotionStore。
func NewEmotionStore(db *gorm.DB) EmotionStore {
	return &gormEmotionStore{db: db}
}

func (s *gormEmotionStore) Insert(ctx context.Context, entry *models.EmotionLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *gormEmotionStore) RecentSince(ctx context.Context, userID uint, since time.Time) ([]models.EmotionLog, error) {
	var logs []models.EmotionLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ?", userID, since).
		Order("timestamp DESC").
		Find(&logs).Error
	return logs, err
}
