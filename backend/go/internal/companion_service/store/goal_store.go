package store

import (
	"context"

	"gorm.io/gorm"

	"Lumina_AI/backend/go/internal/models"
)

// GoalStore 持久化用户目标。子任务以 JSON 列整体存储，由分解引擎
// 整体替换。
type GoalStore interface {
	Create(ctx context.Context, goal *models.Goal) error
	ListByUser(ctx context.Context, userID uint) ([]models.Goal, error)
	GetByID(ctx context.Context, userID, goalID uint) (*models.Goal, error)
	Update(ctx context.Context, goal *models.Goal) error
	Delete(ctx context.Context, userID, goalID uint) error
}

type gormGoalStore struct {
	db *gorm.DB
}

// NewGoalStore 创建一个由 GORM 支撑的 GoalStore。
func NewGoalStore(db *gorm.DB) GoalStore {
	return &gormGoalStore{db: db}
}

func (s *gormGoalStore) Create(ctx context.Context, goal *models.Goal) error {
	return s.db.WithContext(ctx).Create(goal).Error
}

func (s *gormGoalStore) ListByUser(ctx context.Context, userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&goals).Error
	return goals, err
}

func (s *gormGoalStore) GetByID(ctx context.Context, userID, goalID uint) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&goal, goalID).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *gormGoalStore) Update(ctx context.Context, goal *models.Goal) error {
	return s.db.WithContext(ctx).Save(goal).Error
}

func (s *gormGoalStore) Delete(ctx context.Context, userID, goalID uint) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Goal{}, goalID).Error
}
