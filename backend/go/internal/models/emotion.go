package models

import "time"

// EmotionLog 是一条情绪分类记录，只追加、按时间排序，从不修改。
type EmotionLog struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	Emotion   string    `gorm:"size:64"`
	Score     float64   // 分类器置信度，0..1
	Timestamp time.Time `gorm:"index;autoCreateTime"`
}

// TableName 自定义表名。
func (EmotionLog) TableName() string {
	return "emotion_logs"
}
