package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Goal 的持续时间单位。
const (
	UnitDays   = "days"
	UnitWeeks  = "weeks"
	UnitMonths = "months"
)

// Goal 的优先级。
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Goal 的生命周期状态。
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Subtask 是目标分解产出的一个子任务。Completed 在创建后可由外部修改。
type Subtask struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Goal 代表用户的一个学习目标。子任务由分解引擎整体替换，从不增量合并。
type Goal struct {
	gorm.Model

	UserID       uint   `gorm:"index;not null"`
	Title        string `gorm:"size:255;not null"`
	Description  string `gorm:"size:1024"`
	Duration     int
	DurationUnit string         `gorm:"size:16"` // days / weeks / months
	Priority     string         `gorm:"size:16"` // High / Medium / Low
	Status       string         `gorm:"size:24;default:'not_started'"`
	Subtasks     datatypes.JSON // []Subtask 的 JSON 表示
}

// TableName 自定义表名。
func (Goal) TableName() string {
	return "goals"
}
