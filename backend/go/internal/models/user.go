package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User 代表系统中的一个用户账户。
type User struct {
	gorm.Model

	Email          string `gorm:"uniqueIndex;not null"`
	FullName       string `gorm:"size:255"`
	HashedPassword string `gorm:"size:255" json:"-"` // 存储哈希后的密码，json中忽略
	IsActive       bool   `gorm:"default:true"`
	Settings       datatypes.JSON
}

// TableName 自定义表名。
func (User) TableName() string {
	return "users"
}
