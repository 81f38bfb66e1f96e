package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)" json:"id"`                              // 主键（UUID）
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`                             // 姓名
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`                // 邮箱（小写）
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`                                // 密码哈希（不返回给前端）
	Status       string     `gorm:"type:varchar(20);not null;default:'unverified';index" json:"status"` // 账号状态
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`                                         // 注册时间
	LastLogin    *time.Time `json:"last_login"`                                                         // 最后登录时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate 分配 UUID 并归一化邮箱
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(u.ID) == "" {
		u.ID = uuid.NewString()
	}
	u.Email = NormalizeEmail(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	return nil
}

// NormalizeEmail 邮箱统一小写并去除首尾空白
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
