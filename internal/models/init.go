package models

import (
	"errors"
	"strings"

	"github.com/userdesk/internal/constants"
	"github.com/userdesk/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultAdminPassword   = "admin123"
	defaultAdminBcryptCost = 12
)

// InitDefaultAdmin 初始化默认管理员账号（已激活）
func InitDefaultAdmin(db *gorm.DB, email, password, name string, cost int) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		email = "admin@example.com"
	}
	if password == "" {
		password = defaultAdminPassword
	}
	if strings.TrimSpace(name) == "" {
		name = "Admin User"
	}

	var existing User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = defaultAdminBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}

	admin := User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		return nil, err
	}

	if password == defaultAdminPassword {
		logger.Warnw("default_admin_created_with_default_password", "email", email)
		logger.Warnw("default_admin_password_change_required", "email", email)
	} else {
		logger.Warnw("default_admin_created", "email", email, "password_hidden", true)
	}
	return &admin, nil
}
