package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/userdesk/internal/config"
	"github.com/userdesk/internal/constants"
	"github.com/userdesk/internal/logger"
	"github.com/userdesk/internal/models"
	"github.com/userdesk/internal/service"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	actionSeed  = "seed"
	actionClear = "clear"
	actionDrop  = "drop"
	actionCheck = "check"

	demoPassword = "Demo123!"
)

var demoUsers = []struct {
	Name   string
	Email  string
	Status string
}{
	{Name: "Alice Johnson", Email: "alice@example.com", Status: constants.UserStatusActive},
	{Name: "Bob Smith", Email: "bob@example.com", Status: constants.UserStatusActive},
	{Name: "Carol White", Email: "carol@example.com", Status: constants.UserStatusUnverified},
	{Name: "Dave Brown", Email: "dave@example.com", Status: constants.UserStatusBlocked},
	{Name: "Eve Davis", Email: "eve@example.com", Status: constants.UserStatusUnverified},
}

func main() {
	var action string
	var withDemo bool
	flag.StringVar(&action, "action", actionSeed, "操作: seed, clear, drop, check")
	flag.BoolVar(&withDemo, "demo", false, "seed 时同时创建演示用户")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	// 连接数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Server.Mode, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := run(context.Background(), models.DB, cfg, action, withDemo); err != nil {
		stdLog.Fatalf("Action %s failed: %v", action, err)
	}
	stdLog.Printf("Action %s completed", action)
}

func run(ctx context.Context, db *gorm.DB, cfg *config.Config, action string, withDemo bool) error {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case actionSeed:
		if err := models.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		return seed(db, cfg, withDemo)
	case actionClear:
		return clearUsers(db)
	case actionDrop:
		return models.DropTables(db)
	case actionCheck:
		return check(ctx, db, cfg)
	default:
		return fmt.Errorf("unknown action: %s", action)
	}
}

func seed(db *gorm.DB, cfg *config.Config, withDemo bool) error {
	admin, err := models.InitDefaultAdmin(db, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name, cfg.Security.BcryptCost)
	if err != nil {
		return fmt.Errorf("init admin: %w", err)
	}
	logger.Infow("seed_admin_ready", "email", admin.Email, "user_id", admin.ID)
	if !withDemo {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), seedCost(cfg.Security.BcryptCost))
	if err != nil {
		return err
	}
	now := time.Now()
	for i, demo := range demoUsers {
		var existing models.User
		err := db.Where("email = ?", demo.Email).First(&existing).Error
		if err == nil {
			logger.Infow("seed_user_exists", "email", demo.Email)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		user := models.User{
			Name:         demo.Name,
			Email:        demo.Email,
			PasswordHash: string(hash),
			Status:       demo.Status,
			CreatedAt:    now.Add(-time.Duration(len(demoUsers)-i) * time.Hour),
		}
		if demo.Status == constants.UserStatusActive {
			lastLogin := now.Add(-time.Duration(i+1) * time.Minute)
			user.LastLogin = &lastLogin
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("create demo user %s: %w", demo.Email, err)
		}
		logger.Infow("seed_user_created", "email", demo.Email, "status", demo.Status)
	}
	return nil
}

func clearUsers(db *gorm.DB) error {
	result := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.User{})
	if result.Error != nil {
		return result.Error
	}
	logger.Infow("seed_users_cleared", "count", result.RowsAffected)
	return nil
}

func check(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := models.Ping(pingCtx, db); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	logger.Infow("check_database_ok", "driver", cfg.Database.Driver)

	if !cfg.Email.Enabled {
		logger.Infow("check_email_skipped", "reason", "email_disabled")
		return nil
	}
	if err := service.NewEmailService(&cfg.Email, cfg.App.Name).CheckConnection(); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	logger.Infow("check_email_ok", "host", cfg.Email.Host)
	return nil
}

func seedCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}
