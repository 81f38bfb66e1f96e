package models

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/userdesk/internal/logger"

	"github.com/glebarez/sqlite" // 纯 Go SQLite 驱动（基于 modernc.org/sqlite）
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// DBPoolConfig 数据库连接池配置
type DBPoolConfig struct {
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeSeconds int
	ConnMaxIdleTimeSeconds int
}

// InitDB 初始化数据库连接
func InitDB(driver, dsn, mode string, pool DBPoolConfig) error {
	db, err := OpenDB(driver, dsn, mode)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	applyDBPool(sqlDB, pool)
	DB = db
	return nil
}

// OpenDB 按驱动打开数据库，唯一约束冲突统一翻译为 gorm.ErrDuplicatedKey
func OpenDB(driver, dsn, mode string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		// glebarez/sqlite 是基于 modernc.org/sqlite 的纯 Go 驱动
		dialector = sqlite.Open(dsn)
	case "postgres", "postgresql":
		dialector = postgres.Open(withConnectTimeout(dsn))
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGormLogger(mode),
		TranslateError: true,
	})
}

// withConnectTimeout 为 postgres DSN 补充默认连接超时
func withConnectTimeout(dsn string) string {
	if strings.Contains(dsn, "connect_timeout") {
		return dsn
	}
	trimmed := strings.TrimSpace(dsn)
	if strings.HasPrefix(trimmed, "postgres://") || strings.HasPrefix(trimmed, "postgresql://") {
		if strings.Contains(trimmed, "?") {
			return trimmed + "&connect_timeout=2"
		}
		return trimmed + "?connect_timeout=2"
	}
	return trimmed + " connect_timeout=2"
}

func applyDBPool(sqlDB *sql.DB, pool DBPoolConfig) {
	if sqlDB == nil {
		return
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetimeSeconds > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeSeconds) * time.Second)
	}
	if pool.ConnMaxIdleTimeSeconds > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(pool.ConnMaxIdleTimeSeconds) * time.Second)
	}
}

// AutoMigrate 自动迁移所有数据库表
func AutoMigrate() error {
	return Migrate(DB)
}

// Migrate 迁移用户表并补齐排序索引
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}); err != nil {
		return err
	}
	return EnsureUserIndexes(db)
}

// EnsureUserIndexes 创建列表排序所需的降序索引
func EnsureUserIndexes(db *gorm.DB) error {
	for _, stmt := range userIndexStatements(db.Dialector.Name()) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create user index failed: %w", err)
		}
	}
	return nil
}

func userIndexStatements(dialect string) []string {
	lastLogin := "last_login DESC"
	if dialect == "postgres" {
		lastLogin = "last_login DESC NULLS LAST"
	}
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_users_created_at_desc ON users (created_at DESC)",
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_users_last_login_desc ON users (%s)", lastLogin),
	}
}

// DropTables 删除用户表与权限策略表
func DropTables(db *gorm.DB) error {
	if db.Migrator().HasTable("casbin_rule") {
		if err := db.Migrator().DropTable("casbin_rule"); err != nil {
			return err
		}
	}
	return db.Migrator().DropTable(&User{})
}

// Ping 检查数据库连通性
func Ping(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
