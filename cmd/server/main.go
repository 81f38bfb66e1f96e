package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/userdesk/internal/app"
	"github.com/userdesk/internal/config"
	"github.com/userdesk/internal/constants"
	"github.com/userdesk/internal/logger"
	"github.com/userdesk/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiGreen = "\033[32m"
	ansiCyan  = "\033[36m"
)

func main() {
	// 解析命令行参数
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	printStartupBanner(cfg)

	if cfg.Server.Mode == constants.ServerModeRelease {
		if isWeakSecret(cfg.JWT.SecretKey) {
			stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
	} else if isWeakSecret(cfg.JWT.SecretKey) {
		stdLog.Printf("警告: JWT secret 过弱或仍为默认值，建议在生产环境中更换")
	}

	// 初始化数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Server.Mode, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}

	// 自动迁移数据库表
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 初始化默认管理员账号
	if cfg.Server.Mode == constants.ServerModeRelease && isDefaultAdminPassword(cfg.Admin.Password) {
		stdLog.Printf("警告: 未设置 ADMIN_PASSWORD，已跳过默认管理员初始化")
	} else if _, err := models.InitDefaultAdmin(models.DB, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name, cfg.Security.BcryptCost); err != nil {
		stdLog.Printf("警告: 初始化默认管理员失败: %v", err)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == constants.ServerModeRelease {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner(cfg *config.Config) {
	fmt.Println(ansiCyan + "╔══════════════════════════════════════════════════════════════╗" + ansiReset)
	fmt.Printf(ansiCyan+"║  %-60s║"+ansiReset+"\n", cfg.App.Name+" API v"+constants.AppVersion)
	fmt.Println(ansiCyan + "╚══════════════════════════════════════════════════════════════╝" + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "Environment: " + cfg.App.Environment + ansiReset)
	fmt.Println(ansiGreen + "• Listen:    " + cfg.Server.Host + ":" + cfg.Server.Port + ansiReset)
	fmt.Println(ansiGreen + "• Frontend:  " + cfg.App.FrontendURL + ansiReset)
	fmt.Println(ansiGreen + "• Database:  " + cfg.Database.Driver + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}

func isDefaultAdminPassword(password string) bool {
	password = strings.TrimSpace(password)
	return password == "" || password == "admin123"
}
