package public

import "github.com/userdesk/internal/provider"

// Handler 公开接口处理器入口
// 说明：该处理器用于注册、登录、验证与系统探活接口。
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
