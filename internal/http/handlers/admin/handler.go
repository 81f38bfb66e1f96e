package admin

import "github.com/userdesk/internal/provider"

// Handler 用户管理接口处理器入口
// 说明：该处理器仅用于需要登录的用户管理 API。
type Handler struct {
	*provider.Container
}

// New 创建用户管理处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
