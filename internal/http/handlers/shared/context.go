package shared

import (
	"github.com/userdesk/internal/constants"
	"github.com/userdesk/internal/http/response"
	"github.com/userdesk/internal/models"

	"github.com/gin-gonic/gin"
)

// GetAuthUser 读取鉴权中间件写入的当前用户，缺失时直接返回 401。
func GetAuthUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyAuthUser)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.access_token_required", nil)
		return nil, false
	}
	user, ok := value.(*models.User)
	if !ok || user == nil {
		RespondError(c, response.CodeInternal, "error.auth_failed", nil)
		return nil, false
	}
	return user, true
}

// SetAuthUser 写入当前用户
func SetAuthUser(c *gin.Context, user *models.User) {
	c.Set(constants.ContextKeyAuthUser, user)
	c.Set(constants.ContextKeyUserID, user.ID)
}
