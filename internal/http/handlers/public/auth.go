package public

import (
	"strings"

	handlershared "github.com/userdesk/internal/http/handlers/shared"
	"github.com/userdesk/internal/http/response"
	"github.com/userdesk/internal/models"
	"github.com/userdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest 刷新 Token 请求
type RefreshRequest struct {
	Token string `json:"token"`
}

func userSummary(user *models.User) gin.H {
	return gin.H{
		"id":     user.ID,
		"name":   user.Name,
		"email":  user.Email,
		"status": user.Status,
	}
}

// bindOptionalJSON 解析 JSON 请求体，空请求体视为零值
func bindOptionalJSON(c *gin.Context, dest interface{}) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dest); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return false
	}
	return true
}

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	user, err := h.UserAuthService.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondWithMappedError(c, err, registerErrorRules, response.CodeInternal, "error.register_failed")
		return
	}

	handlershared.RequestLog(c).Infow("user_registered", "user_id", user.ID)
	response.Created(c, handlershared.T(c, "message.register_success"), gin.H{
		"user": userSummary(user),
	})
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.UserAuthService.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondWithMappedError(c, err, loginErrorRules, response.CodeInternal, "error.login_failed")
		return
	}

	response.Success(c, handlershared.T(c, "message.login_success"), gin.H{
		"token":     result.Token,
		"expiresAt": result.ExpiresAt,
		"user":      userSummary(result.User),
	})
}

// VerifyEmail 邮箱验证
func (h *Handler) VerifyEmail(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	user, err := h.UserAuthService.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		respondWithMappedError(c, err, verifyErrorRules, response.CodeInternal, "error.verify_failed")
		return
	}

	response.Success(c, handlershared.T(c, "message.verify_success"), gin.H{
		"user": userSummary(user),
	})
}

// RefreshToken 刷新会话 Token，允许使用已过期的会话 Token
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.UserAuthService.Refresh(c.Request.Context(), req.Token)
	if err != nil {
		respondWithMappedError(c, err, refreshErrorRules, response.CodeInternal, "error.refresh_failed")
		return
	}

	response.Success(c, handlershared.T(c, "message.refresh_success"), gin.H{
		"token":     result.Token,
		"expiresAt": result.ExpiresAt,
		"user":      userSummary(result.User),
	})
}
