package shared

import (
	"github.com/userdesk/internal/constants"
	"github.com/userdesk/internal/http/response"
	"github.com/userdesk/internal/i18n"
	"github.com/userdesk/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if id := c.GetString(constants.ContextKeyRequestID); id != "" {
		return logger.SW("request_id", id)
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondAppError(c, response.WrapError(code, key, err))
}

// RespondAppError 按 AppError 的 key 与参数返回国际化错误响应。
func RespondAppError(c *gin.Context, appErr *response.AppError) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.Sprintf(locale, appErr.Message, appErr.Args...)
	if len(appErr.Args) == 0 {
		msg = i18n.T(locale, appErr.Message)
	}
	if appErr.Err != nil && appErr.Code >= response.CodeInternal {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", msg,
			"error", appErr.Err,
		)
	}
	response.Error(c, appErr.Code, msg)
}

// T 翻译当前请求语言下的消息
func T(c *gin.Context, key string, args ...interface{}) string {
	locale := i18n.ResolveLocale(c)
	if len(args) == 0 {
		return i18n.T(locale, key)
	}
	return i18n.Sprintf(locale, key, args...)
}
