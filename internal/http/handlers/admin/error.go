package admin

import (
	"errors"

	handlershared "github.com/userdesk/internal/http/handlers/shared"
	"github.com/userdesk/internal/http/response"
	"github.com/userdesk/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type mappedHandlerError struct {
	target error
	code   int
	key    string
}

var userIDsErrorRules = []mappedHandlerError{
	{target: service.ErrUserIDsRequired, code: response.CodeBadRequest, key: "error.user_ids_required"},
	{target: service.ErrInvalidUserID, code: response.CodeBadRequest, key: "error.user_ids_invalid"},
}

var blockErrorRules = append([]mappedHandlerError{
	{target: service.ErrSelfBlock, code: response.CodeBadRequest, key: "error.self_block"},
	{target: service.ErrNoUsersBlocked, code: response.CodeBadRequest, key: "error.none_blocked"},
}, userIDsErrorRules...)

var unblockErrorRules = append([]mappedHandlerError{
	{target: service.ErrNoUsersUnblocked, code: response.CodeBadRequest, key: "error.none_unblocked"},
}, userIDsErrorRules...)

var deleteErrorRules = append([]mappedHandlerError{
	{target: service.ErrSelfDelete, code: response.CodeBadRequest, key: "error.self_delete"},
	{target: service.ErrNoUsersDeleted, code: response.CodeBadRequest, key: "error.none_deleted"},
}, userIDsErrorRules...)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, response.CodeInternal, fallbackKey, err)
}
