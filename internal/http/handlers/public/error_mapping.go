package public

import (
	"errors"

	handlershared "github.com/userdesk/internal/http/handlers/shared"
	"github.com/userdesk/internal/http/response"
	"github.com/userdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

// keyedError 携带 i18n key 与参数的业务错误，例如参数校验与密码策略错误。
type keyedError interface {
	Key() string
	Args() []interface{}
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	var keyed keyedError
	if errors.Is(err, service.ErrValidation) && errors.As(err, &keyed) {
		handlershared.RespondAppError(c, response.NewAppError(response.CodeBadRequest, keyed.Key(), keyed.Args()...))
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var registerErrorRules = []mappedHandlerError{
	{target: service.ErrEmailExists, code: response.CodeConflict, key: "error.email_exists"},
}

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.login_invalid"},
	{target: service.ErrUserBlocked, code: response.CodeForbidden, key: "error.account_blocked"},
}

var verifyErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidToken, code: response.CodeBadRequest, key: "error.verify_token_invalid"},
	{target: service.ErrExpiredToken, code: response.CodeBadRequest, key: "error.verify_token_invalid"},
	{target: service.ErrTokenPurposeMismatch, code: response.CodeBadRequest, key: "error.token_type_invalid"},
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.user_not_found"},
	{target: service.ErrUserBlocked, code: response.CodeForbidden, key: "error.verify_blocked"},
}

var refreshErrorRules = []mappedHandlerError{
	{target: service.ErrTokenRequired, code: response.CodeBadRequest, key: "error.refresh_token_required"},
	{target: service.ErrInvalidToken, code: response.CodeUnauthorized, key: "error.token_invalid"},
	{target: service.ErrExpiredToken, code: response.CodeUnauthorized, key: "error.token_invalid"},
	{target: service.ErrNotFound, code: response.CodeUnauthorized, key: "error.user_not_found"},
	{target: service.ErrUserBlocked, code: response.CodeForbidden, key: "error.account_blocked"},
}
