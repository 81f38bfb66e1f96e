package authflow

import (
	"context"
	"errors"
	"strings"

	"github.com/userdesk/internal/constants"
	"github.com/userdesk/internal/http/response"
	"github.com/userdesk/internal/models"
	"github.com/userdesk/internal/service"
)

var errMissingUser = errors.New("authflow: user not resolved")

// TokenVerifier Token 校验
type TokenVerifier interface {
	Verify(tokenString string, opts service.VerifyOptions) (*service.TokenClaims, error)
}

// UserLoader 按 ID 读取用户，不存在时返回 nil, nil
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// StatusPolicy 判断账号状态能否访问资源
type StatusPolicy interface {
	AllowStatus(status, path, method string) (bool, error)
}

// BearerToken 从 Authorization 头提取 Bearer Token
func BearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Authenticate 校验会话 Token 并写入声明
func Authenticate(tokens TokenVerifier) Step {
	return func(_ context.Context, st State) (State, error) {
		raw := BearerToken(st.Header)
		if raw == "" {
			return st, response.NewAppError(response.CodeUnauthorized, "error.access_token_required")
		}
		claims, err := tokens.Verify(raw, service.VerifyOptions{})
		if err != nil {
			return st, response.WrapError(response.CodeUnauthorized, "error.token_expired_or_invalid", err)
		}
		if claims.Purpose != constants.TokenPurposeSession {
			return st, response.WrapError(response.CodeUnauthorized, "error.token_expired_or_invalid", service.ErrTokenPurposeMismatch)
		}
		st.Claims = claims
		return st, nil
	}
}

// Revalidate 每次请求重新读取用户，Token 中的状态不作为依据
func Revalidate(users UserLoader) Step {
	return func(ctx context.Context, st State) (State, error) {
		if st.Claims == nil {
			return st, response.NewAppError(response.CodeUnauthorized, "error.access_token_required")
		}
		user, err := users.GetByID(ctx, st.Claims.UserID)
		if err != nil {
			return st, response.WrapError(response.CodeInternal, "error.auth_failed", err)
		}
		if user == nil {
			return st, response.NewAppError(response.CodeUnauthorized, "error.user_gone")
		}
		if user.Status == constants.UserStatusBlocked {
			return st, response.WrapError(response.CodeForbidden, "error.account_blocked", service.ErrUserBlocked)
		}
		st.User = user
		return st, nil
	}
}

// RequireActive 仅允许策略放行的账号状态，policy 为空时要求 active
func RequireActive(policy StatusPolicy) Step {
	return func(_ context.Context, st State) (State, error) {
		if st.User == nil {
			return st, response.WrapError(response.CodeInternal, "error.auth_failed", errMissingUser)
		}
		allowed := st.User.Status == constants.UserStatusActive
		if policy != nil {
			ok, err := policy.AllowStatus(st.User.Status, st.Path, st.Method)
			if err != nil {
				return st, response.WrapError(response.CodeInternal, "error.auth_failed", err)
			}
			allowed = ok
		}
		if !allowed {
			return st, response.NewAppError(response.CodeForbidden, "error.active_required")
		}
		return st, nil
	}
}
