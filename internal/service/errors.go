package service

import "errors"

var (
	ErrValidation           = errors.New("validation failed")
	ErrWeakPassword         = errors.New("password does not meet policy")
	ErrEmailExists          = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserBlocked          = errors.New("user blocked")
	ErrInvalidToken         = errors.New("invalid token")
	ErrExpiredToken         = errors.New("token expired")
	ErrTokenPurposeMismatch = errors.New("token purpose mismatch")
	ErrTokenRequired        = errors.New("token required")
	ErrNotFound             = errors.New("not found")
	ErrUserIDsRequired      = errors.New("user ids required")
	ErrInvalidUserID        = errors.New("invalid user id")
	ErrSelfBlock            = errors.New("cannot block own account")
	ErrSelfDelete           = errors.New("cannot delete own account")
	ErrNoUsersBlocked       = errors.New("no users blocked")
	ErrNoUsersUnblocked     = errors.New("no users unblocked")
	ErrNoUsersDeleted       = errors.New("no users deleted")
	ErrEmailNotConfigured   = errors.New("email service not configured")
)

// ValidationError 携带 i18n key 的参数校验错误
type ValidationError struct {
	key  string
	args []interface{}
}

// NewValidationError 创建参数校验错误
func NewValidationError(key string, args ...interface{}) *ValidationError {
	return &ValidationError{key: key, args: args}
}

func (e *ValidationError) Error() string {
	return e.key
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Key() string {
	return e.key
}

func (e *ValidationError) Args() []interface{} {
	return e.args
}
