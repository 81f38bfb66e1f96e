package response

import "errors"

// AppError 统一错误包装，Message 为 i18n key
type AppError struct {
	Code    int
	Message string
	Args    []interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppError 创建不带底层错误的业务错误
func NewAppError(code int, message string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Args:    args,
	}
}

// AsAppError 提取错误链中的 AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
