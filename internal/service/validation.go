package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var userEmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("useremail", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	return v
}

// IsValidEmail 校验邮箱格式
func IsValidEmail(email string) bool {
	return userEmailPattern.MatchString(strings.TrimSpace(email))
}

// validateInput 校验输入：先汇总缺失的必填字段，再返回首个格式错误
func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	missing := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return NewValidationError("error.missing_fields", strings.Join(missing, ", "))
	}

	for _, fe := range fieldErrors {
		switch fe.Tag() {
		case "useremail":
			return NewValidationError("error.email_invalid")
		}
	}
	return NewValidationError("error.bad_request")
}
