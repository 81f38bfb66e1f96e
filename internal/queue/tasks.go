package queue

import (
	"encoding/json"

	"github.com/userdesk/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskVerificationEmail 注册验证邮件任务
	TaskVerificationEmail = constants.TaskVerificationEmail
)

// VerificationEmailPayload 验证邮件任务载荷
type VerificationEmailPayload struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Link        string `json:"link"`
	ExpireHours int    `json:"expire_hours"`
	Locale      string `json:"locale,omitempty"`
}

// NewVerificationEmailTask 创建验证邮件任务
func NewVerificationEmailTask(payload VerificationEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskVerificationEmail, body), nil
}

// ParseVerificationEmailPayload 解析验证邮件任务载荷
func ParseVerificationEmailPayload(task *asynq.Task) (VerificationEmailPayload, error) {
	var payload VerificationEmailPayload
	if task == nil {
		return payload, asynq.SkipRetry
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
