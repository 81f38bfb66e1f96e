package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/userdesk/internal/logger"
	"github.com/userdesk/internal/provider"
	"github.com/userdesk/internal/queue"
	"github.com/userdesk/internal/service"

	"github.com/hibiken/asynq"
)

// VerificationDeliverer 验证邮件投递能力
type VerificationDeliverer interface {
	Deliver(payload queue.VerificationEmailPayload) error
	LogFallbackLink(payload queue.VerificationEmailPayload, reason string)
}

// Consumer 异步任务消费者
type Consumer struct {
	Mailer VerificationDeliverer
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	consumer := &Consumer{}
	if c != nil && c.VerificationMailer != nil {
		consumer.Mailer = c.VerificationMailer
	}
	return consumer
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskVerificationEmail, c.handleVerificationEmail)
}

func (c *Consumer) handleVerificationEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Mailer == nil || task == nil {
		logger.Debugw("worker_verification_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseVerificationEmailPayload(task)
	if err != nil {
		logger.Warnw("worker_verification_email_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if strings.TrimSpace(payload.Email) == "" || strings.TrimSpace(payload.Link) == "" {
		logger.Debugw("worker_verification_email_skip_invalid_payload", "user_id", payload.UserID)
		return nil
	}

	sendErr := c.Mailer.Deliver(payload)
	if sendErr == nil {
		logger.Infow("worker_verification_email_sent", "user_id", payload.UserID)
		return nil
	}

	retryable := service.IsRetryableSendError(sendErr)
	lastAttempt := isLastAttempt(ctx)
	logger.Warnw("worker_verification_email_send_failed",
		"user_id", payload.UserID,
		"retryable", retryable,
		"last_attempt", lastAttempt,
		"error", sendErr,
	)
	if !retryable {
		c.Mailer.LogFallbackLink(payload, "delivery_failed")
		return fmt.Errorf("%w: %v", asynq.SkipRetry, sendErr)
	}
	if lastAttempt {
		c.Mailer.LogFallbackLink(payload, "retries_exhausted")
	}
	return sendErr
}

// isLastAttempt 判断当前是否为最后一次执行，无法获取重试信息时视为最后一次
func isLastAttempt(ctx context.Context) bool {
	retried, ok := asynq.GetRetryCount(ctx)
	if !ok {
		return true
	}
	maxRetry, ok := asynq.GetMaxRetry(ctx)
	if !ok {
		return true
	}
	return retried >= maxRetry
}
