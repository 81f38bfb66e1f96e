package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/userdesk/internal/config"
	"github.com/userdesk/internal/logger"
	"github.com/userdesk/internal/models"
	"github.com/userdesk/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	defaultVerificationMaxAttempts = 3
	defaultVerificationBackoff     = time.Second
)

// VerificationSender 验证邮件发送方
type VerificationSender interface {
	Enabled() bool
	SendVerificationEmail(toEmail string, input VerificationEmailInput) error
}

// VerificationQueue 验证邮件异步队列
type VerificationQueue interface {
	Enabled() bool
	EnqueueVerificationEmail(payload queue.VerificationEmailPayload, opts ...asynq.Option) error
}

// VerificationMailer 注册验证邮件投递，发送失败不影响请求结果
type VerificationMailer struct {
	sender      VerificationSender
	queue       VerificationQueue
	frontendURL string
	expireHours int
	maxAttempts int
	backoff     time.Duration
	sleep       func(ctx context.Context, d time.Duration) error

	wg sync.WaitGroup
}

// NewVerificationMailer 创建验证邮件投递器
func NewVerificationMailer(cfg *config.Config, sender VerificationSender, q VerificationQueue) *VerificationMailer {
	maxAttempts := cfg.Email.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultVerificationMaxAttempts
	}
	backoff := time.Duration(cfg.Email.BackoffMS) * time.Millisecond
	if backoff <= 0 {
		backoff = defaultVerificationBackoff
	}
	expireHours := cfg.JWT.VerifyExpireHours
	if expireHours <= 0 {
		expireHours = defaultVerifyExpireHours
	}
	return &VerificationMailer{
		sender:      sender,
		queue:       q,
		frontendURL: cfg.App.FrontendURL,
		expireHours: expireHours,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		sleep:       sleepContext,
	}
}

// VerificationLink 拼接前端验证地址
func VerificationLink(frontendURL, token string) string {
	return strings.TrimRight(strings.TrimSpace(frontendURL), "/") + "/verify/" + token
}

// Payload 构造验证邮件任务载荷
func (m *VerificationMailer) Payload(user *models.User, token string) queue.VerificationEmailPayload {
	return queue.VerificationEmailPayload{
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Link:        VerificationLink(m.frontendURL, token),
		ExpireHours: m.expireHours,
	}
}

// Dispatch 投递验证邮件：队列可用时入队，否则后台协程带退避重试；邮件未启用时仅记录验证链接
func (m *VerificationMailer) Dispatch(ctx context.Context, user *models.User, token string) {
	if m == nil || user == nil {
		return
	}
	payload := m.Payload(user, token)

	if m.sender == nil || !m.sender.Enabled() {
		m.LogFallbackLink(payload, "email_disabled")
		return
	}

	if m.queue != nil && m.queue.Enabled() {
		err := m.queue.EnqueueVerificationEmail(payload)
		if err == nil {
			return
		}
		logger.Warnw("verification_email_enqueue_failed",
			"user_id", payload.UserID,
			"error", err,
		)
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		_ = m.DeliverWithRetry(context.WithoutCancel(ctx), payload)
	}()
}

// Deliver 单次发送验证邮件
func (m *VerificationMailer) Deliver(payload queue.VerificationEmailPayload) error {
	return m.sender.SendVerificationEmail(payload.Email, VerificationEmailInput{
		Name:        payload.Name,
		Link:        payload.Link,
		ExpireHours: payload.ExpireHours,
		Locale:      payload.Locale,
	})
}

// DeliverWithRetry 发送验证邮件，仅对网络类错误按 backoff·2^n 重试
func (m *VerificationMailer) DeliverWithRetry(ctx context.Context, payload queue.VerificationEmailPayload) error {
	var lastErr error
	for attempt := 0; attempt < m.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := m.backoff * time.Duration(1<<uint(attempt-1))
			if err := m.sleep(ctx, delay); err != nil {
				lastErr = err
				break
			}
		}
		lastErr = m.Deliver(payload)
		if lastErr == nil {
			logger.Infow("verification_email_sent",
				"user_id", payload.UserID,
				"attempt", attempt+1,
			)
			return nil
		}
		logger.Warnw("verification_email_send_failed",
			"user_id", payload.UserID,
			"attempt", attempt+1,
			"max_attempts", m.maxAttempts,
			"retryable", IsRetryableSendError(lastErr),
			"error", lastErr,
		)
		if !IsRetryableSendError(lastErr) {
			break
		}
	}
	m.LogFallbackLink(payload, "delivery_failed")
	return lastErr
}

// LogFallbackLink 记录验证链接，供管理员人工转交
func (m *VerificationMailer) LogFallbackLink(payload queue.VerificationEmailPayload, reason string) {
	logger.Warnw("verification_email_fallback_link",
		"user_id", payload.UserID,
		"email", payload.Email,
		"reason", reason,
		"link", payload.Link,
	)
}

// Wait 等待后台投递协程结束
func (m *VerificationMailer) Wait() {
	if m == nil {
		return
	}
	m.wg.Wait()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
