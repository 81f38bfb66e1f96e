package worker

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/userdesk/internal/queue"
	"github.com/userdesk/internal/service"

	"github.com/hibiken/asynq"
)

type fakeDeliverer struct {
	err       error
	delivered []queue.VerificationEmailPayload
	fallbacks []string
}

func (f *fakeDeliverer) Deliver(payload queue.VerificationEmailPayload) error {
	f.delivered = append(f.delivered, payload)
	return f.err
}

func (f *fakeDeliverer) LogFallbackLink(_ queue.VerificationEmailPayload, reason string) {
	f.fallbacks = append(f.fallbacks, reason)
}

func newVerificationTask(t *testing.T, payload queue.VerificationEmailPayload) *asynq.Task {
	t.Helper()
	task, err := queue.NewVerificationEmailTask(payload)
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	return task
}

var samplePayload = queue.VerificationEmailPayload{
	UserID:      "u-1",
	Email:       "alice@example.com",
	Name:        "Alice",
	Link:        "http://localhost:5173/verify-email?token=abc",
	ExpireHours: 24,
}

func TestHandleVerificationEmailSuccess(t *testing.T) {
	mailer := &fakeDeliverer{}
	consumer := &Consumer{Mailer: mailer}

	if err := consumer.handleVerificationEmail(context.Background(), newVerificationTask(t, samplePayload)); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(mailer.delivered) != 1 || mailer.delivered[0].Email != "alice@example.com" {
		t.Fatalf("expected one delivery to alice, got %+v", mailer.delivered)
	}
	if len(mailer.fallbacks) != 0 {
		t.Fatalf("fallback link should not be logged on success")
	}
}

func TestHandleVerificationEmailPermanentErrorSkipsRetry(t *testing.T) {
	mailer := &fakeDeliverer{err: fmt.Errorf("%w: 550 no such user", service.ErrEmailRecipientRejected)}
	consumer := &Consumer{Mailer: mailer}

	err := consumer.handleVerificationEmail(context.Background(), newVerificationTask(t, samplePayload))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
	if len(mailer.fallbacks) != 1 || mailer.fallbacks[0] != "delivery_failed" {
		t.Fatalf("expected delivery_failed fallback, got %v", mailer.fallbacks)
	}
}

func TestHandleVerificationEmailNetworkErrorRetries(t *testing.T) {
	mailer := &fakeDeliverer{err: fmt.Errorf("dial smtp: %w", syscall.ECONNREFUSED)}
	consumer := &Consumer{Mailer: mailer}

	err := consumer.handleVerificationEmail(context.Background(), newVerificationTask(t, samplePayload))
	if err == nil || errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("network error should be returned for retry, got %v", err)
	}
	// 无重试上下文时视为最后一次执行
	if len(mailer.fallbacks) != 1 || mailer.fallbacks[0] != "retries_exhausted" {
		t.Fatalf("expected retries_exhausted fallback, got %v", mailer.fallbacks)
	}
}

func TestHandleVerificationEmailBadPayload(t *testing.T) {
	mailer := &fakeDeliverer{}
	consumer := &Consumer{Mailer: mailer}

	err := consumer.handleVerificationEmail(context.Background(), asynq.NewTask(queue.TaskVerificationEmail, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("malformed payload should skip retry, got %v", err)
	}
	if len(mailer.delivered) != 0 {
		t.Fatalf("malformed payload should not be delivered")
	}
}

func TestHandleVerificationEmailSkipsIncompletePayload(t *testing.T) {
	mailer := &fakeDeliverer{}
	consumer := &Consumer{Mailer: mailer}

	incomplete := samplePayload
	incomplete.Link = "  "
	if err := consumer.handleVerificationEmail(context.Background(), newVerificationTask(t, incomplete)); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(mailer.delivered) != 0 {
		t.Fatalf("incomplete payload should not be delivered")
	}
}

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	if _, err := NewService(nil, &Consumer{}); err == nil {
		t.Fatalf("expected error for nil queue config")
	}
}
