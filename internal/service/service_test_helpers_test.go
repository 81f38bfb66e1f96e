package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/userdesk/internal/config"
	"github.com/userdesk/internal/models"
	"github.com/userdesk/internal/queue"
	"github.com/userdesk/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT: config.JWTConfig{
			SecretKey:         "test-secret",
			ExpireHours:       168,
			VerifyExpireHours: 24,
		},
		App: config.AppConfig{Name: "NX IT-UMS", FrontendURL: "http://localhost:5173/"},
		Security: config.SecurityConfig{
			BcryptCost:     bcrypt.MinCost,
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 1},
		},
		Email: config.EmailConfig{MaxAttempts: 3, BackoffMS: 1000},
	}
}

func newTestUserRepository(t *testing.T) (*repository.GormUserRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repository.NewUserRepository(db), db
}

type sentEmail struct {
	To    string
	Input VerificationEmailInput
}

// fakeSender 按顺序返回预设错误，并记录每次发送
type fakeSender struct {
	enabled bool

	mu     sync.Mutex
	errs   []error
	sent   []sentEmail
	called int
}

func (f *fakeSender) Enabled() bool { return f.enabled }

func (f *fakeSender) SendVerificationEmail(to string, input VerificationEmailInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called++
	f.sent = append(f.sent, sentEmail{To: to, Input: input})
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func (f *fakeSender) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.called
}

// sentTo 返回最后一封发往 to 的邮件
func (f *fakeSender) sentTo(t *testing.T, to string) sentEmail {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].To == to {
			return f.sent[i]
		}
	}
	t.Fatalf("no email sent to %s", to)
	return sentEmail{}
}

type fakeQueue struct {
	enabled  bool
	err      error
	mu       sync.Mutex
	payloads []queue.VerificationEmailPayload
}

func (q *fakeQueue) Enabled() bool { return q.enabled }

func (q *fakeQueue) EnqueueVerificationEmail(payload queue.VerificationEmailPayload, _ ...asynq.Option) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.payloads = append(q.payloads, payload)
	return nil
}

// newInstantMailer 创建不真正等待退避时间的投递器，并记录退避时长
func newInstantMailer(cfg *config.Config, sender VerificationSender, q VerificationQueue) (*VerificationMailer, *[]time.Duration) {
	mailer := NewVerificationMailer(cfg, sender, q)
	delays := make([]time.Duration, 0)
	var mu sync.Mutex
	mailer.sleep = func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		delays = append(delays, d)
		mu.Unlock()
		return ctx.Err()
	}
	return mailer, &delays
}

type fakeStatsCache struct {
	stats       *repository.UserStats
	sets        int
	invalidated int
}

func (c *fakeStatsCache) GetUserStats(context.Context) (*repository.UserStats, bool, error) {
	if c.stats == nil {
		return nil, false, nil
	}
	copied := *c.stats
	return &copied, true, nil
}

func (c *fakeStatsCache) SetUserStats(_ context.Context, stats repository.UserStats) error {
	c.sets++
	c.stats = &stats
	return nil
}

func (c *fakeStatsCache) InvalidateUserStats(context.Context) error {
	c.invalidated++
	c.stats = nil
	return nil
}
