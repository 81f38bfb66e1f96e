package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/userdesk/internal/constants"
	"github.com/userdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	svc    *UserAuthService
	tokens *TokenService
	sender *fakeSender
	mailer *VerificationMailer
	repo   interface {
		GetByID(ctx context.Context, id string) (*models.User, error)
	}
	admin *UserAdminService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	cfg := newTestConfig()
	repo, _ := newTestUserRepository(t)
	tokens := NewTokenService(cfg.JWT)
	sender := &fakeSender{enabled: true}
	mailer, _ := newInstantMailer(cfg, sender, nil)
	return &authFixture{
		svc:    NewUserAuthService(cfg, repo, tokens, mailer),
		tokens: tokens,
		sender: sender,
		mailer: mailer,
		repo:   repo,
		admin:  NewUserAdminService(repo, nil),
	}
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	idx := strings.LastIndex(link, "/verify/")
	require.GreaterOrEqual(t, idx, 0, "link should contain /verify/: %s", link)
	return link[idx+len("/verify/"):]
}

func TestRegisterValidation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input RegisterInput
		key   string
		args  []interface{}
	}{
		{name: "missing all", input: RegisterInput{}, key: "error.missing_fields", args: []interface{}{"name, email, password"}},
		{name: "blank name", input: RegisterInput{Name: "  ", Email: "a@example.com", Password: "x"}, key: "error.missing_fields", args: []interface{}{"name"}},
		{name: "blank password", input: RegisterInput{Name: "A", Email: "bad", Password: "   "}, key: "error.missing_fields", args: []interface{}{"password"}},
		{name: "bad email", input: RegisterInput{Name: "A", Email: "not-an-email", Password: "x"}, key: "error.email_invalid"},
		{name: "short tld", input: RegisterInput{Name: "A", Email: "a@b.c", Password: "x"}, key: "error.email_invalid"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Register(ctx, tc.input)
			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.key, verr.Key())
			if tc.args != nil {
				assert.Equal(t, tc.args, verr.Args())
			}
		})
	}
}

func TestRegisterCreatesUnverifiedUserAndSendsVerification(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, RegisterInput{Name: " Alice ", Email: " Alice@Example.com ", Password: "pw123"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, constants.UserStatusUnverified, user.Status)
	assert.NotEqual(t, "pw123", user.PasswordHash)

	f.mailer.Wait()
	require.Equal(t, 1, f.sender.calls())
	sent := f.sender.sentTo(t, "alice@example.com")
	assert.Equal(t, 24, sent.Input.ExpireHours)
	assert.True(t, strings.HasPrefix(sent.Input.Link, "http://localhost:5173/verify/"), sent.Input.Link)

	claims, err := f.tokens.Verify(tokenFromLink(t, sent.Input.Link), VerifyOptions{})
	require.NoError(t, err)
	assert.Equal(t, constants.TokenPurposeVerification, claims.Purpose)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = f.svc.Register(ctx, RegisterInput{Name: "Other", Email: "ALICE@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRegisterSucceedsWhenEmailFails(t *testing.T) {
	f := newAuthFixture(t)
	f.sender.errs = []error{ErrEmailAuthFailed}

	user, err := f.svc.Register(context.Background(), RegisterInput{Name: "B", Email: "b@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	f.mailer.Wait()
	assert.Equal(t, 1, f.sender.calls(), "auth failures are not retried")
}

func TestLoginFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, RegisterInput{Name: "C", Email: "c@example.com", Password: "pw123"})
	require.NoError(t, err)
	f.mailer.Wait()

	_, err = f.svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "pw123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, LoginInput{Email: "c@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, LoginInput{Email: "c@example.com"})
	assert.ErrorIs(t, err, ErrValidation)

	result, err := f.svc.Login(ctx, LoginInput{Email: "  C@EXAMPLE.com ", Password: "pw123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	require.NotNil(t, result.User.LastLogin)

	claims, err := f.tokens.Verify(result.Token, VerifyOptions{})
	require.NoError(t, err)
	assert.Equal(t, constants.TokenPurposeSession, claims.Purpose)

	stored, err := f.repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLogin)
}

func TestLoginBlockedUserIsForbiddenBeforePasswordCheck(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	admin, err := f.svc.Register(ctx, RegisterInput{Name: "Admin", Email: "admin@example.com", Password: "pw"})
	require.NoError(t, err)
	target, err := f.svc.Register(ctx, RegisterInput{Name: "T", Email: "t@example.com", Password: "pw"})
	require.NoError(t, err)
	f.mailer.Wait()

	_, err = f.admin.Block(ctx, admin.ID, []string{target.ID})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, LoginInput{Email: "t@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUserBlocked)
}

func TestVerifyEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, RegisterInput{Name: "D", Email: "d@example.com", Password: "pw"})
	require.NoError(t, err)
	f.mailer.Wait()
	token := tokenFromLink(t, f.sender.sentTo(t, "d@example.com").Input.Link)

	verified, err := f.svc.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, constants.UserStatusActive, verified.Status)

	again, err := f.svc.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, constants.UserStatusActive, again.Status)

	_, err = f.svc.VerifyEmail(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	session, _, err := f.tokens.IssueSession(user)
	require.NoError(t, err)
	_, err = f.svc.VerifyEmail(ctx, session)
	assert.ErrorIs(t, err, ErrTokenPurposeMismatch)

	ghost := &models.User{ID: "6f1c1d1e-0000-4000-8000-000000000000", Email: "ghost@example.com"}
	ghostToken, _, err := f.tokens.IssueVerification(ghost)
	require.NoError(t, err)
	_, err = f.svc.VerifyEmail(ctx, ghostToken)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyEmailBlockedUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	admin, err := f.svc.Register(ctx, RegisterInput{Name: "Admin", Email: "admin@example.com", Password: "pw"})
	require.NoError(t, err)
	target, err := f.svc.Register(ctx, RegisterInput{Name: "E", Email: "e@example.com", Password: "pw"})
	require.NoError(t, err)
	f.mailer.Wait()
	token := tokenFromLink(t, f.sender.sentTo(t, "e@example.com").Input.Link)
	claims, err := f.tokens.Verify(token, VerifyOptions{})
	require.NoError(t, err)
	require.Equal(t, target.ID, claims.UserID)

	_, err = f.admin.Block(ctx, admin.ID, []string{target.ID})
	require.NoError(t, err)

	_, err = f.svc.VerifyEmail(ctx, token)
	assert.ErrorIs(t, err, ErrUserBlocked)

	stored, err := f.repo.GetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.UserStatusBlocked, stored.Status)
}

func TestRefresh(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, RegisterInput{Name: "F", Email: "f@example.com", Password: "pw"})
	require.NoError(t, err)
	f.mailer.Wait()

	_, err = f.svc.Refresh(ctx, " ")
	assert.ErrorIs(t, err, ErrTokenRequired)

	_, err = f.svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	verification := tokenFromLink(t, f.sender.sentTo(t, "f@example.com").Input.Link)
	_, err = f.svc.Refresh(ctx, verification)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := f.tokens.WithClock(func() time.Time {
		return time.Now().Add(-30 * 24 * time.Hour)
	}).IssueSession(user)
	require.NoError(t, err)
	_, err = f.tokens.Verify(expired, VerifyOptions{})
	require.ErrorIs(t, err, ErrExpiredToken)

	result, err := f.svc.Refresh(ctx, expired)
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	_, err = f.tokens.Verify(result.Token, VerifyOptions{})
	require.NoError(t, err)

	ghost, _, err := f.tokens.IssueSession(&models.User{ID: "6f1c1d1e-0000-4000-8000-000000000001"})
	require.NoError(t, err)
	_, err = f.svc.Refresh(ctx, ghost)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveBcryptCost(t *testing.T) {
	cfg := newTestConfig()
	cfg.Security.BcryptCost = 0
	assert.Equal(t, 12, resolveBcryptCost(cfg))

	cfg.Security.BcryptCost = 6
	assert.Equal(t, 6, resolveBcryptCost(cfg))

	cfg.Server.Mode = constants.ServerModeRelease
	assert.Equal(t, 12, resolveBcryptCost(cfg))
}

func TestPasswordPolicy(t *testing.T) {
	cfg := newTestConfig()
	cfg.Security.PasswordPolicy.MinLength = 8
	cfg.Security.PasswordPolicy.RequireNumber = true
	repo, _ := newTestUserRepository(t)
	svc := NewUserAuthService(cfg, repo, NewTokenService(cfg.JWT), NewVerificationMailer(cfg, &fakeSender{}, nil))

	_, err := svc.Register(context.Background(), RegisterInput{Name: "G", Email: "g@example.com", Password: "short"})
	require.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.Register(context.Background(), RegisterInput{Name: "G", Email: "g@example.com", Password: "longenough"})
	require.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.Register(context.Background(), RegisterInput{Name: "G", Email: "g@example.com", Password: "longenough1"})
	require.NoError(t, err)
}
