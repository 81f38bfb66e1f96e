package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/userdesk/internal/config"
	"github.com/userdesk/internal/constants"
	"github.com/userdesk/internal/logger"
	"github.com/userdesk/internal/models"
	"github.com/userdesk/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultBcryptCost = 12
	releaseMinBcrypt  = 12
)

// RegisterInput 注册参数
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,useremail"`
	Password string `json:"password" validate:"required"`
}

// LoginInput 登录参数
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult 登录或刷新结果
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg        *config.Config
	userRepo   repository.UserRepository
	tokens     *TokenService
	mailer     *VerificationMailer
	bcryptCost int
	now        func() time.Time
	onChange   func(ctx context.Context)
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, tokens *TokenService, mailer *VerificationMailer) *UserAuthService {
	return &UserAuthService{
		cfg:        cfg,
		userRepo:   userRepo,
		tokens:     tokens,
		mailer:     mailer,
		bcryptCost: resolveBcryptCost(cfg),
		now:        time.Now,
	}
}

// OnUserChanged 注册用户数据变更回调（用于统计缓存失效）
func (s *UserAuthService) OnUserChanged(fn func(ctx context.Context)) {
	s.onChange = fn
}

func (s *UserAuthService) notifyChanged(ctx context.Context) {
	if s.onChange != nil {
		s.onChange(ctx)
	}
}

// Register 用户注册：创建未验证账号并投递验证邮件
func (s *UserAuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	normalized := RegisterInput{
		Name:     strings.TrimSpace(input.Name),
		Email:    models.NormalizeEmail(input.Email),
		Password: strings.TrimSpace(input.Password),
	}
	if err := validateInput(normalized); err != nil {
		return nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}

	exist, err := s.userRepo.GetByEmail(ctx, normalized.Email)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         normalized.Name,
		Email:        normalized.Email,
		PasswordHash: string(hashedPassword),
		Status:       constants.UserStatusUnverified,
		CreatedAt:    s.now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	s.notifyChanged(ctx)

	token, _, err := s.tokens.IssueVerification(user)
	if err != nil {
		logger.Errorw("verification_token_issue_failed", "user_id", user.ID, "error", err)
		return user, nil
	}
	s.mailer.Dispatch(ctx, user, token)
	return user, nil
}

// Login 校验凭据并签发会话 Token
func (s *UserAuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if err := validateInput(LoginInput{
		Email:    strings.TrimSpace(input.Email),
		Password: strings.TrimSpace(input.Password),
	}); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, models.NormalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status == constants.UserStatusBlocked {
		return nil, ErrUserBlocked
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	token, expiresAt, err := s.tokens.IssueSession(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// VerifyEmail 使用验证 Token 激活账号，重复验证幂等
func (s *UserAuthService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token, VerifyOptions{})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != constants.TokenPurposeVerification {
		return nil, ErrTokenPurposeMismatch
	}

	user, err := s.userRepo.Activate(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.Status == constants.UserStatusBlocked {
		return nil, ErrUserBlocked
	}
	s.notifyChanged(ctx)
	return user, nil
}

// Refresh 以旧会话 Token（允许过期）换取新 Token
func (s *UserAuthService) Refresh(ctx context.Context, token string) (*AuthResult, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrTokenRequired
	}
	claims, err := s.tokens.Verify(token, VerifyOptions{IgnoreExpiry: true})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != constants.TokenPurposeSession {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.Status == constants.UserStatusBlocked {
		return nil, ErrUserBlocked
	}

	newToken, expiresAt, err := s.tokens.IssueSession(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: newToken, ExpiresAt: expiresAt, User: user}, nil
}

// resolveBcryptCost release 模式下强制不低于 12
func resolveBcryptCost(cfg *config.Config) int {
	cost := cfg.Security.BcryptCost
	if cost <= 0 {
		cost = defaultBcryptCost
	}
	if cfg.Server.Mode == constants.ServerModeRelease && cost < releaseMinBcrypt {
		cost = releaseMinBcrypt
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return cost
}
