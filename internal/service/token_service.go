package service

import (
	"errors"
	"strings"
	"time"

	"github.com/userdesk/internal/config"
	"github.com/userdesk/internal/constants"
	"github.com/userdesk/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultSessionExpireHours = 168
	defaultVerifyExpireHours  = 24
)

// TokenIdentity 签发 Token 所需的用户身份
type TokenIdentity struct {
	UserID string
	Email  string
	Status string
}

// IdentityOf 从用户构造 Token 身份
func IdentityOf(user *models.User) TokenIdentity {
	return TokenIdentity{UserID: user.ID, Email: user.Email, Status: user.Status}
}

// TokenClaims 用户 JWT 声明
type TokenClaims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Status  string `json:"status,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// VerifyOptions Token 校验选项
type VerifyOptions struct {
	// IgnoreExpiry 仅刷新流程使用：签名有效但已过期的 Token 仍视为有效
	IgnoreExpiry bool
}

// TokenService 无状态 JWT 签发与校验
type TokenService struct {
	secret     []byte
	sessionTTL time.Duration
	verifyTTL  time.Duration
	now        func() time.Time
}

// NewTokenService 创建 Token 服务
func NewTokenService(cfg config.JWTConfig) *TokenService {
	sessionHours := cfg.ExpireHours
	if sessionHours <= 0 {
		sessionHours = defaultSessionExpireHours
	}
	verifyHours := cfg.VerifyExpireHours
	if verifyHours <= 0 {
		verifyHours = defaultVerifyExpireHours
	}
	return &TokenService{
		secret:     []byte(cfg.SecretKey),
		sessionTTL: time.Duration(sessionHours) * time.Hour,
		verifyTTL:  time.Duration(verifyHours) * time.Hour,
		now:        time.Now,
	}
}

// WithClock 替换时间源，测试使用
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *s
	clone.now = now
	return &clone
}

// VerifyTTL 验证 Token 有效期
func (s *TokenService) VerifyTTL() time.Duration {
	return s.verifyTTL
}

// Issue 签发指定用途与有效期的 Token
func (s *TokenService) Issue(identity TokenIdentity, purpose string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(ttl)
	claims := TokenClaims{
		UserID:  identity.UserID,
		Email:   identity.Email,
		Status:  identity.Status,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// IssueSession 签发登录会话 Token
func (s *TokenService) IssueSession(user *models.User) (string, time.Time, error) {
	return s.Issue(IdentityOf(user), constants.TokenPurposeSession, s.sessionTTL)
}

// IssueVerification 签发邮箱验证 Token
func (s *TokenService) IssueVerification(user *models.User) (string, time.Time, error) {
	identity := IdentityOf(user)
	identity.Status = ""
	return s.Issue(identity, constants.TokenPurposeVerification, s.verifyTTL)
}

// Verify 校验 Token 签名与有效期
func (s *TokenService) Verify(tokenString string, opts VerifyOptions) (*TokenClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if opts.IgnoreExpiry {
		parserOptions = append(parserOptions, jwt.WithoutClaimsValidation())
	}
	parser := jwt.NewParser(parserOptions...)

	claims := &TokenClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || strings.TrimSpace(claims.UserID) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
