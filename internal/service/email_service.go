package service

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strings"
	"syscall"
	"time"

	"github.com/userdesk/internal/config"
	"github.com/userdesk/internal/i18n"
)

const defaultSMTPTimeout = 10 * time.Second

var (
	ErrEmailServiceDisabled   = errors.New("email service disabled")
	ErrEmailRecipientRejected = errors.New("email recipient rejected")
	ErrEmailAuthFailed        = errors.New("email authentication failed")
)

// EmailService 邮件发送服务
type EmailService struct {
	cfg     *config.EmailConfig
	appName string
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig, appName string) *EmailService {
	return &EmailService{cfg: cfg, appName: appName}
}

// Enabled 是否启用邮件发送
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled
}

// VerificationEmailInput 验证邮件内容参数
type VerificationEmailInput struct {
	Name        string
	Link        string
	ExpireHours int
	Locale      string
}

// SendVerificationEmail 发送邮箱验证邮件
func (s *EmailService) SendVerificationEmail(toEmail string, input VerificationEmailInput) error {
	subject, body := buildVerificationContent(s.appName, input)
	return s.sendTextEmail(toEmail, subject, body)
}

// CheckConnection 建立连接并完成握手与认证，不发送邮件
func (s *EmailService) CheckConnection() error {
	if err := s.ensureConfigured(); err != nil {
		return err
	}
	client, err := s.openClient()
	if err != nil {
		return normalizeEmailSendError(err)
	}
	defer client.Close()
	return normalizeEmailSendError(client.Quit())
}

func (s *EmailService) ensureConfigured() error {
	if !s.Enabled() {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailNotConfigured
	}
	return nil
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if err := s.ensureConfigured(); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return NewValidationError("error.email_invalid")
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	client, err := s.openClient()
	if err != nil {
		return normalizeEmailSendError(err)
	}
	defer client.Close()
	return normalizeEmailSendError(sendSMTPData(client, s.cfg.From, []string{toEmail}, []byte(msg)))
}

// openClient 按配置建立 SMTP 连接（SSL / STARTTLS / 明文）并完成认证
func (s *EmailService) openClient() (*smtp.Client, error) {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))
	timeout := resolveSMTPTimeout(s.cfg.TimeoutSeconds)
	dialer := &net.Dialer{Timeout: timeout}

	var conn net.Conn
	var err error
	if s.cfg.UseSSL {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return nil, err
	}
	_ = conn.SetDeadline(time.Now().Add(timeout * 3))

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if !s.cfg.UseSSL && s.cfg.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			_ = client.Close()
			return nil, err
		}
	}

	if s.cfg.Username != "" || s.cfg.Password != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
			if err := client.Auth(auth); err != nil {
				_ = client.Close()
				return nil, err
			}
		}
	}
	return client, nil
}

func resolveSMTPTimeout(seconds int) time.Duration {
	if seconds <= 0 {
		return defaultSMTPTimeout
	}
	return time.Duration(seconds) * time.Second
}

func buildVerificationContent(appName string, input VerificationEmailInput) (string, string) {
	locale := i18n.NormalizeLocale(input.Locale)
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = "there"
	}
	subject := i18n.Sprintf(locale, "email.verification.subject", appName)
	body := i18n.Sprintf(locale, "email.verification.body", name, appName, input.Link, input.ExpireHours, appName)
	return subject, body
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func normalizeEmailSendError(err error) error {
	if err == nil {
		return nil
	}
	if isEmailAuthError(err) {
		return fmt.Errorf("%w: %v", ErrEmailAuthFailed, err)
	}
	if isEmailRecipientRejected(err) {
		return fmt.Errorf("%w: %v", ErrEmailRecipientRejected, err)
	}
	return err
}

// IsRetryableSendError 判断发送失败是否为可重试的网络类错误
func IsRetryableSendError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrEmailAuthFailed) ||
		errors.Is(err, ErrEmailRecipientRejected) ||
		errors.Is(err, ErrEmailServiceDisabled) ||
		errors.Is(err, ErrEmailNotConfigured) ||
		errors.Is(err, ErrValidation) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	message := strings.ToLower(err.Error())
	for _, keyword := range []string{"timeout", "connection refused", "connection reset", "broken pipe", "socket"} {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
}

func isEmailAuthError(err error) bool {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		switch protoErr.Code {
		case 530, 534, 535:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "authentication") || strings.Contains(message, "auth failed")
}

func isEmailRecipientRejected(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	if message == "" {
		return false
	}
	directKeywords := []string{
		"no such recipient",
		"no such user",
		"recipient not found",
		"recipient address rejected",
		"invalid recipient",
		"user unknown",
		"unknown user",
		"unknown mailbox",
		"mailbox unavailable",
	}
	for _, keyword := range directKeywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	if strings.Contains(message, "550") {
		hints := []string{"recipient", "user", "mailbox", "address", "rcpt"}
		for _, hint := range hints {
			if strings.Contains(message, hint) {
				return true
			}
		}
	}
	return false
}
