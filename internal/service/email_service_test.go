package service

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"syscall"
	"testing"

	"github.com/userdesk/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSMTPServer 仅实现发送流程所需的最小 SMTP 会话
type fakeSMTPServer struct {
	listener   net.Listener
	rejectRcpt bool

	mu       sync.Mutex
	messages []string
}

func startFakeSMTPServer(t *testing.T, rejectRcpt bool) *fakeSMTPServer {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	server := &fakeSMTPServer{listener: listener, rejectRcpt: rejectRcpt}
	go server.serve()
	t.Cleanup(func() { _ = listener.Close() })
	return server
}

func (s *fakeSMTPServer) port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

func (s *fakeSMTPServer) received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

func (s *fakeSMTPServer) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *fakeSMTPServer) handle(conn net.Conn) {
	defer conn.Close()
	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 fake.local ESMTP")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
		switch verb {
		case "EHLO", "HELO":
			_ = tp.PrintfLine("250 fake.local")
		case "MAIL":
			_ = tp.PrintfLine("250 OK")
		case "RCPT":
			if s.rejectRcpt {
				_ = tp.PrintfLine("550 5.1.1 No such user here")
				continue
			}
			_ = tp.PrintfLine("250 OK")
		case "DATA":
			_ = tp.PrintfLine("354 End data with <CR><LF>.<CR><LF>")
			body, err := io.ReadAll(tp.DotReader())
			if err != nil {
				return
			}
			s.mu.Lock()
			s.messages = append(s.messages, string(body))
			s.mu.Unlock()
			_ = tp.PrintfLine("250 OK queued")
		case "QUIT":
			_ = tp.PrintfLine("221 Bye")
			return
		default:
			_ = tp.PrintfLine("502 Command not implemented")
		}
	}
}

func newTestEmailService(port int) *EmailService {
	return NewEmailService(&config.EmailConfig{
		Enabled:        true,
		Host:           "127.0.0.1",
		Port:           port,
		From:           "noreply@example.com",
		FromName:       "NX IT-UMS",
		TimeoutSeconds: 2,
	}, "NX IT-UMS")
}

func TestSendVerificationEmail(t *testing.T) {
	server := startFakeSMTPServer(t, false)
	svc := newTestEmailService(server.port())

	err := svc.SendVerificationEmail("user@example.com", VerificationEmailInput{
		Name:        "Alice",
		Link:        "http://localhost:5173/verify/abc",
		ExpireHours: 24,
	})
	require.NoError(t, err)

	messages := server.received()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "To: user@example.com")
	assert.Contains(t, messages[0], "Subject: Verify Your Email Address - NX IT-UMS")
	assert.Contains(t, messages[0], "Hi Alice,")
	assert.Contains(t, messages[0], "http://localhost:5173/verify/abc")
	assert.Contains(t, messages[0], "expire in 24 hours")
}

func TestSendVerificationEmailRecipientRejected(t *testing.T) {
	server := startFakeSMTPServer(t, true)
	svc := newTestEmailService(server.port())

	err := svc.SendVerificationEmail("ghost@example.com", VerificationEmailInput{Name: "G", Link: "x", ExpireHours: 24})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmailRecipientRejected)
	assert.False(t, IsRetryableSendError(err))
}

func TestCheckConnection(t *testing.T) {
	server := startFakeSMTPServer(t, false)
	require.NoError(t, newTestEmailService(server.port()).CheckConnection())

	disabled := NewEmailService(&config.EmailConfig{Enabled: false}, "app")
	assert.ErrorIs(t, disabled.CheckConnection(), ErrEmailServiceDisabled)

	incomplete := NewEmailService(&config.EmailConfig{Enabled: true}, "app")
	assert.ErrorIs(t, incomplete.CheckConnection(), ErrEmailNotConfigured)
}

func TestSendToClosedPortIsRetryable(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	err = newTestEmailService(port).SendVerificationEmail("user@example.com", VerificationEmailInput{Link: "x"})
	require.Error(t, err)
	assert.True(t, IsRetryableSendError(err), "connection refused should be retryable: %v", err)
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestIsRetryableSendError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "timeout", err: timeoutError{}, want: true},
		{name: "refused", err: fmt.Errorf("dial: %w", syscall.ECONNREFUSED), want: true},
		{name: "reset", err: fmt.Errorf("read: %w", syscall.ECONNRESET), want: true},
		{name: "eof", err: io.EOF, want: true},
		{name: "socket text", err: errors.New("ESOCKET: socket closed"), want: true},
		{name: "auth", err: normalizeEmailSendError(&textproto.Error{Code: 535, Msg: "5.7.8 bad credentials"}), want: false},
		{name: "recipient", err: normalizeEmailSendError(errors.New("550 recipient address rejected")), want: false},
		{name: "disabled", err: ErrEmailServiceDisabled, want: false},
		{name: "plain", err: errors.New("something odd"), want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryableSendError(tc.err))
		})
	}
}

func TestNormalizeEmailSendErrorClassifiesAuth(t *testing.T) {
	err := normalizeEmailSendError(errors.New("535 Authentication credentials invalid"))
	assert.ErrorIs(t, err, ErrEmailAuthFailed)
}

func TestBuildFromAddress(t *testing.T) {
	assert.Equal(t, "noreply@example.com", buildFromAddress("noreply@example.com", " "))
	assert.Contains(t, buildFromAddress("noreply@example.com", "Desk"), "<noreply@example.com>")
}

