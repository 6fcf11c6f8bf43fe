// Package mailer delivers the account verification email.
package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/jordan-wright/email"

	"github.com/dmitrijs2005/nexusauth/internal/logging"
)

// Sender delivers a verification token to a freshly registered user.
type Sender interface {
	SendVerification(ctx context.Context, to, fullName, token string) error
}

// SMTPConfig holds the outgoing mail settings. An empty Host selects the
// log-only sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// Timeout bounds one SMTP exchange; zero means DefaultSendTimeout.
	Timeout time.Duration
}

const DefaultSendTimeout = 10 * time.Second

// New returns an SMTP sender when cfg.Host is set, otherwise a sender that
// only logs the token.
func New(cfg SMTPConfig, logger logging.Logger) Sender {
	if cfg.Host == "" {
		return NewLogSender(logger)
	}
	return NewSMTPSender(cfg, logger)
}

const verificationSubject = "Verify your email address"

func verificationBody(fullName, token string) string {
	return fmt.Sprintf(
		"Hello %s,\n\n"+
			"Thank you for registering. To verify your email address, run\n\n"+
			"    verify %s\n\n"+
			"in the client, or send the token with the \"verify\" action.\n\n"+
			"If you did not create this account you can ignore this message.\n",
		fullName, token,
	)
}

type SMTPSender struct {
	cfg    SMTPConfig
	logger logging.Logger
	send   func(e *email.Email, addr string, a smtp.Auth) error
}

func NewSMTPSender(cfg SMTPConfig, logger logging.Logger) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		logger: logger,
		send:   func(e *email.Email, addr string, a smtp.Auth) error { return e.Send(addr, a) },
	}
}

func (s *SMTPSender) SendVerification(ctx context.Context, to, fullName, token string) error {
	e := email.NewEmail()
	e.From = s.cfg.From
	e.To = []string{to}
	e.Subject = verificationSubject
	e.Text = []byte(verificationBody(fullName, token))

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	timeout := s.cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// net/smtp has no context support; an abandoned exchange finishes in
	// the background and its result is dropped.
	done := make(chan error, 1)
	go func() { done <- s.send(e, addr, auth) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		s.logger.Error(ctx, "failed to send verification email", "to", to, "error", err)
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	s.logger.Info(ctx, "verification email sent", "to", to)
	return nil
}

// LogSender records the registration in the log instead of sending mail.
// Used when no SMTP server is configured. The token itself is logged only
// at debug level.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendVerification(ctx context.Context, to, fullName, token string) error {
	s.logger.Info(ctx, "verification email not sent (smtp disabled)", "to", to)
	s.logger.Debug(ctx, "verification token", "to", to, "name", fullName, "token", token)
	return nil
}
