package otp

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/config"
)

// SMTPSender delivers codes over plain SMTP with optional auth.
type SMTPSender struct {
	cfg config.EmailConfig
}

func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, email, code string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your password reset code\r\n\r\n"+
		"Your verification code is %s. It expires in 10 minutes.\r\n",
		s.cfg.From, email, code)

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}

	return smtp.SendMail(addr, auth, s.cfg.From, []string{email}, []byte(msg))
}

// LogSender writes codes to the application log instead of sending mail.
// Used in development when no SMTP host is configured.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, email, code string) error {
	s.log.Info("OTP delivery (email disabled)",
		zap.String("email", email),
		zap.String("code", code),
	)
	return nil
}

// NewSender picks the SMTP sender when email is configured, the log
// sender otherwise.
func NewSender(cfg config.EmailConfig, log *zap.Logger) Sender {
	if cfg.Enabled && cfg.Host != "" {
		return NewSMTPSender(cfg)
	}
	return NewLogSender(log)
}
