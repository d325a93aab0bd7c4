package impl

import (
	"context"
	"fmt"
	"net/smtp"
	"time"
)

type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Password string
}

// EmailServiceSMTP delivers OTP codes over plain SMTP.
type EmailServiceSMTP struct {
	cfg SMTPConfig
}

func NewEmailServiceSMTP(cfg SMTPConfig) *EmailServiceSMTP {
	return &EmailServiceSMTP{cfg: cfg}
}

func (e *EmailServiceSMTP) SendOtp(ctx context.Context, to, code string, ttl time.Duration) error {
	subject := "Your Reelist verification code"
	body := fmt.Sprintf("Your verification code is: %s\nIt expires in %d minutes.", code, int(ttl.Minutes()))
	msg := fmt.Sprintf("From: %s\nTo: %s\nSubject: %s\n\n%s", e.cfg.From, to, subject, body)

	auth := smtp.PlainAuth("", e.cfg.From, e.cfg.Password, e.cfg.Host)
	return smtp.SendMail(e.cfg.Host+":"+e.cfg.Port, auth, e.cfg.From, []string{to}, []byte(msg))
}
