package service

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"summitclub-backend/internal/logger"
)

// Mailer delivers one message to one recipient. The newsletter sender
// iterates recipients itself so a single bounce does not abort a batch.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// logMailer simulates delivery by logging the message. It is the
// default so the platform works without SMTP credentials.
type logMailer struct{}

func NewLogMailer() Mailer {
	return &logMailer{}
}

func (m *logMailer) Send(_ context.Context, to, subject, _ string) error {
	logger.Info("simulated email delivery", "to", to, "subject", subject)
	return nil
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *smtpMailer) Send(_ context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}
