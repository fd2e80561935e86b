package mailer

import (
	"crypto/tls"
	"fmt"
	"log"

	"gopkg.in/gomail.v2"
)

// Notifier delivers reminder notifications.
type Notifier interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends plain-text mail through an SMTP server.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password string, useTLS bool, from string) *SMTPMailer {
	d := gomail.NewDialer(host, port, username, password)
	if useTLS {
		d.TLSConfig = &tls.Config{ServerName: host}
	}
	if from == "" {
		from = username
	}
	return &SMTPMailer{dialer: d, from: from}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogNotifier is used when no SMTP server is configured; it writes the
// notification to the process log instead of delivering it.
type LogNotifier struct{}

func (LogNotifier) Send(to, subject, body string) error {
	log.Printf("mailer: SMTP not configured, logging notification to=%s subject=%q", to, subject)
	return nil
}
