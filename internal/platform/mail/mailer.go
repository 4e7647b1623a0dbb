// Package mail delivers platform notifications over SMTP. Handlers never
// talk to it directly; services hold a Mailer and tests substitute a fake.
package mail

import "gopkg.in/gomail.v2"

// Mailer sends a single HTML email. Implementations must be safe for
// concurrent use by multiple request handlers.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// Config holds SMTP settings. Values are injected by the application rather
// than read from the environment here, so tests and alternate deployments
// can construct mailers explicitly.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // From header on all outgoing mail
}

// SMTPMailer is the production Mailer backed by gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(message)
}
