package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional email. When code is non-empty the message
// is rendered as an HTML mail with the code displayed prominently;
// otherwise body is sent as plain text.
type Mailer interface {
	Send(to, subject, body, code string) error
}

// Config holds SMTP connection details.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer is a Mailer backed by an SMTP server via gomail.
type SMTPMailer struct {
	cfg Config
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers a single message through the configured SMTP server.
func (m *SMTPMailer) Send(to, subject, body, code string) error {
	if m.cfg.Host == "" || m.cfg.From == "" {
		return fmt.Errorf("smtp config missing")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)

	if code != "" {
		msg.SetBody("text/html", buildCodeBody(body, code))
	} else {
		msg.SetBody("text/plain", body)
	}

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func buildCodeBody(intro, code string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Password Reset</h2>
    <p>%s</p>
    <div style="font-size: 28px; font-weight: bold; letter-spacing: 3px;">%s</div>
    <p>This code is valid for 10 minutes.</p>
  </div>
</body>
</html>`, intro, code)
}
