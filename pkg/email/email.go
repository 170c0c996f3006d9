package email

import (
	"fmt"

	"linkup/pkg/config"

	"gopkg.in/gomail.v2"
)

type Sender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSender(cfg *config.Config) *Sender {
	from := cfg.EmailFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Sender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   from,
	}
}

func (s *Sender) SendVerificationEmail(to, link string) error {
	body := fmt.Sprintf(`<h1>Welcome!</h1>
<p>Click below to verify your email:</p>
<a href="%s">Verify Email</a>`, link)

	return s.send(to, "Verify your email", body)
}

func (s *Sender) SendResetPasswordEmail(to, link string) error {
	body := fmt.Sprintf(`<p>Click <a href="%s">here</a> to reset your password. Token expires in 15 minutes.</p>`, link)

	return s.send(to, "Reset Your Password", body)
}

func (s *Sender) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
