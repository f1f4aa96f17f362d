package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/rmagbanua/nanaycare-api/internal/config"
)

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf("Welcome to NanayCare, %s! Your barangay health worker can now share your checkup schedule and records with you here.", name)
	return s.SendCustom(ctx, to, "Welcome to NanayCare", body)
}

func (s *smtpService) SendCustom(_ context.Context, to, subject, content string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", content)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
