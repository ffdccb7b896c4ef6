package services

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendDigest(to, subject, htmlBody string) error
	SendPasswordReset(to, token string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return s.dialer.DialAndSend(m)
}

func (s *emailService) SendDigest(to, subject, htmlBody string) error {
	if err := s.send(to, subject, htmlBody); err != nil {
		return fmt.Errorf("failed to send digest email: %w", err)
	}
	return nil
}

func (s *emailService) SendPasswordReset(to, token string) error {
	body := "<p>Use this code to reset your password. It expires in one hour.</p>" +
		"<p><code>" + html.EscapeString(token) + "</code></p>"
	if err := s.send(to, "Password reset", body); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}
