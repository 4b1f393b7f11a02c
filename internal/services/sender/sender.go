// Package sender отправляет письма по сообщениям из очередей уведомлений:
// подтверждение почты, сброс пароля и копия SOS-алерта на дежурный ящик.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/sos-alert/internal/config"
	"github.com/magabrotheeeer/sos-alert/internal/lib/sl"
	"github.com/magabrotheeeer/sos-alert/internal/lib/smtp"
	"github.com/magabrotheeeer/sos-alert/internal/models"
)

// Service потребитель очередей уведомлений.
type Service struct {
	transport smtp.TransportInterface
	cfg       config.SMTP
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(cfg config.SMTP, log *slog.Logger, transport smtp.TransportInterface) *Service {
	return &Service{
		transport: transport,
		cfg:       cfg,
		log:       log,
	}
}

// SendVerificationEmail отправляет письмо подтверждения почты.
func (s *Service) SendVerificationEmail(body []byte) error {
	var message models.VerificationEmail
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Confirm your email for SOS Alert"
	bodyText := fmt.Sprintf("Hello, %s!\n\n"+
		"Please confirm your email address by opening the link below:\n\n"+
		"%s/api/v1/verify-email?token=%s\n\n"+
		"If you did not register, ignore this message.",
		message.Username, s.cfg.PublicURL, message.Token)

	return s.sendEmail(to, subject, bodyText)
}

// SendPasswordResetEmail отправляет письмо со ссылкой сброса пароля.
func (s *Service) SendPasswordResetEmail(body []byte) error {
	var message models.PasswordResetEmail
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Password reset for SOS Alert"
	bodyText := fmt.Sprintf("Hello, %s!\n\n"+
		"To set a new password, use this token within its validity period:\n\n"+
		"%s\n\n"+
		"If you did not request a reset, ignore this message.",
		message.Username, message.Token)

	return s.sendEmail(to, subject, bodyText)
}

// SendSOSAlertCopy дублирует SOS-алерт письмом на дежурный ящик.
// SMS-шлюза нет, поэтому след алерта остаётся хотя бы в почте.
func (s *Service) SendSOSAlertCopy(body []byte) error {
	var message models.SOSAlertMessage
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if s.cfg.AlertInbox == "" {
		s.log.Info("alert inbox is not configured, skipping sos alert copy")
		return nil
	}

	to := []string{s.cfg.AlertInbox}
	subject := fmt.Sprintf("SOS alert from %s", message.Username)
	bodyText := fmt.Sprintf("%s\n\nContact: %s (%s), phone %s",
		message.Alert.AlertMessage, message.Alert.To,
		message.Alert.Relationship, message.Alert.Phone)

	return s.sendEmail(to, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
