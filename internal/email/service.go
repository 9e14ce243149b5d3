package email

import (
	"context"
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/wexxqt/ecatsulta-api/internal/model"
)

type Service interface {
	SendBookingConfirmation(ctx context.Context, event *model.AppointmentEvent) error
	SendCancellation(ctx context.Context, event *model.AppointmentEvent) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg Config) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, event *model.AppointmentEvent) error {
	if event.PatientEmail == "" {
		return nil
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nYour appointment with %s on %s is received and pending confirmation.\n\n"+
			"Your appointment code is %s. Present it (or its QR image) at the clinic desk.\n",
		event.PatientName,
		event.Doctor,
		event.Schedule.Format(time.RFC1123),
		event.AppointmentCode,
	)
	return s.send(event.PatientEmail, "Appointment received", body)
}

func (s *smtpService) SendCancellation(ctx context.Context, event *model.AppointmentEvent) error {
	if event.PatientEmail == "" {
		return nil
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nYour appointment with %s on %s has been cancelled.\n",
		event.PatientName,
		event.Doctor,
		event.Schedule.Format(time.RFC1123),
	)
	return s.send(event.PatientEmail, "Appointment cancelled", body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
