// Package mailer delivers report emails over SMTP.
package mailer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/gomail.v2"

	"news_hub/internal/domain"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTP struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger
}

func NewSMTP(cfg Config, logger *slog.Logger) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger.With("component", "mailer"),
	}
}

// Send delivers email. The SMTP exchange itself cannot be interrupted;
// a cancelled ctx only stops the caller from waiting on it.
func (s *SMTP) Send(ctx context.Context, email *domain.Email) error {
	msg := s.buildMessage(email)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send email: %w", err)
		}
		s.logger.Info("email sent", "to", email.To, "attachment", email.AttachmentName)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send email: %w", ctx.Err())
	}
}

func (s *SMTP) buildMessage(email *domain.Email) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", email.To)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/plain", email.Body)

	if len(email.Attachment) > 0 {
		content := email.Attachment
		msg.Attach(email.AttachmentName,
			gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
		)
	}
	return msg
}
