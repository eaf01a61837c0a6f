package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"kindle_sender/internal/config"
	"kindle_sender/internal/domain"
)

// placeholderBody keeps the message body non-empty; the Kindle pipeline
// rejects mails without one.
const placeholderBody = "<p>Your reading digest is attached.</p>"

type SMTPMailer struct {
	host    string
	port    int
	timeout time.Duration
	subject string
	logger  *slog.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:    cfg.Host,
		port:    cfg.Port,
		timeout: cfg.Timeout,
		subject: cfg.Subject,
		logger:  logger.With("component", "mailer"),
	}
}

// Send mails the artifact to the profile's Kindle address, authenticating
// with the profile's own sender credentials. Every error is returned as a
// delivery_failed unit error.
func (m *SMTPMailer) Send(ctx context.Context, artifact *domain.Artifact, profile domain.DeliveryProfile) error {
	msg, err := m.buildMessage(artifact, profile)
	if err != nil {
		return domain.DeliveryFailed(err)
	}

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(profile.SenderEmail),
		mail.WithPassword(profile.SenderPassword),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(m.timeout),
	)
	if err != nil {
		return domain.DeliveryFailed(fmt.Errorf("create smtp client: %w", err))
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return domain.DeliveryFailed(fmt.Errorf("send mail: %w", err))
	}

	m.logger.Debug("mail sent",
		"user_id", profile.UserID,
		"filename", artifact.Filename,
		"bytes", len(artifact.Content),
	)

	return nil
}

func (m *SMTPMailer) buildMessage(artifact *domain.Artifact, profile domain.DeliveryProfile) (*mail.Msg, error) {
	if artifact == nil || len(artifact.Content) == 0 {
		return nil, errors.New("empty attachment")
	}

	msg := mail.NewMsg()
	if err := msg.From(profile.SenderEmail); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(profile.KindleEmail); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(m.subject)
	msg.SetBodyString(mail.TypeTextHTML, placeholderBody)

	err := msg.AttachReader(artifact.Filename, bytes.NewReader(artifact.Content),
		mail.WithFileContentType(mail.ContentType(domain.EpubMIMEType)),
	)
	if err != nil {
		return nil, fmt.Errorf("attach %s: %w", artifact.Filename, err)
	}

	return msg, nil
}
