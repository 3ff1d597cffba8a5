// Package email implementa el puerto billing.Mailer sobre SMTP.
package email

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/tu-usuario/invoice-pro/internal/application/billing"
	"github.com/tu-usuario/invoice-pro/pkg/config"
)

var _ billing.Mailer = (*SMTPMailer)(nil)

// SMTPMailer envía correos por SMTP usando go-mail. El From es fijo por
// configuración; el nombre visible viene de cada mensaje (el emisor de la
// factura).
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// NewSMTPMailer construye el cliente SMTP a partir de la configuración.
func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp: crear cliente: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.FromAddress()}, nil
}

// Send envía el mensaje y devuelve el Message-ID generado.
func (s *SMTPMailer) Send(ctx context.Context, msg billing.Message) (string, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(msg.FromName, s.from); err != nil {
		return "", fmt.Errorf("smtp: remitente inválido: %w", err)
	}
	if err := m.AddToFormat(msg.ToName, msg.To); err != nil {
		return "", fmt.Errorf("smtp: destinatario inválido %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	m.SetMessageID()

	if att := msg.Attachment; att != nil {
		if err := m.AttachReader(att.Filename, bytes.NewReader(att.Content),
			mail.WithFileContentType(mail.ContentType(att.ContentType))); err != nil {
			return "", fmt.Errorf("smtp: adjuntar %s: %w", att.Filename, err)
		}
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return "", fmt.Errorf("smtp: enviar a %s: %w", msg.To, err)
	}
	return m.GetMessageID(), nil
}
