// Package mail implementa el transporte SMTP de los emails de factura.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"

	"github.com/tu-usuario/factura-manual/internal/application/billing"
	"github.com/tu-usuario/factura-manual/pkg/config"
)

var _ billing.Mailer = (*GomailSender)(nil)

// GomailSender envía emails vía SMTP con gomail. Sin host configurado el
// transporte se reporta como no disponible y el despacho de facturas falla
// limpio en el caso de uso.
type GomailSender struct {
	cfg  config.SMTPConfig
	from string
}

// NewGomailSender construye el transporte. Si falta SMTP_FROM se usa el email
// administrativo de la tienda como remitente.
func NewGomailSender(cfg config.SMTPConfig, adminEmail string) *GomailSender {
	from := cfg.From
	if from == "" {
		from = adminEmail
	}
	return &GomailSender{cfg: cfg, from: from}
}

func (s *GomailSender) Available() bool {
	return s.cfg.Host != "" && s.from != ""
}

func (s *GomailSender) Send(ctx context.Context, msg billing.OutboundEmail) error {
	if !s.Available() {
		return fmt.Errorf("mail: transporte smtp no configurado")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	if msg.ToName != "" {
		m.SetAddressHeader("To", msg.To, msg.ToName)
	} else {
		m.SetHeader("To", msg.To)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if att := msg.Attachment; att != nil {
		m.Attach(att.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := io.Copy(w, bytes.NewReader(att.Data))
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-Type": {att.MIME},
			}),
		)
	}

	dialer := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)

	// gomail no acepta context; respetamos cancelación antes de marcar.
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("mail: enviar: %w", err)
	}
	return nil
}
