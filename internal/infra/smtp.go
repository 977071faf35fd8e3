package infra

import (
	"fmt"
	"net/smtp"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends the fechamento summary emails. The SMTP auth is built once at
// startup; a misconfigured host surfaces on the first Send, which the worker
// logs and drops without retry.
type Mailer struct {
	from string
	addr string
	auth smtp.Auth
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		from: cfg.SMTPUser,
		addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth: smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost),
	}
}

// Send delivers a plain-text message, attaching the file at pdfPath when given.
func (m *Mailer) Send(to, subject, body, pdfPath string) error {
	msg := email.NewEmail()
	msg.From = m.from
	msg.To = []string{to}
	msg.Subject = subject
	msg.Text = []byte(body)
	if pdfPath != "" {
		if _, err := msg.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: anexar PDF: %w", err)
		}
	}
	return msg.Send(m.addr, m.auth)
}
