// internal/mailer/smtp.go
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"mangotango-admin/internal/common/config"
)

// SMTPTransport sends through a plain or STARTTLS SMTP server. This is the
// default transport; the original admin tooling delivered through Gmail SMTP.
type SMTPTransport struct {
	cfg config.MailConfig
}

func NewSMTPTransport(cfg config.MailConfig) *SMTPTransport {
	return &SMTPTransport{cfg: cfg}
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}

	message := t.buildMessage(msg)
	addr := fmt.Sprintf("%s:%d", t.cfg.SMTP.Host, t.cfg.SMTP.Port)

	var auth smtp.Auth
	if t.cfg.SMTP.Username != "" && t.cfg.SMTP.Password != "" {
		auth = smtp.PlainAuth("", t.cfg.SMTP.Username, t.cfg.SMTP.Password, t.cfg.SMTP.Host)
	}

	if t.cfg.SMTP.UseTLS {
		return t.sendWithTLS(addr, auth, msg.To, []byte(message))
	}
	return smtp.SendMail(addr, auth, t.cfg.FromAddress, []string{msg.To}, []byte(message))
}

func (t *SMTPTransport) buildMessage(msg Message) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("From: %q <%s>\r\n", t.cfg.FromName, t.cfg.FromAddress))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", msg.To))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	builder.WriteString("MIME-Version: 1.0\r\n")

	if msg.HTML != "" {
		builder.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		builder.WriteString("\r\n")
		builder.WriteString(msg.HTML)
	} else {
		builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		builder.WriteString("\r\n")
		builder.WriteString(msg.Text)
	}

	return builder.String()
}

func (t *SMTPTransport) sendWithTLS(addr string, auth smtp.Auth, to string, body []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName:         t.cfg.SMTP.Host,
		InsecureSkipVerify: false,
	}

	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(t.cfg.FromAddress); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient %s: %w", to, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(body); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
