package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/rizia-events/rizia-backend/config"
	"github.com/rizia-events/rizia-backend/logger"
)

// Mailer delivers rendered emails.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// SMTPMailer sends plain-text mail over SMTP with STARTTLS.
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
	FromAddr string
	Timeout  time.Duration
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	from := cfg.SMTPFromEmail
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		FromName: cfg.SMTPFromName,
		FromAddr: from,
		Timeout:  10 * time.Second,
	}
}

// Configured reports whether enough settings are present to send mail.
func (m *SMTPMailer) Configured() bool {
	return m.Host != "" && m.Username != "" && m.Password != ""
}

func (m *SMTPMailer) Send(ctx context.Context, msg Email) error {
	if !m.Configured() {
		logger.Log.Warn("[email] SMTP not configured, email not sent", "to", msg.To, "subject", msg.Subject)
		return nil
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("email %q has no recipients", msg.Subject)
	}

	addr := net.JoinHostPort(m.Host, m.Port)
	dialer := net.Dialer{Timeout: m.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.Host}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if err := client.Auth(smtp.PlainAuth("", m.Username, m.Password, m.Host)); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if err := client.Mail(m.FromAddr); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range msg.To {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write(m.build(msg)); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		logger.Log.Debug("[email] QUIT failed", "error", err)
	}
	logger.Log.Info("[email] sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (m *SMTPMailer) build(msg Email) []byte {
	from := headerText(m.FromAddr)
	if m.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", headerText(m.FromName)), from)
	}
	to := make([]string, len(msg.To))
	for i, rcpt := range msg.To {
		to[i] = headerText(rcpt)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerText(msg.Subject)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
