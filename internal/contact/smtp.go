package contact

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"
)

// ImplicitTLSPort is the SMTPS port; every other port upgrades with
// STARTTLS when the server offers it.
const ImplicitTLSPort = "465"

var ErrSMTPNotConfigured = errors.New("smtp not configured")

type SMTPConfig struct {
	Host      string
	Port      string
	User      string
	Pass      string
	FromEmail string
	ToEmail   string
	Timeout   time.Duration
}

// Missing lists the variables that are not set.
func (c SMTPConfig) Missing() []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"SMTP_HOST", c.Host},
		{"SMTP_PORT", c.Port},
		{"SMTP_USER", c.User},
		{"SMTP_PASS", c.Pass},
		{"SMTP_FROM_EMAIL", c.FromEmail},
		{"SMTP_TO_EMAIL", c.ToEmail},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func (c SMTPConfig) Configured() bool { return len(c.Missing()) == 0 }

// SMTPSender relays contact forms to the site owner's mailbox.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Configured() bool { return s.cfg.Configured() }

// Send delivers f. The visitor is set as Reply-To; the envelope sender is
// always the configured From address.
func (s *SMTPSender) Send(ctx context.Context, f Form) error {
	if !s.cfg.Configured() {
		return ErrSMTPNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	client, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if s.cfg.Port != ImplicitTLSPort {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if ok, _ := client.Extension("AUTH"); ok {
		if err := client.Auth(smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := client.Mail(s.cfg.FromEmail); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(s.cfg.ToEmail); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(buildMessage(s.cfg, f, time.Now())); err != nil {
		_ = w.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}
	return client.Quit()
}

func (s *SMTPSender) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	dialer := &net.Dialer{}

	var (
		conn net.Conn
		err  error
	)
	if s.cfg.Port == ImplicitTLSPort {
		tlsDialer := &tls.Dialer{
			NetDialer: dialer,
			Config:    &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12},
		}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("smtp handshake: %w", err)
	}
	return client, nil
}

// buildMessage renders the RFC 5322 message with an HTML body. Visitor
// input is HTML-escaped and stripped of line breaks in headers.
func buildMessage(cfg SMTPConfig, f Form, now time.Time) []byte {
	name := headerSafe(f.Name)
	from := mail.Address{Name: name, Address: cfg.FromEmail}
	replyTo := mail.Address{Address: headerSafe(f.Email)}

	body := strings.Join([]string{
		"<h1>New Message from Portfolio Contact Form</h1>",
		"<p><strong>Name:</strong> " + html.EscapeString(f.Name) + "</p>",
		"<p><strong>Email:</strong> " + html.EscapeString(f.Email) + "</p>",
		"<p><strong>Message:</strong></p>",
		"<p>" + strings.ReplaceAll(html.EscapeString(f.Message), "\n", "<br>") + "</p>",
	}, "\r\n")

	var b strings.Builder
	b.WriteString("From: " + from.String() + "\r\n")
	b.WriteString("To: " + cfg.ToEmail + "\r\n")
	b.WriteString("Reply-To: " + replyTo.String() + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", "New Contact Form Message from "+name) + "\r\n")
	b.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body + "\r\n")
	return []byte(b.String())
}

func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
