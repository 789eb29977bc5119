package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

const (
	defaultSMTPPort = 587
	dialTimeout     = 10 * time.Second

	otpSubject = "Your Ditto sign-in code"
)

// SMTPConfig agrupa los SMTP_* del entorno.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	// UseTLS abre la conexion ya cifrada (puerto 465). Sin el se usa STARTTLS
	// cuando el servidor lo ofrece.
	UseTLS bool
}

// SMTPSender manda los codigos OTP por SMTP.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.From = strings.TrimSpace(cfg.From)
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("smtp from is required")
	}
	if cfg.Port == 0 {
		cfg.Port = defaultSMTPPort
	}
	return &SMTPSender{cfg: cfg}, nil
}

func (s *SMTPSender) SendVerificationOTP(ctx context.Context, toEmail string, code string, expiresAt time.Time) error {
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		return errors.New("to email is required")
	}
	msg := buildMessage(s.cfg.From, s.cfg.FromName, toEmail, otpSubject, otpBody(code, expiresAt))

	client, err := s.dial(ctx)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer client.Close()

	if err := s.deliver(client, toEmail, msg); err != nil {
		return fmt.Errorf("smtp deliver: %w", err)
	}
	return client.Quit()
}

// dial respeta el deadline del request; net/smtp por si solo no lo hace.
func (s *SMTPSender) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	dialer := &net.Dialer{Timeout: dialTimeout}

	var (
		conn net.Conn
		err  error
	)
	if s.cfg.UseTLS {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: s.cfg.Host}}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if !s.cfg.UseTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
				client.Close()
				return nil, err
			}
		}
	}
	return client, nil
}

func (s *SMTPSender) deliver(client *smtp.Client, toEmail, msg string) error {
	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(toEmail); err != nil {
		return err
	}
	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write([]byte(msg)); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

func otpBody(code string, expiresAt time.Time) string {
	return fmt.Sprintf(
		"Your Ditto sign-in code is %s.\n"+
			"It expires at %s UTC. If you did not request it, you can ignore this email.\n",
		code,
		expiresAt.UTC().Format(time.RFC3339),
	)
}

func buildMessage(from, fromName, to, subject, body string) string {
	fromHeader := from
	if name := strings.TrimSpace(fromName); name != "" {
		fromHeader = fmt.Sprintf("%s <%s>", name, from)
	}

	var b strings.Builder
	for _, h := range [][2]string{
		{"From", fromHeader},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", `text/plain; charset="UTF-8"`},
	} {
		b.WriteString(h[0] + ": " + h[1] + "\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}
