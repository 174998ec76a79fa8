// Package email delivers notification mail over plain SMTP. The service
// sends staff-facing mail only (request notifications and contact-form
// copies), so a single HTML message shape is all it needs.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	// From is the envelope sender (MAIL FROM), a raw mailbox address.
	From string
	// FromName is the display name for the From header, e.g. the council
	// assistant's name. Optional.
	FromName string
}

type Sender struct {
	config Config
	auth   smtp.Auth
}

// NewSender builds a sender. With credentials configured it authenticates
// with PLAIN; without, it dials the relay directly, which is how a local
// dev relay runs.
func NewSender(config Config) *Sender {
	var auth smtp.Auth
	if config.User != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.User, config.Password, config.Host)
	}

	return &Sender{
		config: config,
		auth:   auth,
	}
}

func (s *Sender) SendMail(ctx context.Context, to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%s", s.config.Host, s.config.Port)
	to = sanitizeHeader(to)
	msg := s.buildMessage(to, subject, htmlBody)

	if s.auth != nil {
		return smtp.SendMail(addr, s.auth, s.config.From, []string{to}, msg)
	}
	return s.sendDirect(addr, to, msg)
}

// buildMessage assembles a single-part HTML message. All caller-supplied
// header values are stripped of CR/LF to block header injection.
func (s *Sender) buildMessage(to, subject, htmlBody string) []byte {
	fromHeader := s.config.From
	if strings.TrimSpace(s.config.FromName) != "" {
		fromHeader = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	lines := []string{
		fmt.Sprintf("From: %s", sanitizeHeader(fromHeader)),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", sanitizeHeader(subject)),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
		"",
		htmlBody,
	}
	return []byte(strings.Join(lines, "\r\n"))
}

func (s *Sender) sendDirect(addr, to string, msg []byte) error {
	c, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer func() { _ = c.Close() }()

	if err := c.Mail(s.config.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return c.Quit()
}

func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	return s
}
