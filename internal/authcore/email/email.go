// Package email delivers one-time verification codes to users. The session
// core only sees the Sender interface; tests substitute a recording fake.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Sender dispatches a verification code to an email address. A nil error
// means the message was accepted for delivery; the caller only persists
// codes after a successful send.
type Sender interface {
	Send(ctx context.Context, to, code string) error
}

// SMTPSender ships codes through a plain SMTP relay.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (s *SMTPSender) Send(ctx context.Context, to, code string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Your verification code\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Your verification code is %s. It expires shortly; do not share it.\r\n", code)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}

	if err := smtp.SendMail(addr, auth, s.From, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("email: send to %s failed: %w", to, err)
	}
	return nil
}
