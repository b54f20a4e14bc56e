package verification

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// SMTPDispatcher sends verification codes through a plain SMTP relay.
type SMTPDispatcher struct {
	addr     string
	from     string
	username string
	password string
}

func NewSMTPDispatcher(addr, from, username, password string) *SMTPDispatcher {
	return &SMTPDispatcher{addr: addr, from: from, username: username, password: password}
}

func (d *SMTPDispatcher) DispatchCode(ctx context.Context, recipient string, code string, subjectTitle string) error {
	var auth smtp.Auth
	if d.username != "" {
		host, _, err := net.SplitHostPort(d.addr)
		if err != nil {
			return fmt.Errorf("invalid smtp address %q: %w", d.addr, err)
		}
		auth = smtp.PlainAuth("", d.username, d.password, host)
	}

	msg := buildCodeMessage(d.from, recipient, code, subjectTitle)

	if err := smtp.SendMail(d.addr, auth, d.from, []string{recipient}, msg); err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}
	return nil
}

func buildCodeMessage(from, to, code, subjectTitle string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: Verification code for %s\r\n", subjectTitle)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Your verification code is: %s\r\n", code)
	b.WriteString("\r\nIf you did not request access to this item, you can ignore this message.\r\n")
	return []byte(b.String())
}
