package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"
)

type SMTPMailer struct {
	server   string
	port     int
	user     string
	password string
	fromAddr string
	fromName string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(server string, port int, user, password, fromAddr, fromName string) *SMTPMailer {
	return &SMTPMailer{
		server:   server,
		port:     port,
		user:     user,
		password: password,
		fromAddr: fromAddr,
		fromName: fromName,
		send:     smtp.SendMail,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("missing recipient")
	}

	msg := []byte(fmt.Sprintf("From: %s <%s>\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n\r\n"+
		"%s",
		m.fromName, m.fromAddr, to, subject, body))

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.server)
	}

	if err := m.send(m.server+":"+strconv.Itoa(m.port), auth, m.fromAddr, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// Nop discards mail when SMTP is not configured.
type Nop struct{}

func (Nop) Send(context.Context, string, string, string) error { return nil }
