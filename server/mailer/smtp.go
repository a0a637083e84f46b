package mailer

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/vitahq/vita/server/logger"
	"github.com/vitahq/vita/shared"
)

var (
	ErrNotConfigured = errors.New("mailer: smtp host & from address are required")

	logg = logger.NewLogger()
)

// Message is a plain text email
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Mailer sends emails via SMTP.
type Mailer struct {
	config  shared.SmtpConfig
	devMode bool
	sendFn  func(msg Message) error
}

// New returns a Mailer. In 'devMode' emails are only logged.
func New(config shared.SmtpConfig, devMode bool) *Mailer {
	m := &Mailer{config: config, devMode: devMode}
	m.sendFn = m.sendSMTP
	return m
}

// SendEmail emails 'body' to a single recipient
func (m *Mailer) SendEmail(to, subject, body string) error {
	return m.sendFn(Message{To: []string{to}, Subject: subject, Body: body})
}

func (m *Mailer) sendSMTP(msg Message) error {
	if m.devMode {
		logg.Infof("[mailer] email to %v: %v\n%v", strings.Join(msg.To, ", "), msg.Subject, msg.Body)
		return nil
	}

	if m.config.Host == "" || m.config.FromAddress == "" {
		return ErrNotConfigured
	}

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	return smtp.SendMail(addr, auth, m.config.FromAddress, msg.To, []byte(m.formatMessage(msg)))
}

func (m *Mailer) formatMessage(msg Message) string {
	from := m.config.FromAddress
	if m.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.config.FromName, m.config.FromAddress)
	}

	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		from, strings.Join(msg.To, ", "), sanitizeHeader(msg.Subject), msg.Body,
	)
}

// sanitizeHeader prevents header injection through user supplied values
func sanitizeHeader(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	return strings.ReplaceAll(value, "\n", " ")
}
