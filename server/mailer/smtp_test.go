package mailer

import (
	"strings"
	"testing"

	"github.com/vitahq/vita/shared"
)

func TestFormatMessage(t *testing.T) {
	m := New(shared.SmtpConfig{FromName: "Vita Alerts", FromAddress: "alerts@vita.local"}, false)
	result := m.formatMessage(Message{
		To:      []string{"pepper@avengers.com"},
		Subject: "SOS\r\nBcc: evil@example.org",
		Body:    "Tony needs help.",
	})

	cases := []struct {
		name string
		want string
	}{
		{"from header", "From: Vita Alerts <alerts@vita.local>"},
		{"to header", "To: pepper@avengers.com"},
		{"subject header is sanitized", "Subject: SOS  Bcc: evil@example.org\r\n"},
		{"content type header", "Content-Type: text/plain; charset=UTF-8"},
		{"body", "\r\n\r\nTony needs help."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !strings.Contains(result, tc.want) {
				t.Errorf("expected %q in message, got:\n%s", tc.want, result)
			}
		})
	}
}

func TestSendEmail(t *testing.T) {
	m := New(shared.SmtpConfig{}, false)

	var captured Message
	m.sendFn = func(msg Message) error {
		captured = msg
		return nil
	}

	if err := m.SendEmail("pepper@avengers.com", "SOS", "help"); err != nil {
		t.Fatalf("SendEmail returned an error: %v", err)
	}

	if len(captured.To) != 1 || captured.To[0] != "pepper@avengers.com" {
		t.Errorf("unexpected recipients: %v", captured.To)
	}
}

func TestSendEmailWithoutConfig(t *testing.T) {
	err := New(shared.SmtpConfig{}, false).SendEmail("pepper@avengers.com", "SOS", "help")
	if err != ErrNotConfigured {
		t.Errorf("expected ErrNotConfigured, got: %v", err)
	}
}

func TestSendEmailInDevMode(t *testing.T) {
	if err := New(shared.SmtpConfig{}, true).SendEmail("pepper@avengers.com", "SOS", "help"); err != nil {
		t.Errorf("expected dev mode to only log, got: %v", err)
	}
}
