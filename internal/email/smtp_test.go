package email

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setSMTPEnv(t *testing.T) {
	t.Helper()
	t.Setenv("INQ_SMTP_HOST", "smtp.example.com")
	t.Setenv("INQ_SMTP_PORT", "")
	t.Setenv("INQ_SMTP_USERNAME", "mailer")
	t.Setenv("INQ_SMTP_PASSWORD", "secret")
	t.Setenv("INQ_SMTP_FROM", "reports@example.com")
}

func TestLoadConfig(t *testing.T) {
	setSMTPEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "smtp.example.com" || cfg.From != "reports@example.com" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Port != 587 {
		t.Errorf("default port = %d, want 587", cfg.Port)
	}
}

func TestLoadConfigCustomPort(t *testing.T) {
	setSMTPEnv(t)
	t.Setenv("INQ_SMTP_PORT", "465")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 465 {
		t.Errorf("Port = %d", cfg.Port)
	}
}

func TestLoadConfigMissingVars(t *testing.T) {
	setSMTPEnv(t)
	t.Setenv("INQ_SMTP_HOST", "")
	t.Setenv("INQ_SMTP_PASSWORD", "")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "INQ_SMTP_HOST") || !strings.Contains(err.Error(), "INQ_SMTP_PASSWORD") {
		t.Errorf("error should name the missing variables: %v", err)
	}
	if strings.Contains(err.Error(), "INQ_SMTP_USERNAME") {
		t.Errorf("error should not name variables that are set: %v", err)
	}
}

func TestLoadConfigBadPort(t *testing.T) {
	setSMTPEnv(t)
	t.Setenv("INQ_SMTP_PORT", "not-a-port")

	if _, err := LoadConfig(); err == nil || !strings.Contains(err.Error(), "INQ_SMTP_PORT") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadConfigBadFrom(t *testing.T) {
	setSMTPEnv(t)
	t.Setenv("INQ_SMTP_FROM", "not an address")

	if _, err := LoadConfig(); err == nil || !strings.Contains(err.Error(), "INQ_SMTP_FROM") {
		t.Errorf("err = %v", err)
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"sales@example.com", true},
		{"li.wei+reports@trade.example.co.uk", true},
		{"no-at-sign", false},
		{"missing@tld", false},
		{"", false},
		{"spaced name@example.com", false},
	}
	for _, tt := range tests {
		if got := ValidateEmail(tt.addr); got != tt.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}

func TestMessageValidate(t *testing.T) {
	m := &Message{To: []string{"sales@example.com"}, Subject: "Weekly report"}
	if err := m.Validate(); err != nil {
		t.Errorf("valid message: %v", err)
	}

	m = &Message{}
	if err := m.Validate(); err == nil || !strings.Contains(err.Error(), "--to") {
		t.Errorf("no recipients: %v", err)
	}

	m = &Message{To: []string{"bad address"}}
	if err := m.Validate(); err == nil || !strings.Contains(err.Error(), "recipient") {
		t.Errorf("bad recipient: %v", err)
	}

	m = &Message{To: []string{"sales@example.com"}, CC: []string{"nope"}}
	if err := m.Validate(); err == nil || !strings.Contains(err.Error(), "CC") {
		t.Errorf("bad CC: %v", err)
	}

	m = &Message{To: []string{"sales@example.com"}, Attach: "/no/such/report.xlsx"}
	if err := m.Validate(); err == nil || !strings.Contains(err.Error(), "attachment") {
		t.Errorf("missing attachment: %v", err)
	}
}

func TestAttachSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	m := &Message{Attach: path}
	if got := m.AttachSize(); got != 5 {
		t.Errorf("AttachSize = %d", got)
	}
	if got := (&Message{}).AttachSize(); got != 0 {
		t.Errorf("no attachment should report 0, got %d", got)
	}
}

func TestBuildMIME(t *testing.T) {
	dir := t.TempDir()
	attach := filepath.Join(dir, "inquiries.xlsx")
	if err := os.WriteFile(attach, []byte("workbook bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Config{From: "reports@example.com"}
	msg := Message{
		To:      []string{"sales@example.com"},
		Subject: "Weekly inquiry report",
		Body:    "See attached.",
		Attach:  attach,
	}

	body, boundary, err := buildMIME(cfg, msg)
	if err != nil {
		t.Fatal(err)
	}
	if boundary == "" {
		t.Error("boundary should be set")
	}
	text := string(body)
	if !strings.Contains(text, "See attached.") {
		t.Error("body text missing")
	}
	if !strings.Contains(text, `filename="inquiries.xlsx"`) {
		t.Error("attachment disposition missing")
	}
	if !strings.Contains(text, "base64") {
		t.Error("attachment should be base64 encoded")
	}

	headers := buildHeaders(cfg, msg, boundary)
	for _, want := range []string{
		"From: reports@example.com",
		"To: sales@example.com",
		"Subject: Weekly inquiry report",
		"multipart/mixed",
	} {
		if !strings.Contains(headers, want) {
			t.Errorf("headers missing %q", want)
		}
	}
	if strings.Contains(headers, "Cc:") {
		t.Error("no Cc header expected without CC recipients")
	}
}
