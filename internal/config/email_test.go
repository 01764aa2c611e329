package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "emailsettings.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validSettings = `{
  "fromEmail": "alerts@example.com",
  "toEmail": "ops@example.com, dev@example.com",
  "mailServer": "smtp.example.com",
  "userName": "alerts",
  "password": "secret",
  "enableSsl": "true",
  "port": "587",
  "emailSubject": "Brainstorm alert"
}`

func TestLoadEmailSettings(t *testing.T) {
	s, err := LoadEmailSettings(writeSettings(t, validSettings))
	if err != nil {
		t.Fatalf("LoadEmailSettings: %v", err)
	}
	if !s.EnableSSL || s.Port != 587 {
		t.Fatalf("enableSsl=%v port=%d", s.EnableSSL, s.Port)
	}
	if s.MailServer != "smtp.example.com" || s.EmailSubject != "Brainstorm alert" {
		t.Fatalf("unexpected settings: %+v", s)
	}
	got := s.Recipients()
	if len(got) != 2 || got[0] != "ops@example.com" || got[1] != "dev@example.com" {
		t.Fatalf("recipients = %v", got)
	}
}

func TestLoadEmailSettingsNativeTypes(t *testing.T) {
	body := `{"fromEmail":"a@x","toEmail":"b@x","mailServer":"m","userName":"u",
"password":"p","enableSsl":false,"port":25,"emailSubject":"s"}`
	s, err := LoadEmailSettings(writeSettings(t, body))
	if err != nil {
		t.Fatalf("LoadEmailSettings: %v", err)
	}
	if s.EnableSSL || s.Port != 25 {
		t.Fatalf("enableSsl=%v port=%d", s.EnableSSL, s.Port)
	}
}

func TestLoadEmailSettingsErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing key", `{"fromEmail":"a@x","toEmail":"b@x","mailServer":"m","userName":"u","password":"p","enableSsl":"true","emailSubject":"s"}`},
		{"bad bool", `{"fromEmail":"a@x","toEmail":"b@x","mailServer":"m","userName":"u","password":"p","enableSsl":"maybe","port":"25","emailSubject":"s"}`},
		{"bad port", `{"fromEmail":"a@x","toEmail":"b@x","mailServer":"m","userName":"u","password":"p","enableSsl":"true","port":"smtp","emailSubject":"s"}`},
		{"no recipients", `{"fromEmail":"a@x","toEmail":" , ","mailServer":"m","userName":"u","password":"p","enableSsl":"true","port":"25","emailSubject":"s"}`},
		{"malformed json", `{"fromEmail":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadEmailSettings(writeSettings(t, tt.body))
			if !errors.Is(err, ErrEmailSettings) {
				t.Fatalf("err = %v, want ErrEmailSettings", err)
			}
		})
	}
}

func TestLoadEmailSettingsMissingFile(t *testing.T) {
	_, err := LoadEmailSettings(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrEmailSettings) {
		t.Fatalf("err = %v, want ErrEmailSettings", err)
	}
}
