package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ErrEmailSettings marks every failure to load the email settings file.
var ErrEmailSettings = errors.New("invalid email settings")

// EmailSettings holds the SMTP connection parameters for the email routes.
type EmailSettings struct {
	FromEmail    string
	ToEmail      string
	MailServer   string
	UserName     string
	Password     string
	EnableSSL    bool
	Port         int
	EmailSubject string
}

// Recipients splits ToEmail on commas and semicolons.
func (s EmailSettings) Recipients() []string {
	fields := strings.FieldsFunc(s.ToEmail, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// emailKeys lists the keys every settings file must define.
var emailKeys = []string{
	"fromEmail", "toEmail", "mailServer", "userName",
	"password", "enableSsl", "port", "emailSubject",
}

// LoadEmailSettings reads the JSON email settings file. A missing file, a
// missing key, or a bool/int field that does not parse is an error
// wrapping ErrEmailSettings.
func LoadEmailSettings(path string) (EmailSettings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return EmailSettings{}, fmt.Errorf("%w: read %s: %v", ErrEmailSettings, path, err)
	}

	var errs ValidationErrors
	for _, key := range emailKeys {
		if !v.IsSet(key) {
			errs = append(errs, ValidationError{Field: key, Value: nil, Message: "is required"})
		}
	}
	if len(errs) > 0 {
		return EmailSettings{}, fmt.Errorf("%w: %s: %w", ErrEmailSettings, path, errs)
	}

	enableSSL, err := cast.ToBoolE(v.Get("enableSsl"))
	if err != nil {
		errs = append(errs, ValidationError{Field: "enableSsl", Value: v.Get("enableSsl"), Message: "must be a boolean"})
	}
	port, err := cast.ToIntE(v.Get("port"))
	if err != nil || port <= 0 || port > 65535 {
		errs = append(errs, ValidationError{Field: "port", Value: v.Get("port"), Message: "must be an integer between 1 and 65535"})
	}

	s := EmailSettings{
		FromEmail:    v.GetString("fromEmail"),
		ToEmail:      v.GetString("toEmail"),
		MailServer:   v.GetString("mailServer"),
		UserName:     v.GetString("userName"),
		Password:     v.GetString("password"),
		EnableSSL:    enableSSL,
		Port:         port,
		EmailSubject: v.GetString("emailSubject"),
	}
	if s.MailServer == "" {
		errs = append(errs, ValidationError{Field: "mailServer", Value: s.MailServer, Message: "must not be empty"})
	}
	if len(s.Recipients()) == 0 {
		errs = append(errs, ValidationError{Field: "toEmail", Value: s.ToEmail, Message: "must name at least one recipient"})
	}
	if len(errs) > 0 {
		return EmailSettings{}, fmt.Errorf("%w: %s: %w", ErrEmailSettings, path, errs)
	}
	return s, nil
}
