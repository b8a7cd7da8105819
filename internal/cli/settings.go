// Package cli implements reportctl, the operator command line for the
// reporting backend.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Settings holds what the commands need. Values come from an optional
// config file, overridden by the same environment variables the API reads.
type Settings struct {
	DatabaseURL  string `mapstructure:"database_url"`
	Timezone     string `mapstructure:"timezone"`
	Locale       string `mapstructure:"locale"`
	JWTSecret    string `mapstructure:"jwt_secret"`
	JWTAudience  string `mapstructure:"jwt_audience"`
	ResendAPIKey string `mapstructure:"resend_api_key"`
	FromName     string `mapstructure:"from_name"`
	FromEmail    string `mapstructure:"from_email"`
}

var settingEnv = map[string]string{
	"database_url":   "DATABASE_URL",
	"timezone":       "REPORT_TIMEZONE",
	"locale":         "REPORT_DEFAULT_LOCALE",
	"jwt_secret":     "SUPABASE_JWT_SECRET",
	"jwt_audience":   "SUPABASE_JWT_AUDIENCE",
	"resend_api_key": "RESEND_API_KEY",
	"from_name":      "RESEND_FROM_NAME",
	"from_email":     "RESEND_FROM_EMAIL",
}

// LoadSettings reads the config file at path, when given, and applies
// environment overrides.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetDefault("timezone", "Asia/Jerusalem")
	v.SetDefault("locale", "he")
	v.SetDefault("jwt_audience", "authenticated")
	v.SetDefault("from_name", "CRM Reports")
	v.SetDefault("from_email", "onboarding@resend.dev")

	for key, env := range settingEnv {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &s, nil
}

// Location loads the reporting timezone.
func (s *Settings) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// LocaleTag returns the configured locale, or Hebrew when it does not parse.
func (s *Settings) LocaleTag() language.Tag {
	tag, err := language.Parse(s.Locale)
	if err != nil {
		return language.Hebrew
	}
	return tag
}
