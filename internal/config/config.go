// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads and validates the server configuration from
// OCMS_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"OCMS_DB_PATH" envDefault:"./data/ocms-books.db"`
	ServerHost string `env:"OCMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"OCMS_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"OCMS_ENV" envDefault:"development"`
	LogLevel   string `env:"OCMS_LOG_LEVEL" envDefault:"info"`

	// Languages
	Languages       []string `env:"OCMS_LANGUAGES" envDefault:"en,es,fr,pt" envSeparator:","`
	DefaultLanguage string   `env:"OCMS_DEFAULT_LANGUAGE" envDefault:"en"`

	// Site metadata used by SEO bundles and the sitemap
	PublicBaseURL  string `env:"OCMS_PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	SiteName       string `env:"OCMS_SITE_NAME" envDefault:"oCMS Books"`
	DefaultOGImage string `env:"OCMS_DEFAULT_OG_IMAGE"`
	TwitterHandle  string `env:"OCMS_TWITTER_HANDLE"`

	// Admin API; disabled when the token is empty
	AdminToken string `env:"OCMS_ADMIN_TOKEN"`

	// Per-client rate limit of the public API
	RateLimitRPS   float64 `env:"OCMS_RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int     `env:"OCMS_RATE_LIMIT_BURST" envDefault:"20"`

	// Upper bound of parent-chain walks in the category and tag trees
	MaxHierarchyDepth int `env:"OCMS_MAX_HIERARCHY_DEPTH" envDefault:"64"`

	DoSeed         bool `env:"OCMS_DO_SEED" envDefault:"false"`
	MetricsEnabled bool `env:"OCMS_METRICS_ENABLED" envDefault:"true"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// AdminEnabled returns true if the admin API is mounted.
func (c Config) AdminEnabled() bool {
	return c.AdminToken != ""
}

// MinAdminTokenLength is the length below which a warning is logged.
const MinAdminTokenLength = 32

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.AdminEnabled() && (len(cfg.AdminToken) < MinAdminTokenLength || !hasMinimumEntropy(cfg.AdminToken)) {
		slog.Warn("OCMS_ADMIN_TOKEN is short or has low character diversity; " +
			"consider generating a random token with: openssl rand -base64 32")
	}

	return cfg, nil
}

// Validate normalizes the language settings in place and checks every value
// the server depends on. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	languages, err := normalizeLanguages(c.Languages)
	if err != nil {
		errs = append(errs, err)
	}
	c.Languages = languages

	c.DefaultLanguage = strings.ToLower(strings.TrimSpace(c.DefaultLanguage))
	if err == nil && !slices.Contains(c.Languages, c.DefaultLanguage) {
		errs = append(errs, fmt.Errorf("OCMS_DEFAULT_LANGUAGE %q is not in OCMS_LANGUAGES %v", c.DefaultLanguage, c.Languages))
	}

	if u, err := url.Parse(c.PublicBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("OCMS_PUBLIC_BASE_URL must be an absolute http(s) URL, got %q", c.PublicBaseURL))
	}
	c.PublicBaseURL = strings.TrimRight(c.PublicBaseURL, "/")

	if c.MaxHierarchyDepth <= 0 {
		errs = append(errs, fmt.Errorf("OCMS_MAX_HIERARCHY_DEPTH must be positive, got %d", c.MaxHierarchyDepth))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, fmt.Errorf("OCMS_RATE_LIMIT_RPS and OCMS_RATE_LIMIT_BURST must be positive"))
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("OCMS_SERVER_PORT out of range: %d", c.ServerPort))
	}

	return errors.Join(errs...)
}

// normalizeLanguages lower-cases and de-duplicates codes, keeping the first
// occurrence, and requires each to be a canonical ISO 639 base subtag.
func normalizeLanguages(codes []string) ([]string, error) {
	out := make([]string, 0, len(codes))
	for _, raw := range codes {
		code := strings.ToLower(strings.TrimSpace(raw))
		if code == "" || slices.Contains(out, code) {
			continue
		}
		base, err := language.ParseBase(code)
		if err != nil || code == "und" {
			return nil, fmt.Errorf("OCMS_LANGUAGES: %q is not an ISO 639 language code", raw)
		}
		if base.String() != code {
			return nil, fmt.Errorf("OCMS_LANGUAGES: use %q instead of %q", base.String(), raw)
		}
		out = append(out, code)
	}
	if len(out) == 0 {
		return nil, errors.New("OCMS_LANGUAGES must name at least one language")
	}
	return out, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
