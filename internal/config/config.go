// Package config assembles and validates run options for the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// EnvCookie is the environment variable consulted when no cookie flag is
// given. A .env file is honored via godotenv in main.
const EnvCookie = "HARVARD_Q_COOKIE"

// Flag defaults.
const (
	DefaultInput      = "2025springQ.csv"
	DefaultDelay      = 500 * time.Millisecond
	DefaultMaxRetries = 3
	DefaultLogLevel   = "info"
)

// Options holds everything an enrichment run needs after flag and environment
// merging.
type Options struct {
	InputPath  string `validate:"required"`
	OutputPath string `validate:"required"`
	Force      bool
	// Cookie is the opaque session credential. Empty means unauthenticated:
	// every resolution short-circuits to unresolved without a network call.
	Cookie          string
	Delay           time.Duration `validate:"gte=0"`
	MaxRetries      int           `validate:"gte=1"`
	Limit           int           `validate:"gte=0"`
	LogLevel        string
	ReuseFirstNames bool
}

var validate = validator.New()

// Validate checks option values after merging.
func (o *Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// ResolveCookie picks the session credential: the explicit flag value first,
// then the HARVARD_Q_COOKIE environment variable. Empty means no credential.
func ResolveCookie(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvCookie)
}

// DefaultOutputPath derives "<stem>_with_first_names<ext>" next to the input
// file.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(filepath.Base(input), ext)
	return filepath.Join(filepath.Dir(input), stem+"_with_first_names"+ext)
}
