package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOptions() *Options {
	return &Options{
		InputPath:       "2025springQ.csv",
		OutputPath:      "2025springQ_with_first_names.csv",
		Delay:           500 * time.Millisecond,
		MaxRetries:      3,
		LogLevel:        "info",
		ReuseFirstNames: true,
	}
}

func TestOptions_Validate(t *testing.T) {
	require.NoError(t, validOptions().Validate())

	t.Run("Missing input path", func(t *testing.T) {
		opts := validOptions()
		opts.InputPath = ""
		assert.Error(t, opts.Validate())
	})

	t.Run("Missing output path", func(t *testing.T) {
		opts := validOptions()
		opts.OutputPath = ""
		assert.Error(t, opts.Validate())
	})

	t.Run("Negative delay", func(t *testing.T) {
		opts := validOptions()
		opts.Delay = -time.Second
		assert.Error(t, opts.Validate())
	})

	t.Run("Zero retries", func(t *testing.T) {
		opts := validOptions()
		opts.MaxRetries = 0
		assert.Error(t, opts.Validate())
	})

	t.Run("Negative limit", func(t *testing.T) {
		opts := validOptions()
		opts.Limit = -1
		assert.Error(t, opts.Validate())
	})

	t.Run("Zero limit is fine", func(t *testing.T) {
		opts := validOptions()
		opts.Limit = 0
		assert.NoError(t, opts.Validate())
	})
}

func TestResolveCookie(t *testing.T) {
	t.Run("Flag wins over environment", func(t *testing.T) {
		t.Setenv(EnvCookie, "from-env")
		assert.Equal(t, "from-flag", ResolveCookie("from-flag"))
	})

	t.Run("Environment used when flag empty", func(t *testing.T) {
		t.Setenv(EnvCookie, "from-env")
		assert.Equal(t, "from-env", ResolveCookie(""))
	})

	t.Run("Empty when neither set", func(t *testing.T) {
		t.Setenv(EnvCookie, "")
		assert.Empty(t, ResolveCookie(""))
	})
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Simple CSV", "2025springQ.csv", "2025springQ_with_first_names.csv"},
		{"Nested path", filepath.Join("data", "q.csv"), filepath.Join("data", "q_with_first_names.csv")},
		{"No extension", "export", "export_with_first_names"},
		{"Other extension", "report.tsv", "report_with_first_names.tsv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DefaultOutputPath(tt.input))
		})
	}
}
