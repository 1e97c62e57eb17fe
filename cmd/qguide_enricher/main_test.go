package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubcommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["enrich"])
	assert.True(t, names["resolve"])
}

func TestEnrichFlagDefaults(t *testing.T) {
	flags := enrichCmd.Flags()

	tests := []struct {
		flag     string
		expected string
	}{
		{"input", "2025springQ.csv"},
		{"output", ""},
		{"force", "false"},
		{"harvard-q-cookie", ""},
		{"delay", "500ms"},
		{"max-retries", "3"},
		{"limit", "0"},
		{"log-level", "info"},
		{"no-reuse-first-names", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			f := flags.Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.expected, f.DefValue)
		})
	}
}

func TestResolveCommandRejectsMissingFlags(t *testing.T) {
	assert.Error(t, resolveCmd.ValidateRequiredFlags())
}
