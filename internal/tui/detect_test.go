package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestDetectMode(t *testing.T) {
	tty := func() bool { return true }
	pipe := func() bool { return false }

	tests := []struct {
		name       string
		vars       map[string]string
		isTerminal func() bool
		want       Mode
	}{
		{"terminal", nil, tty, ModeInteractive},
		{"piped", nil, pipe, ModeNonInteractive},
		{"override", map[string]string{"PBIMODEL_NON_INTERACTIVE": "1"}, tty, ModeNonInteractive},
		{"override needs 1", map[string]string{"PBIMODEL_NON_INTERACTIVE": "true"}, tty, ModeInteractive},
		{"ci", map[string]string{"CI": "true"}, tty, ModeNonInteractive},
		{"no color", map[string]string{"NO_COLOR": "1"}, tty, ModeNonInteractive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectMode(env(tt.vars), tt.isTerminal))
		})
	}
}

func TestIsInteractive_ReturnsFalseInTests(t *testing.T) {
	t.Setenv("PBIMODEL_NON_INTERACTIVE", "")
	t.Setenv("CI", "")
	t.Setenv("NO_COLOR", "")

	// stderr is not a terminal under go test
	assert.False(t, IsInteractive())
}
