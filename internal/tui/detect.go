package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents the interaction mode of a pbimodel run.
type Mode int

const (
	// ModeNonInteractive is used for CI/CD pipelines, scripts, and piped output.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is at the terminal.
	ModeInteractive
)

// DetectMode decides whether summaries are rendered for a person or a log.
//
// Returns ModeNonInteractive if:
//   - PBIMODEL_NON_INTERACTIVE=1 is set
//   - CI is set
//   - NO_COLOR is set
//   - stderr is not a terminal
func DetectMode() Mode {
	return detectMode(os.Getenv, func() bool { return term.IsTerminal(int(os.Stderr.Fd())) })
}

func detectMode(getenv func(string) string, isTerminal func() bool) Mode {
	if getenv("PBIMODEL_NON_INTERACTIVE") == "1" {
		return ModeNonInteractive
	}
	if getenv("CI") != "" || getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}
	if !isTerminal() {
		return ModeNonInteractive
	}
	return ModeInteractive
}

// IsInteractive is a convenience function that returns true if running in interactive mode.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}
