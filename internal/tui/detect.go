// Package tui holds the terminal presentation of pgetl: interactive-mode
// detection, the progress spinner and the styled read-back table.
package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents the interaction mode for pgetl.
type Mode int

const (
	// ModeNonInteractive is used for CI/CD pipelines, scripts, and piped input.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is at the terminal.
	ModeInteractive
)

// NonInteractiveEnv forces ModeNonInteractive when set to "1".
const NonInteractiveEnv = "PGETL_NON_INTERACTIVE"

// DetectMode determines whether pgetl should run in interactive or non-interactive mode.
//
// Returns ModeNonInteractive if:
//   - PGETL_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
//   - NO_COLOR is set (accessibility/automation indicator)
//   - stdin or stderr is not a terminal
//
// Returns ModeInteractive otherwise.
func DetectMode() Mode {
	if os.Getenv(NonInteractiveEnv) == "1" {
		return ModeNonInteractive
	}
	if os.Getenv("CI") != "" {
		return ModeNonInteractive
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ModeNonInteractive
	}
	// The spinner and prompts render on stderr.
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return ModeNonInteractive
	}

	return ModeInteractive
}

func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}
