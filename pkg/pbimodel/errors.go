package pbimodel

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes that abort a command.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := svc.Polish(dir)
//	if errors.Is(err, pbimodel.ErrEmptyResult) {
//	    // every relationship was filtered away; nothing was written
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInputShape indicates structured column input produced no column records.
	ErrInputShape = errors.New("no usable columns")

	// ErrEmptyResult indicates relationship filtering removed every relationship.
	ErrEmptyResult = errors.New("all relationships would be removed")

	// ErrMissingTemplate indicates a required template asset is absent.
	ErrMissingTemplate = errors.New("missing template asset")

	// ErrTableNotFound indicates a requested table is not present in the source description.
	ErrTableNotFound = errors.New("table not found")
)

// InputShapeError reports column input that could not be turned into any column record.
type InputShapeError struct {
	Table  string // Table being integrated (may be empty)
	Shape  string // Detected input shape
	Reason string
}

func (e *InputShapeError) Error() string {
	var b strings.Builder
	b.WriteString("no usable columns")
	if e.Table != "" {
		fmt.Fprintf(&b, " for table %s", e.Table)
	}
	if e.Shape != "" {
		fmt.Fprintf(&b, " (%s input)", e.Shape)
	}
	if e.Reason != "" {
		b.WriteString(": " + e.Reason)
	}
	return b.String()
}

func (e *InputShapeError) Unwrap() error { return ErrInputShape }

// EmptyResultError reports that relationship filtering would leave nothing.
// Detected lists every normalized pair observed before filtering, so the
// caller can correct the keep-list.
type EmptyResultError struct {
	Detected []string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("all relationships would be removed (%d detected)", len(e.Detected))
}

func (e *EmptyResultError) Unwrap() error { return ErrEmptyResult }

// MissingTemplateError names a required template asset that does not exist.
type MissingTemplateError struct {
	Label string // Human-readable asset name, e.g. "template model.tmdl"
	Path  string
}

func (e *MissingTemplateError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("missing template asset: %s", e.Path)
	}
	return fmt.Sprintf("missing %s: %s", e.Label, e.Path)
}

func (e *MissingTemplateError) Unwrap() error { return ErrMissingTemplate }

// usageErrorPrefixes are the message shapes cobra and pflag use for CLI misuse.
var usageErrorPrefixes = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"required flag",
	"invalid argument",
	"flag needs an argument",
	"missing required argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrInputShape):
		return ExitInputShape
	case errors.Is(err, ErrEmptyResult):
		return ExitEmptyResult
	case errors.Is(err, ErrMissingTemplate):
		return ExitMissingTemplate
	}

	errStr := err.Error()
	for _, prefix := range usageErrorPrefixes {
		if strings.HasPrefix(errStr, prefix) {
			return ExitUsageError
		}
	}
	if strings.HasPrefix(errStr, "accepts ") && strings.Contains(errStr, "arg(s)") {
		return ExitUsageError
	}

	return ExitGeneralError
}
