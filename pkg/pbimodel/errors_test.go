package pbimodel_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, pbimodel.ExitSuccess},
		{"general error", errors.New("something went wrong"), pbimodel.ExitGeneralError},
		{"unknown flag", errors.New("unknown flag: --foo"), pbimodel.ExitUsageError},
		{"missing argument", errors.New("missing required argument: <table>"), pbimodel.ExitUsageError},
		{"accepts args", errors.New("accepts 1 arg(s), received 0"), pbimodel.ExitUsageError},
		{"required flag", errors.New(`required flag(s) "table" not set`), pbimodel.ExitUsageError},
		{"invalid config", fmt.Errorf("bad indent: %w", pbimodel.ErrInvalidConfig), pbimodel.ExitConfigError},
		{"input shape", &pbimodel.InputShapeError{Table: "Orders"}, pbimodel.ExitInputShape},
		{"empty result", &pbimodel.EmptyResultError{Detected: []string{"A.x=B.y"}}, pbimodel.ExitEmptyResult},
		{"missing template", &pbimodel.MissingTemplateError{Path: "/tmp/x"}, pbimodel.ExitMissingTemplate},
		{"wrapped missing template", fmt.Errorf("build: %w", &pbimodel.MissingTemplateError{Path: "/x"}), pbimodel.ExitMissingTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pbimodel.ExitCodeForError(tt.err))
		})
	}
}

func TestTypedErrors_Messages(t *testing.T) {
	err := &pbimodel.InputShapeError{Table: "Orders", Shape: "list", Reason: "no records"}
	assert.Equal(t, "no usable columns for table Orders (list input): no records", err.Error())
	assert.True(t, errors.Is(err, pbimodel.ErrInputShape))

	missing := &pbimodel.MissingTemplateError{Label: "template model.tmdl", Path: "/t/model.tmdl"}
	assert.Equal(t, "missing template model.tmdl: /t/model.tmdl", missing.Error())

	empty := &pbimodel.EmptyResultError{Detected: []string{"a", "b"}}
	assert.Contains(t, empty.Error(), "2 detected")
}
