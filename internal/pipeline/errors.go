package pipeline

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrSchemaMismatch is returned when a selected export lacks a required column.
var ErrSchemaMismatch = errors.New("source files are missing required columns")

// DateMismatchError is returned when the desktop and in-app exports cover
// different reporting dates.
type DateMismatchError struct {
	Desktop string
	InApp   string
}

func (e *DateMismatchError) Error() string {
	return fmt.Sprintf("both files must have same start date (desktop %s, in-app %s)", e.Desktop, e.InApp)
}

func schemaMismatch(missing map[string][]string) error {
	var parts []string
	for file, cols := range missing {
		parts = append(parts, fmt.Sprintf("%s: %s", file, strings.Join(cols, ", ")))
	}
	return errors.Wrap(ErrSchemaMismatch, strings.Join(parts, "; "))
}
