// Package dataset loads labeled critiques and writes them in the
// line-oriented supervised training format.
package dataset

import (
	"fmt"

	"github.com/Veraticus/critiq/internal/common"
)

// FormatError reports a malformed input or output line.
type FormatError struct {
	Path   string
	Reason string
	Line   int
}

func (e *FormatError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	default:
		return e.Reason
	}
}

// Is makes every FormatError match common.ErrFormat.
func (e *FormatError) Is(target error) bool {
	return target == common.ErrFormat
}

func formatErr(reason string, args ...any) *FormatError {
	return &FormatError{Reason: fmt.Sprintf(reason, args...)}
}
