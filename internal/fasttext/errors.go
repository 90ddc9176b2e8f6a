package fasttext

import (
	"errors"
	"fmt"
	"strings"
)

// Library errors.
var (
	ErrBinaryNotFound   = errors.New("fasttext binary not found")
	ErrModelNotFound    = errors.New("model artifact not found")
	ErrNotInVocabulary  = errors.New("word not in vocabulary")
	ErrNoPrediction     = errors.New("no prediction returned")
	ErrUnexpectedOutput = errors.New("unexpected fasttext output")
)

// Error is a failure surfaced by a fastText sub-command.
type Error struct {
	Err    error
	Op     string
	Stderr string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("fasttext %s: %v", e.Op, e.Err)
	if stderr := lastLine(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// lastLine keeps error messages short; training progress floods stderr.
func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexAny(s, "\r\n"); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
