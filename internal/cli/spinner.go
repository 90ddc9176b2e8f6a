package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// Spinner shows activity while a blocking library call runs.
type Spinner struct {
	bar *progressbar.ProgressBar
}

// NewSpinner creates an indeterminate progress indicator writing to w.
func NewSpinner(w io.Writer, description string) *Spinner {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after spinner", "error", err)
			}
		}),
	)
	return &Spinner{bar: bar}
}

// Run spins while fn executes and stops once it returns.
func (s *Spinner) Run(fn func() error) error {
	if err := s.bar.RenderBlank(); err != nil {
		slog.Debug("Failed to render spinner", "error", err)
	}

	err := fn()

	if finishErr := s.bar.Finish(); finishErr != nil {
		slog.Debug("Failed to finish spinner", "error", finishErr)
	}
	return err
}
