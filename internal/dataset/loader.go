package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/critiq/internal/model"
)

// maxLineSize bounds a single critique line.
const maxLineSize = 1 << 20

// Load reads a tab-separated label/text file into a dataset.
func Load(ctx context.Context, path string) (*model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	ds, err := Read(ctx, f, path)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	return ds, nil
}

// Read parses label/text lines from r. Blank lines are skipped and input
// order is preserved.
func Read(ctx context.Context, r io.Reader, source string) (*model.Dataset, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	ds := &model.Dataset{Source: source}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		rec, err := parseRecord(line)
		if err != nil {
			err.Line = lineNo
			return nil, err
		}
		ds.Records = append(ds.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	return ds, nil
}

func parseRecord(line string) (model.Record, *FormatError) {
	fields := strings.Split(line, "\t")
	switch {
	case len(fields) < 2:
		return model.Record{}, formatErr("missing tab separator")
	case len(fields) > 2:
		return model.Record{}, formatErr("expected 2 tab-separated fields, got %d", len(fields))
	}

	label := strings.TrimSpace(fields[0])
	text := strings.TrimSpace(fields[1])
	if label == "" {
		return model.Record{}, formatErr("empty label")
	}
	if text == "" {
		return model.Record{}, formatErr("empty text")
	}
	if hasTokenBreak(label) {
		return model.Record{}, formatErr("label %q contains whitespace", label)
	}

	return model.Record{Label: label, Text: text}, nil
}

// CountLines returns the number of non-empty lines in a file.
func CountLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	n := 0
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			n++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return n, nil
}
