package dataset

import (
	"strings"
	"unicode"

	"github.com/Veraticus/critiq/internal/model"
)

// LabelPrefix marks the label token in the supervised training format.
const LabelPrefix = "__label__"

// FormatLine renders a record as "__label__<label> <text>".
func FormatLine(r model.Record) (string, error) {
	if r.Label == "" {
		return "", formatErr("empty label")
	}
	if hasTokenBreak(r.Label) {
		return "", formatErr("label %q contains whitespace", r.Label)
	}
	if r.Text == "" {
		return "", formatErr("empty text")
	}
	if strings.ContainsAny(r.Text, "\r\n") {
		return "", formatErr("text for label %q contains an embedded newline", r.Label)
	}

	return LabelPrefix + r.Label + " " + r.Text, nil
}

// ParseLine is the inverse of FormatLine.
func ParseLine(line string) (model.Record, error) {
	if !strings.HasPrefix(line, LabelPrefix) {
		return model.Record{}, formatErr("missing %s prefix", LabelPrefix)
	}

	label, text, ok := strings.Cut(strings.TrimPrefix(line, LabelPrefix), " ")
	if !ok {
		return model.Record{}, formatErr("missing space after label")
	}
	if label == "" || text == "" {
		return model.Record{}, formatErr("empty label or text")
	}

	return model.Record{Label: label, Text: text}, nil
}

// StripLabel removes the label prefix from a label token returned by the library.
func StripLabel(token string) string {
	return strings.TrimPrefix(token, LabelPrefix)
}

// hasTokenBreak reports whether s contains a character the library splits
// tokens on: any Unicode space or NUL.
func hasTokenBreak(s string) bool {
	return strings.ContainsFunc(s, unicode.IsSpace) || strings.ContainsRune(s, 0)
}
