package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/critiq/internal/common"
	"github.com/Veraticus/critiq/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	content := "negative\tC'est une arnaque\n" +
		"\n" +
		"positive\tJ'adore ce produit\r\n" +
		"positive\tLivraison rapide, très satisfait\n"
	path := writeTemp(t, "critiques.txt", content)

	ds, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, ds.Source)
	assert.Equal(t, []model.Record{
		{Label: "negative", Text: "C'est une arnaque"},
		{Label: "positive", Text: "J'adore ce produit"},
		{Label: "positive", Text: "Livraison rapide, très satisfait"},
	}, ds.Records)

	lines, err := CountLines(path)
	require.NoError(t, err)
	assert.Equal(t, lines, ds.Len())
}

func TestRead_FormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		reason   string
	}{
		{
			name:     "missing tab",
			input:    "positive\tok\nnegative pas bien\n",
			wantLine: 2,
			reason:   "missing tab separator",
		},
		{
			name:     "extra tab",
			input:    "positive\tok\tencore\n",
			wantLine: 1,
			reason:   "expected 2 tab-separated fields, got 3",
		},
		{
			name:     "empty label",
			input:    "\tsans label\n",
			wantLine: 1,
			reason:   "empty label",
		},
		{
			name:     "empty text",
			input:    "positive\t  \n",
			wantLine: 1,
			reason:   "empty text",
		},
		{
			name:     "label with space",
			input:    "very positive\tsuper\n",
			wantLine: 1,
			reason:   `label "very positive" contains whitespace`,
		},
		{
			name:     "label with vertical tab",
			input:    "pos\vitive\tJ'adore ce produit\n",
			wantLine: 1,
			reason:   `label "pos\vitive" contains whitespace`,
		},
		{
			name:     "label with form feed",
			input:    "positive\tbien\nneg\fative\tNul\n",
			wantLine: 2,
			reason:   `label "neg\fative" contains whitespace`,
		},
		{
			name:     "label with NUL",
			input:    "neg\x00ative\tNul\n",
			wantLine: 1,
			reason:   `label "neg\x00ative" contains whitespace`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(context.Background(), strings.NewReader(tt.input), "inline")
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrFormat))

			var fe *FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.wantLine, fe.Line)
			assert.Equal(t, tt.reason, fe.Reason)
		})
	}
}

func TestLoad_FormatErrorCarriesPath(t *testing.T) {
	path := writeTemp(t, "bad.txt", "positive sans tab\n")

	_, err := Load(context.Background(), path)
	require.Error(t, err)

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, path, fe.Path)
	assert.Equal(t, path+":1: missing tab separator", err.Error())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, errors.Is(err, common.ErrFormat))
}

func TestRead_CanceledContext(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 2500; i++ {
		b.WriteString("positive\ttexte\n")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Read(ctx, strings.NewReader(b.String()), "inline")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCountLines(t *testing.T) {
	path := writeTemp(t, "test.txt", "__label__a x\n\n__label__b y\n   \n")

	n, err := CountLines(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = CountLines(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
