package fasttext

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/critiq/internal/common"
	"github.com/Veraticus/critiq/internal/model"
)

// DefaultTimeout bounds a single sub-command when the caller sets no deadline.
const DefaultTimeout = 10 * time.Minute

// Config configures the fastText client.
type Config struct {
	Runner     Runner
	BinaryPath string
	Timeout    time.Duration
}

// Client is the set of library operations the pipeline relies on.
type Client interface {
	Train(ctx context.Context, trainPath, modelPath string, params model.TrainingParams) (*Model, error)
	Load(path string) (*Model, error)
	Test(ctx context.Context, m *Model, testPath string, k int) (model.Evaluation, error)
	Predict(ctx context.Context, m *Model, text string) (model.Prediction, error)
	Vocabulary(ctx context.Context, m *Model) (Vocabulary, error)
	Neighbors(ctx context.Context, m *Model, word string, k int) model.SimilarityResult
}

// Vocabulary is the set of word tokens known to a model.
type Vocabulary map[string]struct{}

// Contains reports whether word is in the vocabulary.
func (v Vocabulary) Contains(word string) bool {
	_, ok := v[word]
	return ok
}

// Model is a handle on a trained artifact. The bytes belong to the library.
type Model struct {
	vocab Vocabulary
	Path  string
}

// CLIClient implements Client on top of the fasttext command-line tool.
type CLIClient struct {
	runner  Runner
	binary  string
	timeout time.Duration
}

var _ Client = (*CLIClient)(nil)

// NewClient creates a client for the configured binary.
func NewClient(cfg Config) (*CLIClient, error) {
	binary := cfg.BinaryPath
	if binary == "" {
		binary = "fasttext"
	}

	runner := cfg.Runner
	if runner == nil {
		if _, err := exec.LookPath(binary); err != nil {
			return nil, fmt.Errorf("%w at %s: install fastText and put it on PATH or set fasttext.path", ErrBinaryNotFound, binary)
		}
		runner = ExecRunner{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &CLIClient{
		runner:  runner,
		binary:  binary,
		timeout: timeout,
	}, nil
}

// Train runs supervised training and returns a handle on the saved artifact.
// modelPath must end in ".bin"; the library derives its file names from the prefix.
func (c *CLIClient) Train(ctx context.Context, trainPath, modelPath string, params model.TrainingParams) (*Model, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	if !strings.HasSuffix(modelPath, ".bin") {
		return nil, fmt.Errorf("%w: model path %q must end in .bin", common.ErrInvalidConfig, modelPath)
	}
	if _, err := os.Stat(trainPath); err != nil {
		return nil, fmt.Errorf("training file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(modelPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create model directory: %w", err)
	}

	args := []string{
		"supervised",
		"-input", trainPath,
		"-output", strings.TrimSuffix(modelPath, ".bin"),
		"-lr", strconv.FormatFloat(params.LearningRate, 'g', -1, 64),
		"-epoch", strconv.Itoa(params.Epochs),
	}
	if params.WordNgrams > 0 {
		args = append(args, "-wordNgrams", strconv.Itoa(params.WordNgrams))
	}
	if params.Dim > 0 {
		args = append(args, "-dim", strconv.Itoa(params.Dim))
	}
	if params.MinCount > 0 {
		args = append(args, "-minCount", strconv.Itoa(params.MinCount))
	}

	if _, err := c.run(ctx, "supervised", args, ""); err != nil {
		return nil, err
	}

	return c.Load(modelPath)
}

// Load returns a handle on an existing model artifact.
func (c *CLIClient) Load(path string) (*Model, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat model: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrModelNotFound, path)
	}
	return &Model{Path: path}, nil
}

// Test evaluates the model on a labeled file at precision/recall@k.
func (c *CLIClient) Test(ctx context.Context, m *Model, testPath string, k int) (model.Evaluation, error) {
	if k <= 0 {
		k = 1
	}

	out, err := c.run(ctx, "test", []string{"test", m.Path, testPath, strconv.Itoa(k)}, "")
	if err != nil {
		return model.Evaluation{}, err
	}

	ev, err := parseTestOutput(out)
	if err != nil {
		return model.Evaluation{}, &Error{Op: "test", Err: err}
	}
	return ev, nil
}

// Predict returns the top label and its probability for text. The text is
// not validated; newlines are folded because the tool reads one query per line.
func (c *CLIClient) Predict(ctx context.Context, m *Model, text string) (model.Prediction, error) {
	query := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)

	out, err := c.run(ctx, "predict-prob", []string{"predict-prob", m.Path, "-", "1"}, query+"\n")
	if err != nil {
		return model.Prediction{}, err
	}

	p, err := parsePrediction(out)
	if err != nil {
		return model.Prediction{}, &Error{Op: "predict-prob", Err: err}
	}
	return p, nil
}

// Vocabulary lists the model's word tokens. The result is cached on the handle.
func (c *CLIClient) Vocabulary(ctx context.Context, m *Model) (Vocabulary, error) {
	if m.vocab != nil {
		return m.vocab, nil
	}

	out, err := c.run(ctx, "dump", []string{"dump", m.Path, "dict"}, "")
	if err != nil {
		return nil, err
	}

	vocab, err := parseDict(out)
	if err != nil {
		return nil, &Error{Op: "dump", Err: err}
	}
	m.vocab = vocab
	return vocab, nil
}

// Neighbors looks up the k nearest vocabulary tokens to word. A missing
// word and a failing lookup are reported as distinct statuses.
func (c *CLIClient) Neighbors(ctx context.Context, m *Model, word string, k int) model.SimilarityResult {
	res := model.SimilarityResult{Query: word}

	fail := func(status model.SimilarityStatus, err error) model.SimilarityResult {
		res.Status = status
		res.Err = err
		return res
	}

	if k <= 0 {
		return fail(model.StatusFailed, fmt.Errorf("%w: neighbor count must be positive, got %d", common.ErrInvalidConfig, k))
	}
	if strings.TrimSpace(word) == "" || strings.ContainsAny(word, " \t\r\n") {
		return fail(model.StatusNotInVocabulary, ErrNotInVocabulary)
	}

	vocab, err := c.Vocabulary(ctx, m)
	if err != nil {
		return fail(model.StatusFailed, err)
	}
	if !vocab.Contains(word) {
		return fail(model.StatusNotInVocabulary, ErrNotInVocabulary)
	}

	out, err := c.run(ctx, "nn", []string{"nn", m.Path, strconv.Itoa(k)}, word+"\n")
	if err != nil {
		return fail(model.StatusFailed, err)
	}

	neighbors, err := parseNeighbors(out)
	if err != nil {
		return fail(model.StatusFailed, &Error{Op: "nn", Err: err})
	}
	if err := neighbors.Validate(); err != nil {
		return fail(model.StatusFailed, &Error{Op: "nn", Err: fmt.Errorf("%w: %v", ErrUnexpectedOutput, err)})
	}
	if !neighbors.IsRanked() {
		return fail(model.StatusFailed, &Error{Op: "nn", Err: fmt.Errorf("%w: scores are not in descending order", ErrUnexpectedOutput)})
	}

	res.Status = model.StatusFound
	res.Neighbors = neighbors.TopN(k)
	return res
}

// run executes one sub-command with the client timeout.
func (c *CLIClient) run(ctx context.Context, op string, args []string, stdin string) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	stdout, stderr, err := c.runner.Run(ctx, c.binary, args, stdin)
	slog.Debug("fasttext command finished",
		"op", op,
		"args", args,
		"duration", time.Since(start),
		"error", err)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return "", &Error{Op: op, Err: err, Stderr: stderr}
	}
	return stdout, nil
}
