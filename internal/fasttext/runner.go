package fasttext

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// Runner executes the fastText binary.
type Runner interface {
	Run(ctx context.Context, binary string, args []string, stdin string) (stdout, stderr string, err error)
}

// ExecRunner runs the binary as a child process.
type ExecRunner struct{}

// Run executes binary with args, feeding stdin and capturing both output streams.
func (ExecRunner) Run(ctx context.Context, binary string, args []string, stdin string) (string, string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
