package format

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes a formatter command with content on stdin and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdin string) (string, error)
}

// CommandRunner runs formatters as subprocesses.
type CommandRunner struct {
	// For mocking in tests
	commandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewCommandRunner creates a runner backed by os/exec.
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{commandFunc: exec.CommandContext}
}

// Run starts name with args, writes stdin to it and waits for it, killing the
// process when ctx is done.
func (r *CommandRunner) Run(ctx context.Context, name string, args []string, stdin string) (string, error) {
	cmd := r.commandFunc(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%s cancelled: %w", name, ctxErr)
		}
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%s not found in PATH: %w", name, err)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s failed: %w: %s", name, err, msg)
		}
		return "", fmt.Errorf("%s failed: %w", name, err)
	}

	return stdout.String(), nil
}
