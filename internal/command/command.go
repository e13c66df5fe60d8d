package command

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner abstracts external command execution for testability.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}

// Error reports a failed invocation along with whatever the tool printed.
type Error struct {
	Name   string
	Args   []string
	Output []byte
	Err    error
}

func (e *Error) Error() string {
	detail := strings.TrimSpace(string(e.Output))
	if len(detail) > 200 {
		detail = detail[:200] + "..."
	}
	if detail == "" {
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Name, e.Err, detail)
}

func (e *Error) Unwrap() error { return e.Err }

// Started reports whether the command was launched at all. A command that
// started and exited non-zero still produced output worth inspecting.
func Started(err error) bool {
	if err == nil {
		return true
	}
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

// Exec runs commands with os/exec and returns combined stdout and stderr.
type Exec struct{}

func (Exec) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, &Error{Name: name, Args: append([]string(nil), args...), Output: output, Err: err}
	}
	return output, nil
}
