// Package toolchain runs the external Node.js tools a generated project needs.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ErrNotFound is returned when the requested executable is not on PATH.
var ErrNotFound = errors.New("executable not found")

// Runner executes external commands.
type Runner interface {
	// Output runs name in dir and returns its trimmed stdout
	Output(ctx context.Context, dir, name string, args ...string) (string, error)

	// Stream runs name in dir with its output attached to stdout and stderr
	Stream(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error
}

// OSRunner implements Runner with os/exec
type OSRunner struct{}

// NewOSRunner creates a new OSRunner
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

func (r *OSRunner) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	path, err := lookPath(name)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s failed: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(out.String()), nil
}

func (r *OSRunner) Stream(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	path, err := lookPath(name)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s failed: %w", name, strings.Join(args, " "), err)
	}

	return nil
}

func lookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return path, nil
}

// NpmInstall installs the dependencies of the project in dir.
func NpmInstall(ctx context.Context, r Runner, dir string, stdout, stderr io.Writer) error {
	return r.Stream(ctx, dir, stdout, stderr, "npm", "install")
}
