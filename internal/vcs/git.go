// Package vcs resolves commit identifiers from a version-control checkout.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	apperrors "github.com/open-cli-collective/fwblob/internal/errors"
)

const (
	// DefaultBinary is the version-control command used when none is set.
	DefaultBinary = "git"
	// DefaultTimeout bounds a single rev-parse invocation.
	DefaultTimeout = 10 * time.Second
)

// Git resolves the short HEAD hash using the git command line.
type Git struct {
	// Binary is the git executable; empty means DefaultBinary.
	Binary string
	// Dir is the checkout to query; empty means the working directory.
	Dir string
	// Timeout bounds the subprocess; zero means DefaultTimeout.
	Timeout time.Duration
}

// ShortHash runs "git rev-parse --short HEAD" and returns its trimmed output.
func (g *Git) ShortHash(ctx context.Context) (string, error) {
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	binary := g.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	cmd := exec.CommandContext(ctx, binary, "rev-parse", "--short", "HEAD")
	cmd.Dir = g.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return "", apperrors.NewStepError(apperrors.StepResolveHash, apperrors.ErrVCSUnavailable,
			describeFailure(ctx, binary, err, stderr.String()))
	}

	hash := strings.TrimSpace(string(output))
	if hash == "" {
		return "", apperrors.NewStepError(apperrors.StepResolveHash, apperrors.ErrMalformedHash,
			fmt.Errorf("%s rev-parse produced no output", binary))
	}
	return hash, nil
}

// describeFailure turns a subprocess error into a single-line cause.
func describeFailure(ctx context.Context, binary string, err error, stderr string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s rev-parse timed out: %w", binary, ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := firstLine(stderr)
		if msg == "" {
			msg = exitErr.Error()
		}
		return fmt.Errorf("%s rev-parse exited with status %d: %s", binary, exitErr.ExitCode(), msg)
	}
	return err
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Static is a resolver that always returns the same hash.
type Static string

// ShortHash returns the fixed hash.
func (s Static) ShortHash(context.Context) (string, error) {
	return string(s), nil
}
