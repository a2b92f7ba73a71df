package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports"
)

var ErrUnavailable = errors.New("pass command unavailable")

type runFunc func(ctx context.Context, args ...string) (stdout string, stderr string, err error)

// Store reads secrets from the password-store CLI. Only the first line of an
// entry is returned, matching `pass show` conventions for multi-line entries.
type Store struct {
	run runFunc
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{run: runPassCommand}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, "show", key)
	if err != nil {
		if strings.Contains(stderr, "is not in the password store") {
			return "", fmt.Errorf("pass entry %q: %w", key, domain.ErrSecretNotFound)
		}
		return "", formatError(key, err, stderr)
	}

	first, _, _ := strings.Cut(stdout, "\n")
	return strings.TrimSuffix(first, "\r"), nil
}

func runPassCommand(ctx context.Context, args ...string) (string, string, error) {
	path, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, args...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func formatError(key string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("pass show %q: %w", key, err)
	}

	return fmt.Errorf("pass show %q: %w: %s", key, err, stderr)
}
