// Package execplugin runs an external executable as an alert handler. The
// record is written to the executable's stdin as one JSON line.
package execplugin

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/bnema/alert-bot/internal/adapters/handlers/params"
	"github.com/bnema/alert-bot/internal/adapters/wire"
	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports"
)

const defaultTimeout = 30 * time.Second

type runFunc func(ctx context.Context, input []byte, path string, args ...string) (stderr string, err error)

type Params struct {
	Args    []string      `param:"args"`
	Timeout time.Duration `param:"timeout"`
}

type Handler struct {
	path    string
	args    []string
	timeout time.Duration
	run     runFunc
}

var _ ports.AlertHandler = (*Handler)(nil)

// Constructor returns a handler constructor for the executable at path.
func Constructor(path string) ports.HandlerConstructor {
	return func(raw map[string]any) (ports.AlertHandler, error) {
		var p Params
		if err := params.Decode(raw, &p); err != nil {
			return nil, err
		}
		if p.Timeout <= 0 {
			p.Timeout = defaultTimeout
		}

		return &Handler{path: path, args: p.Args, timeout: p.Timeout, run: runExecutable}, nil
	}
}

func (h *Handler) Handle(ctx context.Context, record domain.Record) error {
	payload, err := wire.EncodeRecord(record)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	stderr, err := h.run(ctx, append(payload, '\n'), h.path, h.args...)
	if err != nil {
		if stderr != "" {
			return fmt.Errorf("run plugin %s: %w: %s", h.path, err, stderr)
		}
		return fmt.Errorf("run plugin %s: %w", h.path, err)
	}

	return nil
}

func runExecutable(ctx context.Context, input []byte, path string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(input)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	return strings.TrimSpace(stderr.String()), err
}
