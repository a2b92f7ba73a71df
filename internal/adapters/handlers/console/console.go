// Package console implements the print handler: each record is written to a
// standard stream as one JSON object per line.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/bnema/alert-bot/internal/adapters/handlers/params"
	"github.com/bnema/alert-bot/internal/adapters/wire"
	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports"
)

const TypeName = "print"

const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
)

type Params struct {
	Stream string `param:"stream"`
}

type Handler struct {
	mu  sync.Mutex
	out io.Writer
}

var _ ports.AlertHandler = (*Handler)(nil)

// New builds a print handler from its configured parameters.
func New(raw map[string]any) (ports.AlertHandler, error) {
	var p Params
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}

	switch p.Stream {
	case "", StreamStdout:
		return NewWriter(os.Stdout), nil
	case StreamStderr:
		return NewWriter(os.Stderr), nil
	default:
		return nil, fmt.Errorf("%w: unknown stream %q", domain.ErrHandlerMisconfigured, p.Stream)
	}
}

func NewWriter(out io.Writer) *Handler {
	return &Handler{out: out}
}

func (h *Handler) Handle(_ context.Context, record domain.Record) error {
	data, err := wire.EncodeRecord(record)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	return nil
}
