package application

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports"
	"go.uber.org/zap"
)

// DispatchResult lists what happened to each handler in a record's dispatch set.
type DispatchResult struct {
	Delivered []string
	Failed    []string
	Missing   []string
}

// Daemon reads channel lines and hands each decoded record to its handlers, one
// line at a time. Failures are logged per line and per handler; they never stop
// the loop.
type Daemon struct {
	registry *Registry
	defaults []string
	channel  ports.ChannelSource
	codec    ports.RecordCodec
	recorder ports.DispatchRecorder
	logger   *zap.Logger
	now      func() time.Time
}

type DaemonOption func(*Daemon)

func WithRecorder(recorder ports.DispatchRecorder) DaemonOption {
	return func(d *Daemon) {
		if recorder != nil {
			d.recorder = recorder
		}
	}
}

func WithLogger(logger *zap.Logger) DaemonOption {
	return func(d *Daemon) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func NewDaemon(registry *Registry, defaults []string, channel ports.ChannelSource, codec ports.RecordCodec, opts ...DaemonOption) *Daemon {
	d := &Daemon{
		registry: registry,
		defaults: append([]string(nil), defaults...),
		channel:  channel,
		codec:    codec,
		recorder: ports.NopRecorder{},
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Run reads the channel until ctx is cancelled, reopening it whenever the last
// writer hangs up. It returns nil on cancellation and an error only when the
// channel cannot be opened or read.
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info("daemon listening", zap.Strings("default_handlers", d.defaults))

	for {
		if ctx.Err() != nil {
			return nil
		}

		reader, err := d.channel.Open(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("open channel: %w", err)
		}
		d.recorder.ChannelOpened()

		err = d.consume(ctx, reader)
		_ = reader.Close()
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read channel: %w", err)
		}

		d.logger.Debug("writers disconnected, reopening channel")
	}
}

func (d *Daemon) consume(ctx context.Context, r io.Reader) error {
	buffered := bufio.NewReader(r)
	for {
		line, err := buffered.ReadBytes('\n')
		if len(line) > 0 {
			d.DispatchLine(ctx, line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// DispatchLine decodes one channel line and dispatches it. Blank lines are
// ignored and malformed lines are dropped.
func (d *Daemon) DispatchLine(ctx context.Context, line []byte) DispatchResult {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return DispatchResult{}
	}

	d.recorder.LineRead()
	d.logger.Debug("got line from channel", zap.ByteString("line", line))

	msg, err := d.codec.Decode(line)
	if err != nil {
		d.recorder.LineMalformed()
		d.logger.Warn("drop malformed line", zap.ByteString("line", line), zap.Error(err))
		return DispatchResult{}
	}

	return d.Dispatch(ctx, msg)
}

// Dispatch delivers msg.Record to every instance in the union of the default
// handlers and msg.Handlers.
func (d *Daemon) Dispatch(ctx context.Context, msg domain.Message) DispatchResult {
	var result DispatchResult

	for _, name := range domain.DispatchSet(d.defaults, msg.Handlers) {
		handler, ok := d.registry.Instance(name)
		if !ok {
			d.recorder.Delivery(name, ports.DeliveryMissing, 0)
			d.logger.Error("handler not found; drop message",
				zap.String("handler", name),
				zap.Stringer("record", msg.Record),
				zap.Error(domain.ErrHandlerNotFound),
			)
			result.Missing = append(result.Missing, name)
			continue
		}

		d.logger.Debug("pass record to handler", zap.String("handler", name))
		started := d.now()
		if err := deliver(ctx, handler, msg.Record); err != nil {
			d.recorder.Delivery(name, ports.DeliveryFailed, d.now().Sub(started))
			d.logger.Error("handler failed",
				zap.String("handler", name),
				zap.Stringer("record", msg.Record),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, name)
			continue
		}

		d.recorder.Delivery(name, ports.DeliveryDelivered, d.now().Sub(started))
		result.Delivered = append(result.Delivered, name)
	}

	return result
}

func deliver(ctx context.Context, handler ports.AlertHandler, record domain.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()

	return handler.Handle(ctx, record)
}
