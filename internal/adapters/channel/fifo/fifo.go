package fifo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports"
	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sys/unix"
)

const (
	fifoMode           = 0o600
	fifoDirMode        = 0o700
	writerOpenTimeout  = 2 * time.Second
	pendingOpenTimeout = time.Second
)

type State string

const (
	StateMissing State = "missing"
	StateFIFO    State = "fifo"
	StateInvalid State = "not a fifo"
)

// Stat reports what currently occupies path.
func Stat(path string) (State, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return StateMissing, nil
		}
		return "", fmt.Errorf("stat channel: %w", err)
	}
	if info.Mode()&os.ModeNamedPipe == 0 {
		return StateInvalid, nil
	}

	return StateFIFO, nil
}

// EnsureExists creates the fifo at path unless one is already there. It does not
// take ownership of the fifo.
func EnsureExists(path string) error {
	state, err := Stat(path)
	if err != nil {
		return err
	}
	switch state {
	case StateFIFO:
		return nil
	case StateInvalid:
		return fmt.Errorf("%w: %s", domain.ErrNotAChannel, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), fifoDirMode); err != nil {
		return fmt.Errorf("create channel directory: %w", err)
	}
	if err := unix.Mkfifo(path, fifoMode); err != nil {
		if errors.Is(err, unix.EEXIST) {
			return EnsureExists(path)
		}
		return fmt.Errorf("create channel %s: %w", path, err)
	}

	return nil
}

// Channel is the reading end owned by the daemon. Release removes the fifo.
type Channel struct {
	path       string
	once       sync.Once
	releaseErr error
}

var _ ports.ChannelSource = (*Channel)(nil)

func Acquire(path string) (*Channel, error) {
	path = filepath.Clean(path)
	if err := EnsureExists(path); err != nil {
		return nil, err
	}

	return &Channel{path: path}, nil
}

func (c *Channel) Path() string {
	return c.path
}

type openResult struct {
	file *os.File
	err  error
}

// Open blocks until a writer connects or ctx is cancelled. The returned reader is
// closed when ctx is cancelled, which unblocks a pending read.
func (c *Channel) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opened := make(chan openResult, 1)
	go func() {
		file, err := os.OpenFile(c.path, os.O_RDONLY, 0)
		opened <- openResult{file: file, err: err}
	}()

	select {
	case res := <-opened:
		if res.err != nil {
			return nil, fmt.Errorf("open channel for reading: %w", res.err)
		}
		return newReader(ctx, res.file), nil
	case <-ctx.Done():
		connectAndHangUp(c.path)
		select {
		case res := <-opened:
			if res.file != nil {
				_ = res.file.Close()
			}
		case <-time.After(pendingOpenTimeout):
		}
		return nil, ctx.Err()
	}
}

// Release removes the fifo from the filesystem. Safe to call more than once.
func (c *Channel) Release() error {
	c.once.Do(func() {
		err := os.Remove(c.path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			c.releaseErr = fmt.Errorf("remove channel: %w", err)
		}
	})

	return c.releaseErr
}

// connectAndHangUp releases a reader blocked in open(2).
func connectAndHangUp(path string) {
	file, err := os.OpenFile(path, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err == nil {
		_ = file.Close()
	}
}

type reader struct {
	*os.File
	stop func() bool
}

func newReader(ctx context.Context, file *os.File) *reader {
	return &reader{
		File: file,
		stop: context.AfterFunc(ctx, func() { _ = file.Close() }),
	}
}

func (r *reader) Close() error {
	r.stop()
	err := r.File.Close()
	if errors.Is(err, os.ErrClosed) {
		return nil
	}

	return err
}

// WriterOpener is the producer side. It never creates the fifo.
type WriterOpener struct {
	path    string
	timeout time.Duration
}

var _ ports.ChannelWriterOpener = (*WriterOpener)(nil)

func NewWriterOpener(path string) *WriterOpener {
	return &WriterOpener{path: filepath.Clean(path), timeout: writerOpenTimeout}
}

// OpenWriter opens the fifo for writing, retrying while no reader is attached.
func (w *WriterOpener) OpenWriter(ctx context.Context) (io.WriteCloser, error) {
	state, err := Stat(w.path)
	if err != nil {
		return nil, err
	}
	switch state {
	case StateMissing:
		return nil, fmt.Errorf("%w: %s", domain.ErrChannelNotFound, w.path)
	case StateInvalid:
		return nil, fmt.Errorf("%w: %s", domain.ErrNotAChannel, w.path)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 20 * time.Millisecond
	policy.MaxInterval = 250 * time.Millisecond

	file, err := backoff.Retry(ctx, func() (*os.File, error) {
		file, err := os.OpenFile(w.path, os.O_WRONLY|unix.O_NONBLOCK, 0)
		if err == nil {
			return file, nil
		}
		if errors.Is(err, unix.ENXIO) {
			return nil, domain.ErrNoReader
		}
		return nil, backoff.Permanent(fmt.Errorf("open channel for writing: %w", err))
	}, backoff.WithBackOff(policy), backoff.WithMaxElapsedTime(w.timeout))
	if err != nil {
		return nil, err
	}

	return file, nil
}

// Inspector is the ports.ChannelInspector backed by Stat.
type Inspector struct{}

func (Inspector) State(path string) (string, error) {
	state, err := Stat(path)
	return string(state), err
}
