package pidfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports"
	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"
)

const (
	pidFileMode = 0o644
	pidDirMode  = 0o755
	lockSuffix  = ".lock"
)

// File is a pid file held by a running daemon.
type File struct {
	path string
	lock *flock.Flock
}

// Create takes the daemon lock next to path and records the current pid.
func Create(path string) (*File, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), pidDirMode); err != nil {
		return nil, fmt.Errorf("create pid file directory: %w", err)
	}

	lock := flock.New(path + lockSuffix)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock pid file: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (pid file %s)", domain.ErrDaemonAlreadyRunning, path)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), pidFileMode); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("write pid file: %w", err)
	}

	return &File{path: path, lock: lock}, nil
}

func (f *File) Path() string {
	return f.path
}

// Remove deletes the pid file and releases the lock.
func (f *File) Remove() error {
	var errs []error
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, fmt.Errorf("remove pid file: %w", err))
	}
	if err := f.lock.Unlock(); err != nil {
		errs = append(errs, fmt.Errorf("unlock pid file: %w", err))
	}

	return errors.Join(errs...)
}

// ReadPID returns the pid recorded at path, or false when the file is missing,
// empty or not a positive integer.
func ReadPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}

	return pid, true
}

// ProcessExists sends the null signal to pid.
func ProcessExists(pid int) bool {
	if pid <= 0 {
		return false
	}

	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

// IsReady reports whether the pid file at path names a live process.
func IsReady(path string) bool {
	pid, ok := ReadPID(path)
	if !ok {
		return false
	}

	return ProcessExists(pid)
}

// Probe adapts IsReady to ports.LivenessProbe for a fixed path.
type Probe struct {
	Path string
}

var _ ports.LivenessProbe = Probe{}

func (p Probe) IsReady() bool {
	return IsReady(p.Path)
}

// Inspector is the ports.ProcessInspector backed by ReadPID and ProcessExists.
type Inspector struct{}

func (Inspector) ReadPID(path string) (int, bool) { return ReadPID(path) }

func (Inspector) ProcessExists(pid int) bool { return ProcessExists(pid) }
