package pidfile

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/bnema/alert-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nonexistentPID is above the kernel's maximum pid (4194304 on 64-bit Linux).
const nonexistentPID = 1 << 30

func TestIsReady(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.pid"), want: false},
		{name: "empty file", path: write("empty.pid", ""), want: false},
		{name: "non-numeric", path: write("garbage.pid", "not-a-pid"), want: false},
		{name: "zero", path: write("zero.pid", "0"), want: false},
		{name: "negative", path: write("negative.pid", "-1"), want: false},
		{name: "dead process", path: write("dead.pid", strconv.Itoa(nonexistentPID)), want: false},
		{name: "live process", path: write("live.pid", strconv.Itoa(os.Getpid())), want: true},
		{name: "live process with newline", path: write("live-nl.pid", strconv.Itoa(os.Getpid())+"\n"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReady(tt.path))
			assert.Equal(t, tt.want, Probe{Path: tt.path}.IsReady())
		})
	}
}

func TestCreateWritesPidAndRemoveCleansUp(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "daemon.pid")

	file, err := Create(path)
	require.NoError(t, err)
	assert.Equal(t, path, file.Path())
	assert.True(t, IsReady(path))

	pid, ok := ReadPID(path)
	require.True(t, ok)
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, file.Remove())
	assert.False(t, IsReady(path))
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCreateRefusesSecondDaemon(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "daemon.pid")

	first, err := Create(path)
	require.NoError(t, err)

	_, err = Create(path)
	require.ErrorIs(t, err, domain.ErrDaemonAlreadyRunning)

	require.NoError(t, first.Remove())

	second, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, second.Remove())
}
