package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
)

type fakeProcesses struct {
	pid   int
	found bool
	alive bool
}

func (f fakeProcesses) ReadPID(string) (int, bool) { return f.pid, f.found }
func (f fakeProcesses) ProcessExists(int) bool     { return f.alive }

type fakeChannels struct {
	state string
	err   error
}

func (f fakeChannels) State(string) (string, error) { return f.state, f.err }

func TestStatusSnapshotRunningDaemon(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil)
	registry.RegisterType("logger", constructorFor(mocks.NewMockAlertHandler(t)))
	registry.RegisterType("print", constructorFor(mocks.NewMockAlertHandler(t)))

	cfg := domain.DefaultConfig()
	cfg.Handlers = map[string]domain.HandlerConfig{
		"stderr": {Type: "print"},
		"chat":   {Type: "telegram"},
	}

	service := NewStatusService(registry, fakeProcesses{pid: 4242, found: true, alive: true}, fakeChannels{state: "fifo"})
	status := service.Snapshot(context.Background(), "/etc/alert-bot.toml", cfg)

	assert.Equal(t, "/etc/alert-bot.toml", status.ConfigPath)
	assert.Equal(t, DaemonStatus{Running: true, PID: 4242, PIDFile: domain.DefaultPIDFile}, status.Daemon)
	assert.Equal(t, ChannelStatus{Path: domain.DefaultChannelPath, State: "fifo"}, status.Channel)
	assert.Equal(t, []string{"logger"}, status.DefaultHandlers)
	assert.Equal(t, []string{"logger", "print"}, status.HandlerTypes)
	assert.Equal(t, []InstanceStatus{
		{Name: "logger", Type: "logger", Default: true, Known: true},
		{Name: "chat", Type: "telegram", Known: false},
		{Name: "stderr", Type: "print", Known: true},
	}, status.Instances)
}

func TestStatusSnapshotStoppedDaemon(t *testing.T) {
	t.Parallel()

	service := NewStatusService(NewRegistry(nil), fakeProcesses{pid: 7, found: true}, fakeChannels{state: "", err: errors.New("stat channel: permission denied")})
	status := service.Snapshot(context.Background(), "", domain.DefaultConfig())

	assert.False(t, status.Daemon.Running)
	assert.Equal(t, 7, status.Daemon.PID)
	assert.Equal(t, "stat channel: permission denied", status.Channel.Error)
}
