package application

import (
	"context"

	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports"
)

type DaemonStatus struct {
	Running bool   `json:"running"`
	PID     int    `json:"pid,omitempty"`
	PIDFile string `json:"pid_file"`
}

type ChannelStatus struct {
	Path  string `json:"path"`
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

type InstanceStatus struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default bool   `json:"default"`
	Known   bool   `json:"known"`
}

type Status struct {
	ConfigPath      string           `json:"config_path"`
	Daemon          DaemonStatus     `json:"daemon"`
	Channel         ChannelStatus    `json:"channel"`
	DefaultHandlers []string         `json:"default_handlers"`
	Instances       []InstanceStatus `json:"instances"`
	HandlerTypes    []string         `json:"handler_types"`
}

type StatusService struct {
	registry  *Registry
	processes ports.ProcessInspector
	channels  ports.ChannelInspector
}

func NewStatusService(registry *Registry, processes ports.ProcessInspector, channels ports.ChannelInspector) *StatusService {
	return &StatusService{registry: registry, processes: processes, channels: channels}
}

// Snapshot reports daemon liveness, channel state and the handler instances cfg
// would create. It never opens the channel.
func (s *StatusService) Snapshot(_ context.Context, configPath string, cfg domain.Config) Status {
	status := Status{
		ConfigPath:      configPath,
		Daemon:          DaemonStatus{PIDFile: cfg.Tool.PIDFile},
		Channel:         ChannelStatus{Path: cfg.Tool.ChannelPath},
		DefaultHandlers: append([]string{}, cfg.Tool.DefaultHandlers...),
		HandlerTypes:    s.registry.TypeNames(),
	}

	if pid, ok := s.processes.ReadPID(cfg.Tool.PIDFile); ok {
		status.Daemon.PID = pid
		status.Daemon.Running = s.processes.ProcessExists(pid)
	}

	state, err := s.channels.State(cfg.Tool.ChannelPath)
	status.Channel.State = state
	if err != nil {
		status.Channel.Error = err.Error()
	}

	defaults := make(map[string]bool, len(cfg.Tool.DefaultHandlers))
	for _, name := range cfg.Tool.DefaultHandlers {
		defaults[name] = true
	}

	for _, name := range cfg.InstanceNames() {
		hc := cfg.HandlerConfigFor(name)
		_, known := s.registry.Type(hc.Type)
		status.Instances = append(status.Instances, InstanceStatus{
			Name:    name,
			Type:    hc.Type,
			Default: defaults[name],
			Known:   known,
		})
	}

	return status
}
