package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchSetUnionWithoutDuplicates(t *testing.T) {
	tests := []struct {
		name     string
		defaults []string
		extra    []string
		want     []string
	}{
		{name: "defaults only", defaults: []string{"logger"}, want: []string{"logger"}},
		{name: "extra only", extra: []string{"print"}, want: []string{"print"}},
		{name: "union", defaults: []string{"logger"}, extra: []string{"print"}, want: []string{"logger", "print"}},
		{name: "overlap", defaults: []string{"logger", "print"}, extra: []string{"print", "tg", "tg"}, want: []string{"logger", "print", "tg"}},
		{name: "empty names dropped", defaults: []string{""}, extra: []string{"", "print"}, want: []string{"print"}},
		{name: "both empty", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DispatchSet(tt.defaults, tt.extra))
		})
	}
}

func TestConfigHandlerConfigForFallsBackToTypeName(t *testing.T) {
	cfg := Config{
		Tool: DefaultToolConfig(),
		Handlers: map[string]HandlerConfig{
			"tg": {Type: "telegram", Config: map[string]any{"token": "t"}},
		},
	}

	assert.Equal(t, HandlerConfig{Type: "telegram", Config: map[string]any{"token": "t"}}, cfg.HandlerConfigFor("tg"))
	assert.Equal(t, HandlerConfig{Type: "print", Config: map[string]any{}}, cfg.HandlerConfigFor("print"))
}

func TestConfigInstanceNames(t *testing.T) {
	cfg := Config{
		Tool: ToolConfig{DefaultHandlers: []string{"logger", "print"}},
		Handlers: map[string]HandlerConfig{
			"print": {Type: "print"},
			"tg":    {Type: "telegram"},
		},
	}

	assert.ElementsMatch(t, []string{"logger", "print", "tg"}, cfg.InstanceNames())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultChannelPath, cfg.Tool.ChannelPath)
	assert.Equal(t, []string{"logger"}, cfg.Tool.DefaultHandlers)
	assert.Equal(t, DefaultPIDFile, cfg.Tool.PIDFile)
	assert.False(t, cfg.Tool.AllowPlugins)
	assert.Equal(t, "INFO", cfg.Tool.Logging.Level)
	assert.Empty(t, cfg.Handlers)
}
