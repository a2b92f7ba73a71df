// Package notify implements the desktop notification handler. It shells out to
// notify-send on Linux and BSDs and to osascript on macOS.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/bnema/alert-bot/internal/adapters/handlers/params"
	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports"
)

const TypeName = "notify"

const (
	defaultAppName = "alert-bot"
	defaultTimeout = 5 * time.Second
)

var ErrUnsupportedPlatform = errors.New("desktop notifications unsupported on this platform")

type runFunc func(ctx context.Context, name string, args ...string) (stderr string, err error)

type Params struct {
	Urgency string        `param:"urgency"`
	AppName string        `param:"app_name"`
	Timeout time.Duration `param:"timeout"`
}

type Handler struct {
	command string
	params  Params
	run     runFunc
}

var _ ports.AlertHandler = (*Handler)(nil)

func commandFor(goos string) (string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "notify-send", nil
	case "darwin":
		return "osascript", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
}

// Available reports whether the notification command exists on this host.
func Available() error {
	name, err := commandFor(runtime.GOOS)
	if err != nil {
		return err
	}
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("locate %s: %w", name, err)
	}

	return nil
}

func New(raw map[string]any) (ports.AlertHandler, error) {
	var p Params
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}

	switch p.Urgency {
	case "":
		p.Urgency = "normal"
	case "low", "normal", "critical":
	default:
		return nil, fmt.Errorf("%w: unknown urgency %q", domain.ErrHandlerMisconfigured, p.Urgency)
	}
	if p.AppName == "" {
		p.AppName = defaultAppName
	}
	if p.Timeout <= 0 {
		p.Timeout = defaultTimeout
	}

	command, err := commandFor(runtime.GOOS)
	if err != nil {
		return nil, err
	}

	return &Handler{command: command, params: p, run: runCommand}, nil
}

func (h *Handler) Handle(ctx context.Context, record domain.Record) error {
	ctx, cancel := context.WithTimeout(ctx, h.params.Timeout)
	defer cancel()

	stderr, err := h.run(ctx, h.command, h.args(record)...)
	if err != nil {
		if stderr != "" {
			return fmt.Errorf("%s: %w: %s", h.command, err, stderr)
		}
		return fmt.Errorf("%s: %w", h.command, err)
	}

	return nil
}

func (h *Handler) args(record domain.Record) []string {
	if h.command == "osascript" {
		script := fmt.Sprintf("display notification %s with title %s subtitle %s",
			appleScriptString(record.Body), appleScriptString(h.params.AppName), appleScriptString(record.Subject))
		return []string{"-e", script}
	}

	return []string{
		"--app-name", h.params.AppName,
		"--urgency", h.params.Urgency,
		"--", record.Subject, record.Body,
	}
}

func appleScriptString(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	return `"` + value + `"`
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	return strings.TrimSpace(stderr.String()), err
}
