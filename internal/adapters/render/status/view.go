package status

import (
	"fmt"
	"strings"

	"github.com/bnema/alert-bot/internal/application"
	"github.com/charmbracelet/lipgloss"
)

func renderView(status application.Status, s styles) string {
	lines := []string{
		s.title.Render("alert-bot status"),
		field("config", s.detail.Render(orNone(status.ConfigPath)), s),
		field("daemon", daemonLine(status.Daemon, s), s),
		field("pid file", s.detail.Render(status.Daemon.PIDFile), s),
		field("channel", channelLine(status.Channel, s), s),
		s.section.Render(handlersBlock(status, s)),
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func field(label, value string, s styles) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.label.Render(fmt.Sprintf("%-9s", label+":")), " ", value)
}

func daemonLine(daemon application.DaemonStatus, s styles) string {
	switch {
	case daemon.Running:
		return s.ok.Render("running") + s.detail.Render(fmt.Sprintf(" (pid %d)", daemon.PID))
	case daemon.PID > 0:
		return s.warning.Render("stopped") + s.tag.Render(fmt.Sprintf(" (stale pid %d)", daemon.PID))
	default:
		return s.warning.Render("stopped")
	}
}

func channelLine(channel application.ChannelStatus, s styles) string {
	path := s.detail.Render(channel.Path)
	switch {
	case channel.Error != "":
		return path + " " + s.warning.Render(channel.Error)
	case channel.State == "fifo":
		return path + " " + s.ok.Render("fifo")
	case channel.State == "missing":
		return path + " " + s.tag.Render("missing")
	default:
		return path + " " + s.warning.Render(channel.State)
	}
}

func handlersBlock(status application.Status, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("handlers (%d)", len(status.Instances))),
	}

	if len(status.Instances) == 0 {
		lines = append(lines, s.empty.Render("No handlers configured."))
	}

	width := 0
	for _, instance := range status.Instances {
		width = max(width, len(instance.Name))
	}

	for _, instance := range status.Instances {
		line := "  " + s.name.Render(fmt.Sprintf("%-*s", width, instance.Name)) + "  " + s.detail.Render(instance.Type)
		if instance.Default {
			line += " " + s.tag.Render("[default]")
		}
		if !instance.Known {
			line += " " + s.warning.Render("[unknown type]")
		}
		lines = append(lines, line)
	}

	lines = append(lines, field("types", s.tag.Render(orNone(strings.Join(status.HandlerTypes, ", "))), s))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func orNone(value string) string {
	if value == "" {
		return "none"
	}
	return value
}
