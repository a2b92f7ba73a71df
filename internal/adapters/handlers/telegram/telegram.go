// Package telegram implements the Telegram bot handler and the small slice of
// the bot API it needs.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bnema/alert-bot/internal/adapters/handlers/params"
	"github.com/bnema/alert-bot/internal/adapters/wire"
	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports"
)

const (
	TypeName         = "telegram"
	DefaultParseMode = "Markdown"
	defaultTimeout   = 10 * time.Second
)

type Params struct {
	Token               string        `param:"token"`
	ChatID              string        `param:"chat_id"`
	URL                 string        `param:"url"`
	ParseMode           string        `param:"parse_mode"`
	DisableNotification bool          `param:"disable_notification"`
	Timeout             time.Duration `param:"timeout"`
}

type Handler struct {
	client *Client
	chatID string
	opts   SendOptions
}

var _ ports.AlertHandler = (*Handler)(nil)

// ParseParams validates telegram parameters and fills in defaults.
func ParseParams(raw map[string]any) (Params, error) {
	var p Params
	if err := params.Decode(raw, &p, "token", "chat_id"); err != nil {
		return Params{}, err
	}

	if p.URL == "" {
		p.URL = DefaultURL
	}
	if _, err := url.Parse(p.URL); err != nil {
		return Params{}, fmt.Errorf("%w: invalid url: %w", domain.ErrHandlerMisconfigured, err)
	}

	switch p.ParseMode {
	case "":
		p.ParseMode = DefaultParseMode
	case "Markdown", "MarkdownV2", "HTML":
	default:
		return Params{}, fmt.Errorf("%w: parse_mode %q is not one of Markdown, MarkdownV2, HTML", domain.ErrHandlerMisconfigured, p.ParseMode)
	}

	if p.Timeout <= 0 {
		p.Timeout = defaultTimeout
	}

	return p, nil
}

func New(raw map[string]any) (ports.AlertHandler, error) {
	p, err := ParseParams(raw)
	if err != nil {
		return nil, err
	}

	return NewWithClient(NewClient(p.URL, p.Token, &http.Client{Timeout: p.Timeout}), p), nil
}

func NewWithClient(client *Client, p Params) *Handler {
	return &Handler{
		client: client,
		chatID: p.ChatID,
		opts:   SendOptions{ParseMode: p.ParseMode, DisableNotification: p.DisableNotification},
	}
}

func (h *Handler) Handle(ctx context.Context, record domain.Record) error {
	if err := h.client.SendMessage(ctx, h.chatID, FormatMessage(record), h.opts); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	return nil
}

// FormatMessage renders record as the Markdown text sent to the chat.
func FormatMessage(record domain.Record) string {
	return fmt.Sprintf("message from %s:\n*subject*: %s\n*body*:\n```\n%s\n```",
		wire.FormatTimestamp(record.Timestamp), record.Subject, record.Body)
}
