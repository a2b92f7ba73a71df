// Package webhook implements a handler that POSTs each record as JSON to an
// HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bnema/alert-bot/internal/adapters/handlers/params"
	"github.com/bnema/alert-bot/internal/adapters/wire"
	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports"
)

const (
	TypeName       = "webhook"
	defaultTimeout = 10 * time.Second
)

type Params struct {
	URL     string            `param:"url"`
	Headers map[string]string `param:"headers"`
	Timeout time.Duration     `param:"timeout"`
}

type Handler struct {
	endpoint string
	headers  map[string]string
	http     *http.Client
}

var _ ports.AlertHandler = (*Handler)(nil)

func New(raw map[string]any) (ports.AlertHandler, error) {
	var p Params
	if err := params.Decode(raw, &p, "url"); err != nil {
		return nil, err
	}

	u, err := url.Parse(p.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: url must be an absolute http(s) url", domain.ErrHandlerMisconfigured)
	}
	if p.Timeout <= 0 {
		p.Timeout = defaultTimeout
	}

	return NewWithClient(p.URL, p.Headers, &http.Client{Timeout: p.Timeout}), nil
}

func NewWithClient(endpoint string, headers map[string]string, client *http.Client) *Handler {
	if client == nil {
		client = http.DefaultClient
	}

	return &Handler{endpoint: endpoint, headers: headers, http: client}
}

func (h *Handler) Handle(ctx context.Context, record domain.Record) error {
	payload, err := wire.EncodeRecord(record)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "alert-bot")
	for key, value := range h.headers {
		req.Header.Set(key, value)
	}

	resp, err := h.http.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post webhook: unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
