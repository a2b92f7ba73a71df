package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/alert-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerSendsFormattedMessage(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer server.Close()

	handler, err := New(map[string]any{
		"token":                "123:abc",
		"chat_id":              int64(-1001),
		"url":                  server.URL + "/bot",
		"disable_notification": true,
	})
	require.NoError(t, err)

	record := domain.NewRecord("backup", "done", time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, handler.Handle(context.Background(), record))

	assert.Equal(t, "/bot123:abc/sendMessage", gotPath)
	assert.Equal(t, map[string]any{
		"chat_id":              "-1001",
		"text":                 "message from 2024-01-01T08:00:00Z:\n*subject*: backup\n*body*:\n```\ndone\n```",
		"parse_mode":           "Markdown",
		"disable_notification": true,
	}, gotBody)
}

func TestHandlerReportsAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer server.Close()

	handler, err := New(map[string]any{"token": "t", "chat_id": "42", "url": server.URL + "/bot"})
	require.NoError(t, err)

	err = handler.Handle(context.Background(), domain.NewRecord("s", "b", time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestHandlerReportsGarbledResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer server.Close()

	handler, err := New(map[string]any{"token": "t", "chat_id": "42", "url": server.URL + "/bot"})
	require.NoError(t, err)

	err = handler.Handle(context.Background(), domain.NewRecord("s", "b", time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to understand telegram response")
}

func TestParseParams(t *testing.T) {
	t.Parallel()

	p, err := ParseParams(map[string]any{"token": "t", "chat_id": 7})
	require.NoError(t, err)
	assert.Equal(t, Params{
		Token:     "t",
		ChatID:    "7",
		URL:       DefaultURL,
		ParseMode: DefaultParseMode,
		Timeout:   defaultTimeout,
	}, p)

	_, err = ParseParams(map[string]any{"token": "t"})
	assert.ErrorIs(t, err, domain.ErrHandlerMisconfigured)

	_, err = ParseParams(map[string]any{"token": "t", "chat_id": 7, "parse_mode": "BBCode"})
	assert.ErrorIs(t, err, domain.ErrHandlerMisconfigured)

	_, err = ParseParams(map[string]any{"token": "t", "chat_id": 7, "channel": "x"})
	assert.ErrorIs(t, err, domain.ErrHandlerMisconfigured)
}

func TestClientChats(t *testing.T) {
	t.Parallel()

	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		_, _ = w.Write([]byte(`{"ok":true,"result":[
			{"update_id":1,"message":{"text":"/start","chat":{"id":10,"type":"private","username":"ops"}}},
			{"update_id":2,"message":{"text":"hello","chat":{"id":10,"type":"private","username":"ops"}}},
			{"update_id":3,"channel_post":{"chat":{"id":-100,"type":"channel","title":"alerts"}}},
			{"update_id":4,"message":{"text":"/start@alert_bot","chat":{"id":20,"type":"group","title":"team"}}},
			{"update_id":5,"edited_message":{"chat":{"id":30}}}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/bot", "t0k", server.Client())
	found, err := client.Chats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Chat{
		{ID: 10, Type: "private", Username: "ops"},
		{ID: -100, Type: "channel", Title: "alerts"},
		{ID: 20, Type: "group", Title: "team"},
	}, found.Chats)
	assert.Equal(t, []Chat{
		{ID: 10, Type: "private", Username: "ops"},
		{ID: 20, Type: "group", Title: "team"},
	}, found.Starters)
	assert.Equal(t, int64(6), found.NextOffset)
	assert.Equal(t, []string{"/bott0k/getUpdates"}, calls)
}

func TestClientAcknowledgeSendsOffset(t *testing.T) {
	t.Parallel()

	var payloads []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		payloads = append(payloads, payload)
		_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/bot", "t0k", server.Client())
	require.NoError(t, client.Acknowledge(context.Background(), 0))
	require.NoError(t, client.Acknowledge(context.Background(), 6))

	require.Len(t, payloads, 1)
	assert.Equal(t, float64(6), payloads[0]["offset"])
}

func TestIsStart(t *testing.T) {
	t.Parallel()

	assert.True(t, isStart("/start"))
	assert.True(t, isStart("/start payload"))
	assert.True(t, isStart("/start@alert_bot"))
	assert.False(t, isStart("/started"))
	assert.False(t, isStart("start"))
}
