package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
)

const DefaultURL = "https://api.telegram.org/bot"

// Client talks to the Telegram bot API for one bot token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{baseURL: baseURL, token: token, http: httpClient}
}

type SendOptions struct {
	ParseMode           string
	DisableNotification bool
}

// Chat is a conversation the bot has seen in its pending updates.
type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title,omitempty"`
	Username string `json:"username,omitempty"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

type update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat Chat   `json:"chat"`
	} `json:"message"`
	ChannelPost *struct {
		Chat Chat `json:"chat"`
	} `json:"channel_post"`
}

func (c *Client) endpoint(method string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse telegram url: %w", err)
	}
	u.Path = path.Join(u.Path+c.token, method)

	return u.String(), nil
}

func (c *Client) call(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	endpoint, err := c.endpoint(method)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(payload); err != nil {
		return nil, fmt.Errorf("encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// the url carries the token
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}

	var decoded apiResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("failed to understand telegram response (code %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !decoded.OK {
		return nil, fmt.Errorf("%s error (%d): %s", method, decoded.ErrorCode, decoded.Description)
	}

	return decoded.Result, nil
}

// SendMessage posts text to chatID. chatID is either a numeric id or an
// @channelname.
func (c *Client) SendMessage(ctx context.Context, chatID, text string, opts SendOptions) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if opts.ParseMode != "" {
		payload["parse_mode"] = opts.ParseMode
	}
	if opts.DisableNotification {
		payload["disable_notification"] = true
	}

	_, err := c.call(ctx, "sendMessage", payload)
	return err
}

// ChatUpdates is what one read of the pending updates found. NextOffset
// acknowledges every update read when passed to Acknowledge; it is zero when
// there was nothing to read.
type ChatUpdates struct {
	Chats      []Chat
	Starters   []Chat
	NextOffset int64
}

// Chats lists the distinct chats found in the bot's pending updates, in order
// of first appearance. Starters holds the chats that sent /start.
func (c *Client) Chats(ctx context.Context) (ChatUpdates, error) {
	result, err := c.call(ctx, "getUpdates", map[string]any{"allowed_updates": []string{"message", "channel_post"}})
	if err != nil {
		return ChatUpdates{}, err
	}

	var updates []update
	if err := json.Unmarshal(result, &updates); err != nil {
		return ChatUpdates{}, fmt.Errorf("decode updates: %w", err)
	}

	var found ChatUpdates
	seen := make(map[int64]bool)
	started := make(map[int64]bool)
	for _, u := range updates {
		if u.UpdateID >= found.NextOffset {
			found.NextOffset = u.UpdateID + 1
		}

		var chat Chat
		switch {
		case u.Message != nil:
			chat = u.Message.Chat
			if isStart(u.Message.Text) && !started[chat.ID] {
				started[chat.ID] = true
				found.Starters = append(found.Starters, chat)
			}
		case u.ChannelPost != nil:
			chat = u.ChannelPost.Chat
		default:
			continue
		}
		if !seen[chat.ID] {
			seen[chat.ID] = true
			found.Chats = append(found.Chats, chat)
		}
	}

	return found, nil
}

// Acknowledge marks every update below offset as handled so later reads no
// longer return it.
func (c *Client) Acknowledge(ctx context.Context, offset int64) error {
	if offset <= 0 {
		return nil
	}

	_, err := c.call(ctx, "getUpdates", map[string]any{"offset": offset, "limit": 1, "timeout": 0})
	return err
}

// ReplyChatID answers a /start with the chat's id.
func (c *Client) ReplyChatID(ctx context.Context, chat Chat) error {
	id := strconv.FormatInt(chat.ID, 10)
	return c.SendMessage(ctx, id, "Your chat_id is: "+id, SendOptions{})
}

func isStart(text string) bool {
	command, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	command, _, _ = strings.Cut(command, "@")
	return command == "/start"
}
