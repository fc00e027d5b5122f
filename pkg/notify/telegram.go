package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultTelegramAPI = "https://api.telegram.org"

// Telegram sends messages through the Telegram bot sendMessage endpoint.
type Telegram struct {
	Token  string
	ChatID string

	// BaseURL and HTTP are overridable for tests.
	BaseURL string
	HTTP    *http.Client
}

type telegramSendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// NewTelegram builds a notifier for the given bot token and chat.
func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		Token:   token,
		ChatID:  chatID,
		BaseURL: defaultTelegramAPI,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts the message. A non-2xx response is an error; the caller decides
// whether delivery failure matters.
func (t *Telegram) Send(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, url.PathEscape(t.Token))
	body, err := json.Marshal(telegramSendMessageRequest{ChatID: t.ChatID, Text: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram send: http %d", resp.StatusCode)
	}
	return nil
}
