// Package telegram provides a Telegram Bot API transport for arrival
// notifications, used for students who registered a chat with the
// Tutorrito bot.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tutorrito/arrival-notifier/internal/model"
)

// Client represents a Telegram client used to send notifications.
type Client struct {
	token  string       // bot token for authentication
	client *http.Client // HTTP client used to make requests
}

// NewClient creates a new Telegram Client instance with the given bot token.
func NewClient(token string) *Client {
	return &Client{
		token:  token,
		client: &http.Client{},
	}
}

// sendMessageRequest represents the payload for the Telegram sendMessage API.
type sendMessageRequest struct {
	ChatID string `json:"chat_id"` // chat id to send message to
	Text   string `json:"text"`    // message text
}

// Send delivers the payload to the recipient's Telegram chat.
//
// A 4xx response (other than 429) means the API permanently refused the chat
// or the content and is wrapped in model.ErrDeliveryRejected; 429 and 5xx
// are transient.
func (c *Client) Send(ctx context.Context, p model.Payload) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", c.token)

	reqBody := sendMessageRequest{
		ChatID: p.To,
		Text:   p.Subject + "\n\n" + p.TextBody,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return fmt.Errorf("%w: telegram API error: %s", model.ErrDeliveryRejected, resp.Status)
	}

	return fmt.Errorf("telegram API error: %s", resp.Status)
}
