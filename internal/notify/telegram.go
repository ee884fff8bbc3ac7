package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const telegramAPI = "https://api.telegram.org"

// ErrNotConfigured means no bot token was provided.
var ErrNotConfigured = errors.New("telegram bot token is not configured")

// TelegramNotifier sends messages through the Telegram Bot API.
type TelegramNotifier struct {
	rc    *resty.Client
	token string
}

type TelegramOption func(*TelegramNotifier)

func WithBaseURL(url string) TelegramOption {
	return func(n *TelegramNotifier) { n.rc.SetBaseURL(strings.TrimRight(url, "/")) }
}

func WithTimeout(d time.Duration) TelegramOption {
	return func(n *TelegramNotifier) { n.rc.SetTimeout(d) }
}

func NewTelegramNotifier(token string, opts ...TelegramOption) *TelegramNotifier {
	n := &TelegramNotifier{
		rc:    resty.New().SetBaseURL(telegramAPI).SetTimeout(10 * time.Second),
		token: token,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type sendMessageRequest struct {
	ChatID                int64  `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (n *TelegramNotifier) Send(ctx context.Context, chatID int64, text string) error {
	if n.token == "" {
		return ErrNotConfigured
	}

	var result sendMessageResponse
	resp, err := n.rc.R().
		SetContext(ctx).
		SetBody(sendMessageRequest{
			ChatID:                chatID,
			Text:                  text,
			ParseMode:             "Markdown",
			DisableWebPagePreview: false,
		}).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/bot%s/sendMessage", n.token))

	if err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}
	if resp.IsError() || !result.OK {
		desc := result.Description
		if desc == "" {
			desc = resp.Status()
		}
		return fmt.Errorf("telegram send rejected: %s", desc)
	}

	return nil
}
