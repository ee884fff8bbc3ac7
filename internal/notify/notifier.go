// Package notify delivers alert messages to users over the Telegram Bot API.
package notify

import "context"

// Notifier delivers one message to one recipient. Transport failures and
// rejected recipients are both plain errors; callers do not retry within
// the same cycle.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}
