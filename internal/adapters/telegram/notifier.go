package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
)

// Notifier delivers queued notifications through the bot's Telegram
// client. It satisfies the worker pool's sender contract.
type Notifier struct {
	api botAPI
}

// NewNotifier builds a notifier sharing the bot's client.
func NewNotifier(b *Bot) *Notifier {
	return &Notifier{api: b.api}
}

// Send pushes one notification to its chat.
func (n *Notifier) Send(ctx context.Context, notification model.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(notification.ChatID, truncate(notification.Text))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
