// Package notify pushes operator alerts to a Telegram chat. It is
// optional: a nil *Notifier is safe to call and does nothing, so the
// agent never has to branch on whether alerts are configured.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

func New(token string, chatID int64, logger *zap.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}

	return &Notifier{
		api:    api,
		chatID: chatID,
		logger: logger,
	}, nil
}

// Notify sends a plain-text alert. Send failures are logged, never returned:
// alerting must not affect the agent loop.
func (n *Notifier) Notify(text string) {
	if n == nil {
		return
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Error("Failed to send operator alert",
			zap.Error(err),
			zap.Int64("chat_id", n.chatID))
	}
}

// Notifyf formats and sends an alert.
func (n *Notifier) Notifyf(format string, args ...interface{}) {
	if n == nil {
		return
	}
	n.Notify(fmt.Sprintf(format, args...))
}
