package scheduler

import (
	"context"
	"fmt"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of the Telegram bot API used for mirroring.
type Sender interface {
	Send(c tg.Chattable) (tg.Message, error)
}

// TelegramAnnouncer mirrors reminder announcements to a Telegram chat.
type TelegramAnnouncer struct {
	bot    Sender
	chatID int64
}

// NewTelegramAnnouncer authorises botToken and returns an announcer for chatID.
func NewTelegramAnnouncer(botToken string, chatID int64) (*TelegramAnnouncer, error) {
	bot, err := tg.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to authorise telegram bot: %w", err)
	}
	bot.Debug = false
	return NewTelegramAnnouncerWithSender(bot, chatID), nil
}

// NewTelegramAnnouncerWithSender uses an already constructed sender.
func NewTelegramAnnouncerWithSender(bot Sender, chatID int64) *TelegramAnnouncer {
	return &TelegramAnnouncer{bot: bot, chatID: chatID}
}

func (t *TelegramAnnouncer) Announce(_ context.Context, message string) error {
	msg := tg.NewMessage(t.chatID, "🔥 "+message)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
