package alerts

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// LogNotifier writes alerts to the log.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.Named("alert")}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Notify(_ context.Context, a Alert) error {
	n.logger.Warn("ALERT: "+a.Message,
		zap.String("kind", string(a.Kind)),
		zap.Float64("value", a.Value),
		zap.Time("at", a.At))
	return nil
}

// telegramSender is the subset of tgbotapi.BotAPI used for alerts.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends alerts to a Telegram chat.
type TelegramNotifier struct {
	api    telegramSender
	chatID int64
}

// NewTelegramNotifier authorizes the bot token and returns a notifier for chatID.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

func (n *TelegramNotifier) Name() string { return "telegram" }

func (n *TelegramNotifier) Notify(_ context.Context, a Alert) error {
	msg := tgbotapi.NewMessage(n.chatID, "⚠️ Trading Alert: "+a.Message)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
