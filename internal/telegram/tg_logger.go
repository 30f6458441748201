package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/healthconnect/internal/config"
	"github.com/set-night/healthconnect/internal/domain"
)

// TelegramLogger mirrors notable events into topics of a log chat.
type TelegramLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewTelegramLogger(b *bot.Bot, cfg *config.Config) *TelegramLogger {
	return &TelegramLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError          LogType = "error"
	LogTypeRegistration   LogType = "registration"
	LogTypeTierChange     LogType = "tierChange"
	LogTypeSessionExpired LogType = "sessionExpired"
)

func (l *TelegramLogger) Log(logType LogType, message string) {
	if l == nil || l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.topicID(logType)
	if topicID == 0 {
		return
	}

	if r := []rune(message); len(r) > config.MaxTelegramMessageLen {
		message = string(r[:config.MaxTelegramMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       models.ParseModeMarkdownV1,
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *TelegramLogger) LogError(err error, where string) {
	msg := fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* `%s`\n*Time:* %s",
		EscapeMarkdown(where), err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

func (l *TelegramLogger) LogRegistration(user *domain.User) {
	msg := fmt.Sprintf("👤 *New Registration*\n\n*ID:* `%d`\n*Name:* %s\n*Tier:* %s",
		user.TelegramID, EscapeMarkdown(user.FirstName), user.Tier)
	if user.Username != "" {
		msg += "\n*Username:* @" + EscapeMarkdown(user.Username)
	}
	l.Log(LogTypeRegistration, msg)
}

func (l *TelegramLogger) LogTierChange(admin, target *domain.User, from, to domain.Tier) {
	msg := fmt.Sprintf("⭐ *Tier Change*\n\n*User:* `%d`\n*From:* %s\n*To:* %s\n*By:* `%d`",
		target.TelegramID, from, to, admin.TelegramID)
	l.Log(LogTypeTierChange, msg)
}

func (l *TelegramLogger) LogSessionExpired(user *domain.User, mode domain.ChatMode) {
	msg := fmt.Sprintf("⌛ *Session Expired*\n\n*User:* `%d`\n*Mode:* %s\n*Model:* `%s`",
		user.TelegramID, mode.Title(), user.SelectedModel)
	l.Log(LogTypeSessionExpired, msg)
}

func (l *TelegramLogger) topicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeRegistration:
		return l.cfg.LogTopicRegistration
	case LogTypeTierChange:
		return l.cfg.LogTopicTierChange
	case LogTypeSessionExpired:
		return l.cfg.LogTopicSessionExpired
	default:
		return 0
	}
}
