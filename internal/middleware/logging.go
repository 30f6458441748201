package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Logging returns middleware that logs each update with its command and
// processing time.
func Logging() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()
			info := describe(update)

			next(ctx, b, update)

			slog.Debug("update processed",
				"type", info.kind,
				"command", info.command,
				"chat_id", info.chatID,
				"user_id", info.userID,
				"duration", time.Since(start),
			)
		}
	}
}

type updateInfo struct {
	kind    string
	command string
	chatID  int64
	userID  int64
}

func describe(update *models.Update) updateInfo {
	info := updateInfo{kind: "unknown"}
	switch {
	case update.Message != nil:
		info.kind = "message"
		info.chatID = update.Message.Chat.ID
		if update.Message.From != nil {
			info.userID = update.Message.From.ID
		}
		if strings.HasPrefix(update.Message.Text, "/") {
			info.command, _, _ = strings.Cut(update.Message.Text, " ")
		}
	case update.CallbackQuery != nil:
		info.kind = "callback_query"
		if update.CallbackQuery.Message.Message != nil {
			info.chatID = update.CallbackQuery.Message.Message.Chat.ID
		}
		info.userID = update.CallbackQuery.From.ID
		info.command, _, _ = strings.Cut(update.CallbackQuery.Data, ":")
	}
	return info
}
