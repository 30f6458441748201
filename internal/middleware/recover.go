package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Recover returns middleware that recovers from handler panics. The chat
// that triggered the panic is told something went wrong; onPanic, if set,
// receives the recovered value for out-of-band reporting.
func Recover(onPanic func(ctx context.Context, recovered any)) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				info := describe(update)
				slog.Error("panic recovered in handler",
					"panic", r,
					"type", info.kind,
					"command", info.command,
					"user_id", info.userID,
					"stack", string(debug.Stack()),
				)
				if info.chatID != 0 {
					b.SendMessage(ctx, &bot.SendMessageParams{
						ChatID: info.chatID,
						Text:   "⚠️ Something went wrong. Please try again.",
					})
				}
				if onPanic != nil {
					onPanic(ctx, r)
				}
			}()
			next(ctx, b, update)
		}
	}
}
