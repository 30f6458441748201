package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per chat.
type Limiter struct {
	mu      sync.Mutex
	perChat map[int64]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewLimiter allows perMinute messages per chat on average, with bursts of
// up to burst messages.
func NewLimiter(perMinute, burst int) *Limiter {
	return &Limiter{
		perChat: make(map[int64]*rate.Limiter),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   burst,
	}
}

// Allow takes a token from the chat's bucket.
func (l *Limiter) Allow(chatID int64) bool {
	l.mu.Lock()
	lim, ok := l.perChat[chatID]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.perChat[chatID] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// Prune drops buckets that have refilled completely.
func (l *Limiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for id, lim := range l.perChat {
		if lim.Tokens() >= float64(l.burst) {
			delete(l.perChat, id)
			n++
		}
	}
	return n
}

// RateLimit returns middleware that drops messages over the chat's limit.
// Callbacks and other updates pass through.
func RateLimit(l *Limiter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			if !l.Allow(chatID) {
				slog.Debug("rate limited", "chat_id", chatID)
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   "⏳ Too many requests. Please wait a moment.",
				})
				return
			}

			next(ctx, b, update)
		}
	}
}
