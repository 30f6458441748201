package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/healthconnect/internal/domain"
)

type ctxKey string

const UserKey ctxKey = "user"

// GetUser extracts user from context.
func GetUser(ctx context.Context) *domain.User {
	u, ok := ctx.Value(UserKey).(*domain.User)
	if !ok {
		return nil
	}
	return u
}

// WithUser stores user in ctx.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// UserStore is the part of the user service the loader needs.
type UserStore interface {
	FindOrCreate(ctx context.Context, telegramID int64, firstName, username string, isAdmin bool) (*domain.User, bool, error)
	UpdateInfo(ctx context.Context, userID int64, firstName, username string) error
	UpdateLastInteraction(ctx context.Context, userID int64) error
}

// UserLoader returns middleware that loads the sender into context, creating
// the account on first contact. onRegister, if set, runs for new accounts.
func UserLoader(users UserStore, cfg interface{ IsAdmin(int64) bool }, onRegister func(ctx context.Context, user *domain.User)) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User
			if update.Message != nil {
				from = update.Message.From
			} else if update.CallbackQuery != nil {
				from = &update.CallbackQuery.From
			}

			if from == nil || from.IsBot {
				next(ctx, b, update)
				return
			}

			user, created, err := users.FindOrCreate(ctx, from.ID, from.FirstName, from.Username, cfg.IsAdmin(from.ID))
			if err != nil {
				slog.Error("load user", "error", err, "user_id", from.ID)
				next(ctx, b, update)
				return
			}
			if created {
				slog.Info("user registered", "user_id", from.ID, "username", from.Username)
				if onRegister != nil {
					onRegister(ctx, user)
				}
			} else if user.FirstName != from.FirstName || user.Username != from.Username {
				if err := users.UpdateInfo(ctx, user.ID, from.FirstName, from.Username); err != nil {
					slog.Warn("update user info", "error", err, "user_id", from.ID)
				} else {
					user.FirstName, user.Username = from.FirstName, from.Username
				}
			}
			if err := users.UpdateLastInteraction(ctx, user.ID); err != nil {
				slog.Warn("update last interaction", "error", err, "user_id", from.ID)
			}

			next(WithUser(ctx, user), b, update)
		}
	}
}
