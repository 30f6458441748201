package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/healthconnect/internal/domain"
	"github.com/set-night/healthconnect/internal/middleware"
	"github.com/set-night/healthconnect/internal/service"
	tg "github.com/set-night/healthconnect/internal/telegram"
)

// commandArgs returns the text after the command word.
func commandArgs(text string) string {
	_, rest, _ := strings.Cut(strings.TrimSpace(text), " ")
	return strings.TrimSpace(rest)
}

// splitList splits a comma separated list, dropping empty items.
func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// messageUser returns the loaded user and chat of a private message update.
func messageUser(ctx context.Context, update *models.Update) (*domain.User, int64, bool) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return nil, 0, false
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return nil, 0, false
	}
	return user, update.Message.Chat.ID, true
}

func (h *Handler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if err := tg.SendLongMessage(ctx, b, chatID, text, nil); err != nil {
		slog.Error("send reply", "error", err, "chat_id", chatID)
	}
}

func (h *Handler) replyWithMarkup(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) {
	if err := tg.SendLongMessage(ctx, b, chatID, text, markup); err != nil {
		slog.Error("send reply", "error", err, "chat_id", chatID)
	}
}

// errorText is the message shown to the user for err.
func errorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrProfileIncomplete):
		return "📋 Please complete your profile first: /set age 30, /set gender female, /set height 170, /set weight 65"
	case errors.Is(err, domain.ErrTierRequired):
		return "⭐ This feature is not available on your current plan."
	case errors.Is(err, domain.ErrPremiumModel):
		return "⭐ This model is only available on the Pro plan. Choose another one with /model."
	case errors.Is(err, domain.ErrModelNotFound):
		return "❌ Unknown model. Use /model to pick one."
	case errors.Is(err, domain.ErrEmailRequired):
		return "📧 Set your email first: /email you@example.com"
	case errors.Is(err, domain.ErrEmptyEntry):
		return "✏️ Please add some text after the command."
	case errors.Is(err, domain.ErrReplyInProgress):
		return "⏳ Please wait for the current reply to finish."
	case errors.Is(err, domain.ErrInvalidProfileData):
		return "❌ " + err.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return "❌ User not found."
	case service.IsUnavailable(err):
		return "🔌 The health service is unavailable right now. Please try again later."
	default:
		return "❌ Something went wrong. Please try again."
	}
}

// expected reports errors that come from user input or plan limits rather
// than faults worth reporting.
func expected(err error) bool {
	for _, target := range []error{
		domain.ErrProfileIncomplete, domain.ErrTierRequired, domain.ErrPremiumModel,
		domain.ErrModelNotFound, domain.ErrEmailRequired, domain.ErrEmptyEntry,
		domain.ErrReplyInProgress, domain.ErrInvalidProfileData, domain.ErrUserNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// fail logs err, reports unexpected ones to the log chat and tells the user.
func (h *Handler) fail(ctx context.Context, b *bot.Bot, chatID int64, where string, err error) {
	if expected(err) {
		slog.Debug(where, "error", err, "chat_id", chatID)
	} else {
		slog.Error(where, "error", err, "chat_id", chatID)
		h.tgLogger.LogError(err, where)
	}
	h.reply(ctx, b, chatID, errorText(err))
}
