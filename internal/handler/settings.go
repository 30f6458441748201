package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/healthconnect/internal/domain"
)

// maskKey hides all but the ends of an API key.
func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("•", len(key))
	}
	return key[:4] + "…" + key[len(key)-4:]
}

func (h *Handler) handleAPIKey(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}

	arg := commandArgs(update.Message.Text)
	switch {
	case arg == "":
		if user.HasAPIKey() {
			h.reply(ctx, b, chatID, fmt.Sprintf("🔑 API key: `%s`\n\nUse /apikey off to remove it.", maskKey(user.APIKey)))
		} else {
			h.reply(ctx, b, chatID, "🔑 No API key set. Send /apikey <key> to unlock the advanced analysis and daily insights.")
		}
		return
	case strings.EqualFold(arg, "off"):
		arg = ""
	default:
		// The key should not stay in the chat history.
		if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: update.Message.ID}); err != nil {
			slog.Debug("delete api key message", "error", err)
		}
	}

	if err := h.userService.SetAPIKey(ctx, user, arg); err != nil {
		h.fail(ctx, b, chatID, "set api key", err)
		return
	}
	if arg == "" {
		h.reply(ctx, b, chatID, "🔑 API key removed.")
		return
	}
	h.reply(ctx, b, chatID, fmt.Sprintf("✅ API key saved: `%s`", maskKey(arg)))
}

func (h *Handler) handleEmail(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}

	arg := commandArgs(update.Message.Text)
	if arg == "" {
		if user.Email == "" {
			h.reply(ctx, b, chatID, "📧 No email set. Send /email you@example.com to keep a history of your analyses.")
		} else {
			h.reply(ctx, b, chatID, "📧 Email: "+user.Email)
		}
		return
	}

	addr, err := mail.ParseAddress(arg)
	if err != nil || addr.Address != arg {
		h.reply(ctx, b, chatID, "❌ That does not look like an email address.")
		return
	}
	if err := h.userService.SetEmail(ctx, user, addr.Address); err != nil {
		h.fail(ctx, b, chatID, "set email", err)
		return
	}
	h.reply(ctx, b, chatID, "✅ Email saved: "+addr.Address)
}

func (h *Handler) handleProfile(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	h.reply(ctx, b, chatID, renderProfile(user))
}

func (h *Handler) handleSet(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}

	field, value, _ := strings.Cut(commandArgs(update.Message.Text), " ")
	if field == "" || strings.TrimSpace(value) == "" {
		h.reply(ctx, b, chatID, "Usage: /set <field> <value>\n\nFields: "+strings.Join(domain.ProfileFields, ", ")+
			"\n\nHeight is in cm, weight in kg, glucose in mg/dL. Scores are 0-100.")
		return
	}

	profile := user.Profile
	if err := profile.Set(field, value); err != nil {
		h.fail(ctx, b, chatID, "set profile field", err)
		return
	}
	if err := h.userService.SaveProfile(ctx, user, profile); err != nil {
		h.fail(ctx, b, chatID, "save profile", err)
		return
	}
	h.reply(ctx, b, chatID, "✅ Profile updated.\n\n"+renderProfile(user))
}
