package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/healthconnect/internal/domain"
	"github.com/set-night/healthconnect/internal/middleware"
)

// handleTier changes another user's plan: /tier <telegram_id> <free|lite|pro>.
func (h *Handler) handleTier(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	admin := middleware.GetUser(ctx)
	if admin == nil || !admin.IsAdmin {
		return
	}

	chatID := update.Message.Chat.ID
	parts := strings.Fields(update.Message.Text)
	if len(parts) != 3 {
		h.reply(ctx, b, chatID, "Usage: /tier <telegram\\_id> <free|lite|pro>")
		return
	}

	telegramID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.reply(ctx, b, chatID, "❌ Invalid Telegram ID.")
		return
	}
	tier, ok := domain.ParseTier(strings.ToLower(parts[2]))
	if !ok {
		h.reply(ctx, b, chatID, "❌ Unknown tier. Use free, lite or pro.")
		return
	}

	target, err := h.userService.GetByTelegramID(ctx, telegramID)
	if err != nil {
		h.fail(ctx, b, chatID, "get user for tier change", err)
		return
	}
	from := target.Tier
	if err := h.userService.SetTier(ctx, target, tier); err != nil {
		h.fail(ctx, b, chatID, "set tier", err)
		return
	}
	h.tgLogger.LogTierChange(admin, target, from, tier)

	h.reply(ctx, b, chatID, fmt.Sprintf("✅ User `%d` moved from *%s* to *%s*.", telegramID, from, tier))
}

func (h *Handler) handleStat(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil || !user.IsAdmin {
		return
	}

	chatID := update.Message.Chat.ID

	stats, err := h.userService.Stats(ctx)
	if err != nil {
		h.fail(ctx, b, chatID, "stats", err)
		return
	}

	text := fmt.Sprintf(
		"📊 *Statistics*\n\n"+
			"👥 *Users:*\n"+
			"Total: %d\n"+
			"Active in 24h: %d\n\n"+
			"⭐ *Tiers:*\n"+
			"Free: %d\n"+
			"Lite: %d\n"+
			"Pro: %d",
		stats.Total,
		stats.Active24h,
		stats.ByTier[domain.TierFree],
		stats.ByTier[domain.TierLite],
		stats.ByTier[domain.TierPro],
	)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	})
}
