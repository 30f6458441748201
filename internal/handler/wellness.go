package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/healthconnect/internal/domain"
	tg "github.com/set-night/healthconnect/internal/telegram"
	"github.com/shopspring/decimal"
)

const workoutUsage = "Usage: /workout <type> <minutes> [low|moderate|high] [kcal eaten]\n\nExample: /workout running 30 high 2200"

// parseWorkoutArgs reads "<type> <minutes> [intensity] [kcal eaten]". Either
// optional part may be left out; a number in third place is the kcal.
func parseWorkoutArgs(args string) (domain.Workout, error) {
	parts := strings.Fields(args)
	if len(parts) < 2 || len(parts) > 4 {
		return domain.Workout{}, fmt.Errorf("%w: expected type and minutes", domain.ErrInvalidProfileData)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes <= 0 {
		return domain.Workout{}, fmt.Errorf("%w: minutes %q", domain.ErrInvalidProfileData, parts[1])
	}
	w := domain.Workout{
		Type:     strings.ReplaceAll(parts[0], "_", " "),
		Duration: minutes,
	}

	for _, p := range parts[2:] {
		if kcal, err := decimal.NewFromString(p); err == nil {
			if kcal.IsNegative() {
				return domain.Workout{}, fmt.Errorf("%w: kcal %q", domain.ErrInvalidProfileData, p)
			}
			w.CaloriesConsumed = kcal
			continue
		}
		switch intensity := strings.ToLower(p); intensity {
		case "low", "moderate", "high":
			w.Intensity = intensity
		default:
			return domain.Workout{}, fmt.Errorf("%w: intensity %q", domain.ErrInvalidProfileData, p)
		}
	}
	return w, nil
}

func (h *Handler) handleWorkout(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	w, err := parseWorkoutArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.reply(ctx, b, chatID, errorText(err)+"\n\n"+workoutUsage)
		return
	}

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	analysis, err := h.wellnessService.AnalyzeWorkout(ctx, user, w)
	if err != nil {
		h.fail(ctx, b, chatID, "workout analysis", err)
		return
	}
	h.reply(ctx, b, chatID, renderWorkout(w, analysis))
}

func (h *Handler) handleJournal(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	h.analyzeJournal(ctx, b, chatID, user, commandArgs(update.Message.Text))
}

// isJournalDocument matches plain text files sent in a private chat.
func isJournalDocument(update *models.Update) bool {
	msg := update.Message
	if msg == nil || msg.Document == nil || msg.Chat.Type != "private" {
		return false
	}
	return msg.Document.MimeType == "text/plain" || strings.HasSuffix(strings.ToLower(msg.Document.FileName), ".txt")
}

func (h *Handler) handleJournalDocument(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	if !user.Tier.Paid() {
		h.reply(ctx, b, chatID, errorText(domain.ErrTierRequired))
		return
	}

	text, err := tg.DownloadText(ctx, b, update.Message.Document.FileID)
	if err != nil {
		h.fail(ctx, b, chatID, "download journal", err)
		return
	}
	h.analyzeJournal(ctx, b, chatID, user, text)
}

func (h *Handler) analyzeJournal(ctx context.Context, b *bot.Bot, chatID int64, user *domain.User, entry string) {
	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	analysis, err := h.wellnessService.AnalyzeJournal(ctx, user, entry)
	if err != nil {
		h.fail(ctx, b, chatID, "journal analysis", err)
		return
	}
	h.reply(ctx, b, chatID, renderJournal(analysis))
}
