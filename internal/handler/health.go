package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/healthconnect/internal/config"
	"github.com/set-night/healthconnect/internal/domain"
	tg "github.com/set-night/healthconnect/internal/telegram"
)

// parseLifestyle applies key=value pairs over the default lifestyle answers.
// Underscores in values stand for spaces.
func parseLifestyle(args string) (domain.Lifestyle, error) {
	life := domain.DefaultLifestyle()
	for _, tok := range strings.Fields(args) {
		key, value, ok := strings.Cut(tok, "=")
		if !ok || value == "" {
			return life, fmt.Errorf("%w: expected key=value, got %q", domain.ErrInvalidProfileData, tok)
		}
		value = strings.ReplaceAll(value, "_", " ")

		var err error
		switch strings.ToLower(key) {
		case "sleep":
			life.SleepHours, err = strconv.ParseFloat(value, 64)
		case "quality":
			life.SleepQuality = value
		case "exercise":
			life.ExerciseHours, err = strconv.ParseFloat(value, 64)
		case "stress":
			life.StressLevel, err = strconv.Atoi(value)
		case "water":
			life.WaterIntake, err = strconv.ParseFloat(value, 64)
		case "caffeine":
			life.Caffeine, err = strconv.Atoi(value)
		case "diet":
			life.Diet = value
		case "meals":
			life.RegularMeals, err = strconv.ParseBool(value)
		case "snacking":
			life.LateNightSnacking, err = strconv.ParseBool(value)
		case "fastfood":
			life.FastFood, err = strconv.ParseBool(value)
		case "sugar":
			life.HighSugar, err = strconv.ParseBool(value)
		case "smoking":
			life.Smoking = value
		case "alcohol":
			life.AlcoholConsumption = value
		case "conditions":
			life.MedicalConditions = value
		case "medications":
			life.Medications = value
		case "family":
			life.FamilyHistory = value
		default:
			return life, fmt.Errorf("%w: unknown key %q", domain.ErrInvalidProfileData, key)
		}
		if err != nil {
			return life, fmt.Errorf("%w: %s %q", domain.ErrInvalidProfileData, key, value)
		}
	}
	return life, nil
}

func (h *Handler) handleInsights(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	h.reply(ctx, b, chatID, renderInsights(h.healthService.Insights(ctx, user)))
}

func (h *Handler) handleAnalysis(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	life, err := parseLifestyle(commandArgs(update.Message.Text))
	if err != nil {
		h.reply(ctx, b, chatID, errorText(err)+"\n\nKeys: sleep, quality, exercise, stress, water, caffeine, diet, "+
			"meals, snacking, fastfood, sugar, smoking, alcohol, conditions, medications, family")
		return
	}

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	sections, err := h.healthService.AdvancedAnalysis(ctx, user, life)
	if err != nil {
		h.fail(ctx, b, chatID, "advanced analysis", err)
		return
	}
	text := renderAnalysis(sections)
	if entry := h.wellnessService.SaveHistory(ctx, user, sections); entry != nil {
		text += "\n\n📂 Saved to your /history."
	}
	h.reply(ctx, b, chatID, text)
}

func (h *Handler) handleRecommendations(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	recs, err := h.healthService.Recommendations(ctx, user)
	if err != nil {
		h.fail(ctx, b, chatID, "recommendations", err)
		return
	}
	h.reply(ctx, b, chatID, renderRecommendations(recs))
}

func (h *Handler) handleReport(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	if !user.Profile.Completed() {
		h.reply(ctx, b, chatID, errorText(domain.ErrProfileIncomplete))
		return
	}

	sections, err := h.healthService.LastAnalysis(ctx, user)
	if err != nil {
		h.fail(ctx, b, chatID, "load last analysis", err)
		return
	}
	report := buildReport(user, sections, time.Now())
	if err := tg.SendDocument(ctx, b, chatID, "health-report.md", report, "📄 Your health report"); err != nil {
		h.fail(ctx, b, chatID, "send report", err)
	}
}

func (h *Handler) handleDaily(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	insight, err := h.healthService.DailyInsight(ctx, user)
	if err != nil {
		h.fail(ctx, b, chatID, "daily insight", err)
		return
	}
	if insight == nil {
		h.reply(ctx, b, chatID, "🌅 No insight today. Please try again later.")
		return
	}
	h.reply(ctx, b, chatID, renderDailyInsight(*insight))
}

func (h *Handler) handleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	entries, err := h.wellnessService.History(ctx, user)
	if err != nil {
		h.fail(ctx, b, chatID, "health history", err)
		return
	}
	h.reply(ctx, b, chatID, renderHistory(entries, config.MaxHistoryShown))
}
