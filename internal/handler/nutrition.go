package handler

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/healthconnect/internal/service"
	tg "github.com/set-night/healthconnect/internal/telegram"
)

// parseRecipeArgs splits "<idea> | <allergies>".
func parseRecipeArgs(args string) (string, []string) {
	idea, allergies, _ := strings.Cut(args, "|")
	return strings.TrimSpace(idea), splitList(allergies)
}

// parseMealArgs reads "<ingredients> [servings] [| restrictions]". A trailing
// number after the ingredient list is the serving count.
func parseMealArgs(args string) ([]string, int, []string) {
	list, restrictions, _ := strings.Cut(args, "|")
	list = strings.TrimSpace(list)

	servings := 0
	if i := strings.LastIndexAny(list, " ,"); i >= 0 {
		if n, err := strconv.Atoi(list[i+1:]); err == nil && n > 0 {
			servings = n
			list = list[:i]
		}
	}
	return splitList(list), servings, splitList(restrictions)
}

func (h *Handler) handleFood(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	name := commandArgs(update.Message.Text)
	if name == "" {
		h.reply(ctx, b, chatID, "Usage: /food <name>")
		return
	}

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	info, err := h.nutritionService.Search(ctx, user, name)
	if err != nil {
		h.fail(ctx, b, chatID, "food search", err)
		return
	}
	h.reply(ctx, b, chatID, renderFoodSearch(info))
}

func (h *Handler) handleNutrition(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	analysis, err := h.nutritionService.Analyze(ctx, user, commandArgs(update.Message.Text))
	if err != nil {
		h.fail(ctx, b, chatID, "nutrition analysis", err)
		return
	}
	h.reply(ctx, b, chatID, renderNutritionAnalysis(analysis))
}

func (h *Handler) handlePlan(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	plan, err := h.nutritionService.Plan(ctx, user, splitList(commandArgs(update.Message.Text)))
	if err != nil {
		h.fail(ctx, b, chatID, "nutrition plan", err)
		return
	}
	h.reply(ctx, b, chatID, renderNutritionPlan(plan))
}

func (h *Handler) handleRecipe(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	idea, allergies := parseRecipeArgs(commandArgs(update.Message.Text))

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	recipe, err := h.nutritionService.Recipe(ctx, user, idea, allergies)
	if err != nil {
		h.fail(ctx, b, chatID, "recipe", err)
		return
	}
	h.reply(ctx, b, chatID, renderRecipe(recipe))
}

func (h *Handler) handleMeal(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	ingredients, servings, restrictions := parseMealArgs(commandArgs(update.Message.Text))

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	meal, err := h.nutritionService.MealIdea(ctx, user, ingredients, servings, restrictions)
	if err != nil {
		h.fail(ctx, b, chatID, "meal idea", err)
		return
	}
	h.reply(ctx, b, chatID, renderMealIdea(meal))
}

// handleFoodCategories sends one photo card per category. The built-in list
// stands in when personalized categories are unavailable.
func (h *Handler) handleFoodCategories(ctx context.Context, b *bot.Bot, update *models.Update) {
	_, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	categories, err := h.nutritionService.PersonalizedCategories(ctx)
	if err != nil {
		slog.Warn("personalized categories", "error", err)
		categories = service.DefaultNutritionCategories()
	}
	for _, c := range categories {
		if err := tg.SendPhotoURL(ctx, b, chatID, c.ImageURL, renderFoodCategory(c)); err != nil {
			slog.Error("send food category", "error", err, "chat_id", chatID)
			return
		}
	}
}
