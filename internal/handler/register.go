package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/healthconnect/internal/telegram"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, h.handleHelp)

	// Chat
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/chat", bot.MatchTypePrefix, h.handleChatMode)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/symptoms", bot.MatchTypePrefix, h.handleSymptomMode)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/clear", bot.MatchTypePrefix, h.handleClear)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/model", bot.MatchTypePrefix, h.handleModels)

	// Account and profile
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/apikey", bot.MatchTypePrefix, h.handleAPIKey)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/email", bot.MatchTypePrefix, h.handleEmail)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/profile", bot.MatchTypePrefix, h.handleProfile)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/set", bot.MatchTypePrefix, h.handleSet)

	// Health
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/insights", bot.MatchTypePrefix, h.handleInsights)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/analysis", bot.MatchTypePrefix, h.handleAnalysis)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/tips", bot.MatchTypePrefix, h.handleRecommendations)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/report", bot.MatchTypePrefix, h.handleReport)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/daily", bot.MatchTypePrefix, h.handleDaily)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/history", bot.MatchTypePrefix, h.handleHistory)

	// Nutrition
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/food", bot.MatchTypePrefix, h.handleFood)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/nutrition", bot.MatchTypePrefix, h.handleNutrition)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/plan", bot.MatchTypePrefix, h.handlePlan)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/recipe", bot.MatchTypePrefix, h.handleRecipe)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/meal", bot.MatchTypePrefix, h.handleMeal)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/categories", bot.MatchTypePrefix, h.handleFoodCategories)

	// Wellness and doctors
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/workout", bot.MatchTypePrefix, h.handleWorkout)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/journal", bot.MatchTypePrefix, h.handleJournal)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/doctors", bot.MatchTypePrefix, h.handleDoctors)
	h.bot.RegisterHandlerMatchFunc(isJournalDocument, h.handleJournalDocument)

	// Admin
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/tier", bot.MatchTypePrefix, h.handleTier)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stat", bot.MatchTypePrefix, h.handleStat)

	// Callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, modeCallback, bot.MatchTypePrefix, h.handleModeSelect)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, modelCallback, bot.MatchTypePrefix, h.handleModelSelect)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, modelPageCallback, bot.MatchTypePrefix, h.handleModelPage)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, telegram.NoopCallback, bot.MatchTypeExact, h.handleNoop)
}

// handleNoop acknowledges callbacks of buttons that only display state.
func (h *Handler) handleNoop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
	}
}
