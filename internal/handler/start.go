package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	tg "github.com/set-night/healthconnect/internal/telegram"
)

const helpText = "📋 *Commands:*\n\n" +
	"*Chat*\n" +
	"/chat - General health chat\n" +
	"/symptoms - Symptom checker\n" +
	"/clear - Start the conversation over\n" +
	"/model - Choose an AI model\n\n" +
	"*Profile*\n" +
	"/profile - Show your health profile\n" +
	"/set <field> <value> - Update a profile field\n" +
	"/email <address> - Set the email used for your history\n" +
	"/apikey <key> - Set your API key (/apikey off to remove)\n\n" +
	"*Health*\n" +
	"/insights - Health insights\n" +
	"/analysis \\[key=value ...] - Advanced analysis\n" +
	"/tips - Personalized recommendations\n" +
	"/daily - Daily insight\n" +
	"/report - Download your health report\n" +
	"/history - Saved analyses\n\n" +
	"*Nutrition*\n" +
	"/food <name> - Look up a food\n" +
	"/nutrition <foods> - Analyze what you ate\n" +
	"/plan \\[allergies] - Nutrition plan\n" +
	"/recipe <idea> \\[| allergies] - Recipe\n" +
	"/meal <ingredients> \\[servings] - Meal idea\n" +
	"/categories - Food categories\n\n" +
	"*Wellness*\n" +
	"/workout <type> <minutes> \\[intensity] \\[kcal eaten] - Workout analysis\n" +
	"/journal <text> - Wellness journal (or send a .txt file)\n" +
	"/doctors \\[specialty] \\[location] \\[min years] - Find doctors\n\n" +
	"Any other message goes to the current chat."

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}

	name := user.FirstName
	if name == "" {
		name = "there"
	}
	mode := h.chatService.Transcript(user).Mode()
	text := fmt.Sprintf(
		"👋 Hi, *%s*!\n\n"+
			"I am your health assistant. Ask me health questions, check symptoms, "+
			"analyze your nutrition and workouts, or find a doctor.\n\n"+
			"Start by filling in your profile with /set, then see /help for everything I can do.\n\n"+
			"Current mode: *%s*",
		tg.EscapeMarkdown(name), mode.Title(),
	)
	h.replyWithMarkup(ctx, b, chatID, text, modeKeyboard(mode))
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	_, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	h.reply(ctx, b, chatID, helpText)
}
