package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/healthconnect/internal/config"
	"github.com/set-night/healthconnect/internal/domain"
	"github.com/set-night/healthconnect/internal/middleware"
	tg "github.com/set-night/healthconnect/internal/telegram"
)

const (
	modelCallback     = "model:"
	modelPageCallback = "models"
)

// modelsPage renders one page of the model catalog with a button per model.
// Models the user's tier cannot select are marked with a lock.
func modelsPage(user *domain.User, page int) (string, *models.InlineKeyboardMarkup) {
	all := domain.Models()
	start, end, page, totalPages := tg.Page(len(all), config.ModelsPerPage, page)

	var sb strings.Builder
	sb.WriteString("🤖 *Choose a model:*\n\n")
	var rows [][]models.InlineKeyboardButton
	for _, m := range all[start:end] {
		marker := ""
		switch {
		case m.ID == user.SelectedModel:
			marker = " ✅"
		case m.Premium && user.Tier != domain.TierPro:
			marker = " 🔒"
		}
		caps := ""
		if m.Thinking {
			caps = " 💭"
		}
		fmt.Fprintf(&sb, "*%s*%s%s\n%s\n\n", m.Name, caps, marker, m.Description)

		label := m.Name
		if m.ID == user.SelectedModel {
			label = "✅ " + label
		}
		rows = append(rows, tg.ButtonRow(tg.InlineButton(label, modelCallback+m.ID)))
	}
	if totalPages > 1 {
		rows = append(rows, tg.PaginationRow(page, totalPages, modelPageCallback))
	}
	return strings.TrimRight(sb.String(), "\n"), tg.InlineKeyboard(rows...)
}

func (h *Handler) handleModels(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}

	if id := commandArgs(update.Message.Text); id != "" {
		h.selectModel(ctx, b, chatID, user, id)
		return
	}

	text, keyboard := modelsPage(user, 0)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: keyboard,
	})
}

// selectModel switches the user to the model and restarts the conversation.
func (h *Handler) selectModel(ctx context.Context, b *bot.Bot, chatID int64, user *domain.User, id string) {
	model, err := h.chatService.ChangeModel(ctx, user, id)
	if err != nil {
		h.fail(ctx, b, chatID, "change model", err)
		return
	}
	if err := h.userService.SetModel(ctx, user, model.ID); err != nil {
		h.fail(ctx, b, chatID, "save model", err)
		return
	}
	mode := h.chatService.Transcript(user).Mode()
	h.reply(ctx, b, chatID, fmt.Sprintf("✅ Model set to *%s*. Starting a new conversation.\n\n🤖 %s", model.Name, mode.Greeting()))
}

func (h *Handler) handleModelSelect(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil || cq.Message.Message == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	id := strings.TrimPrefix(cq.Data, modelCallback)
	if model, _ := domain.LookupModel(id); model.Premium && user.Tier != domain.TierPro {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: cq.ID,
			Text:            errorText(domain.ErrPremiumModel),
			ShowAlert:       true,
		})
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID})

	msg := cq.Message.Message
	h.selectModel(ctx, b, msg.Chat.ID, user, id)

	text, keyboard := modelsPage(user, 0)
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: keyboard,
	})
}

func (h *Handler) handleModelPage(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil || cq.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID})

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}
	page, err := strconv.Atoi(strings.TrimPrefix(cq.Data, modelPageCallback+":"))
	if err != nil {
		return
	}

	msg := cq.Message.Message
	text, keyboard := modelsPage(user, page)
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: keyboard,
	})
}
