package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/healthconnect/internal/config"
	"github.com/set-night/healthconnect/internal/domain"
	"github.com/set-night/healthconnect/internal/middleware"
	tg "github.com/set-night/healthconnect/internal/telegram"
)

const (
	modeCallback = "mode:"

	// maxTranscriptEntry bounds each message replayed after a mode switch.
	maxTranscriptEntry = 600
)

// streamEditor turns transcript snapshots into message edits, at most one
// per interval while streaming. The final snapshot is always delivered.
type streamEditor struct {
	interval time.Duration
	now      func() time.Time
	edit     func(text string)
	finish   func(text string)

	last     time.Time
	lastText string
	done     bool
}

func (e *streamEditor) update(msg domain.ChatMessage) {
	text := tg.RenderChatMessage(msg)
	if !msg.IsStreaming {
		e.done = true
		e.finish(text)
		return
	}
	if text == e.lastText || e.now().Sub(e.last) < e.interval {
		return
	}
	e.last = e.now()
	e.lastText = text
	e.edit(text)
}

// HandleText answers free text in the user's current chat mode, editing a
// single placeholder message as the reply streams in.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	text := strings.TrimSpace(update.Message.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		return
	}

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	placeholder, err := tg.SendPlain(ctx, b, chatID, "…")
	if err != nil {
		slog.Error("send placeholder", "error", err, "chat_id", chatID)
		return
	}

	editor := &streamEditor{
		interval: config.StreamEditInterval,
		now:      time.Now,
		edit: func(s string) {
			if err := tg.EditPlain(ctx, b, chatID, placeholder.ID, s); err != nil {
				slog.Debug("edit streaming message", "error", err)
			}
		},
		finish: func(s string) {
			stopTyping()
			h.deliverFinal(ctx, b, chatID, placeholder.ID, s)
		},
	}

	_, err = h.chatService.Reply(ctx, user, text, editor.update)
	if err == nil {
		return
	}
	if !editor.done {
		tg.EditPlain(ctx, b, chatID, placeholder.ID, errorText(err))
	}
	if !expected(err) {
		slog.Error("chat reply", "error", err, "user_id", user.TelegramID)
		h.tgLogger.LogError(err, "chat reply")
	}
}

// deliverFinal puts the finished reply into the placeholder, continuing in
// new messages when it does not fit in one.
func (h *Handler) deliverFinal(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string) {
	parts := tg.SplitMessage(text, config.MaxTelegramMessageLen)
	if err := tg.EditPlain(ctx, b, chatID, messageID, parts[0]); err != nil {
		slog.Warn("edit final message", "error", err, "chat_id", chatID)
	}
	for _, part := range parts[1:] {
		if _, err := tg.SendPlain(ctx, b, chatID, part); err != nil {
			slog.Error("send reply continuation", "error", err, "chat_id", chatID)
			return
		}
	}
}

func modeKeyboard(current domain.ChatMode) *models.InlineKeyboardMarkup {
	return tg.InlineKeyboard(tg.ChoiceRow(modeCallback, string(current),
		tg.Choice{Value: string(domain.ModeChat), Label: domain.ModeChat.Title(), Icon: "💬"},
		tg.Choice{Value: string(domain.ModeSymptomChecker), Label: domain.ModeSymptomChecker.Title(), Icon: "🩺"},
	))
}

// renderTranscript shows the mode title and the tail of the conversation.
func renderTranscript(mode domain.ChatMode, msgs []domain.ChatMessage) string {
	if len(msgs) > config.MaxHistoryShown {
		msgs = msgs[len(msgs)-config.MaxHistoryShown:]
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", mode.Title())
	for _, m := range msgs {
		sb.WriteString("\n")
		if m.Sender == domain.SenderUser {
			sb.WriteString("🧑 ")
		} else {
			sb.WriteString("🤖 ")
		}
		text := []rune(tg.RenderChatMessage(m))
		if len(text) > maxTranscriptEntry {
			text = append(text[:maxTranscriptEntry], '…')
		}
		sb.WriteString(string(text))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (h *Handler) switchMode(ctx context.Context, b *bot.Bot, chatID int64, user *domain.User, mode domain.ChatMode) error {
	if err := h.chatService.SwitchMode(ctx, user, mode); err != nil {
		return err
	}
	if err := h.userService.SetChatMode(ctx, user, mode); err != nil {
		return err
	}
	t := h.chatService.Transcript(user)
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        renderTranscript(mode, t.Messages()),
		ReplyMarkup: modeKeyboard(mode),
	})
	return err
}

func (h *Handler) handleChatMode(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	if err := h.switchMode(ctx, b, chatID, user, domain.ModeChat); err != nil {
		h.fail(ctx, b, chatID, "switch to chat", err)
	}
}

func (h *Handler) handleSymptomMode(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	if err := h.switchMode(ctx, b, chatID, user, domain.ModeSymptomChecker); err != nil {
		h.fail(ctx, b, chatID, "switch to symptom checker", err)
	}
}

func (h *Handler) handleModeSelect(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil || cq.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID})

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}
	mode, ok := domain.ParseChatMode(strings.TrimPrefix(cq.Data, modeCallback))
	if !ok {
		return
	}
	chatID := cq.Message.Message.Chat.ID
	if err := h.switchMode(ctx, b, chatID, user, mode); err != nil {
		h.fail(ctx, b, chatID, "switch mode", err)
	}
}

func (h *Handler) handleClear(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	if err := h.chatService.Clear(ctx, user); err != nil {
		h.fail(ctx, b, chatID, "clear chat", err)
		return
	}
	mode := h.chatService.Transcript(user).Mode()
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "🔄 Conversation cleared.\n\n🤖 " + mode.Greeting(),
	})
}
