package telegram

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/healthconnect/internal/config"
)

// SendLongMessage sends text as Markdown, split into parts if needed. A part
// Telegram refuses to parse is resent as plain text.
func SendLongMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) error {
	parts := SplitMessage(FixMarkdown(text), config.MaxTelegramMessageLen)

	for i, part := range parts {
		params := &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      part,
			ParseMode: models.ParseModeMarkdownV1,
		}
		if i == len(parts)-1 && markup != nil {
			params.ReplyMarkup = markup
		}

		if _, err := b.SendMessage(ctx, params); err != nil {
			slog.Warn("markdown send failed, falling back to plain text", "error", err)
			params.ParseMode = ""
			if _, err := b.SendMessage(ctx, params); err != nil {
				return fmt.Errorf("send message: %w", err)
			}
		}
	}
	return nil
}

// SendPlain sends text without formatting and returns the first message.
func SendPlain(ctx context.Context, b *bot.Bot, chatID int64, text string) (*models.Message, error) {
	var first *models.Message
	for _, part := range SplitMessage(text, config.MaxTelegramMessageLen) {
		msg, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: part})
		if err != nil {
			return first, fmt.Errorf("send message: %w", err)
		}
		if first == nil {
			first = msg
		}
	}
	return first, nil
}

// EditPlain replaces the text of a message, truncating it to one message.
// Edits that would not change the message are not errors.
func EditPlain(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string) error {
	if r := []rune(text); len(r) > config.MaxTelegramMessageLen {
		text = string(r[:config.MaxTelegramMessageLen-1]) + "…"
	}
	_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	})
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	return err
}

// StartTyping sends the typing action every 4 seconds until the returned
// cancel function is called.
func StartTyping(ctx context.Context, b *bot.Bot, chatID int64) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(4 * time.Second)
		defer ticker.Stop()
		for {
			b.SendChatAction(ctx, &bot.SendChatActionParams{
				ChatID: chatID,
				Action: models.ChatActionTyping,
			})
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return cancel
}

// SendDocument uploads data as a file named filename.
func SendDocument(ctx context.Context, b *bot.Bot, chatID int64, filename string, data []byte, caption string) error {
	_, err := b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   chatID,
		Document: &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
		Caption:  caption,
	})
	if err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}

// SendPhotoURL sends a remote image with a Markdown caption, falling back to
// the caption alone when the image cannot be sent.
func SendPhotoURL(ctx context.Context, b *bot.Bot, chatID int64, url, caption string) error {
	_, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:    chatID,
		Photo:     &models.InputFileString{Data: url},
		Caption:   caption,
		ParseMode: models.ParseModeMarkdownV1,
	})
	if err != nil {
		slog.Warn("send photo failed, falling back to text", "error", err)
		return SendLongMessage(ctx, b, chatID, caption, nil)
	}
	return nil
}
