package telegram

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// NoopCallback is the callback data of buttons that only display state.
const NoopCallback = "noop"

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// ButtonRow creates a row of inline buttons.
func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

type Choice struct {
	Value string
	Label string
	Icon  string
}

// ChoiceRow lays options out in one row with callback data "<prefix><value>".
// The selected option shows a check mark in place of its icon.
func ChoiceRow(prefix, selected string, choices ...Choice) []models.InlineKeyboardButton {
	row := make([]models.InlineKeyboardButton, 0, len(choices))
	for _, c := range choices {
		icon := c.Icon
		if c.Value == selected {
			icon = "✅"
		}
		text := c.Label
		if icon != "" {
			text = icon + " " + text
		}
		row = append(row, InlineButton(text, prefix+c.Value))
	}
	return row
}

// Page clamps page into range and returns the bounds of its items.
// totalPages is at least 1.
func Page(items, perPage, page int) (start, end, current, totalPages int) {
	totalPages = max(1, (items+perPage-1)/perPage)
	current = max(0, min(page, totalPages-1))
	start = min(current*perPage, items)
	end = min(start+perPage, items)
	return start, end, current, totalPages
}

// PaginationRow creates a prev/page/next row. Page numbers in callback data
// are zero-based: "<prefix>:<page>".
func PaginationRow(currentPage, totalPages int, callbackPrefix string) []models.InlineKeyboardButton {
	var row []models.InlineKeyboardButton

	if currentPage > 0 {
		row = append(row, InlineButton("⬅️", fmt.Sprintf("%s:%d", callbackPrefix, currentPage-1)))
	}
	row = append(row, InlineButton(fmt.Sprintf("%d/%d", currentPage+1, totalPages), NoopCallback))
	if currentPage < totalPages-1 {
		row = append(row, InlineButton("➡️", fmt.Sprintf("%s:%d", callbackPrefix, currentPage+1)))
	}
	return row
}
