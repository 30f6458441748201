package telegram

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/set-night/healthconnect/internal/domain"
)

// maxThinkingShown bounds the reasoning excerpt shown above an answer.
const maxThinkingShown = 700

// FormatThinkingTime renders a duration as "850ms" below one second and
// "1.2s" above.
func FormatThinkingTime(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}

// RenderChatMessage renders a bot message as plain text: the reasoning
// excerpt, when present, followed by the answer.
func RenderChatMessage(msg domain.ChatMessage) string {
	var sb strings.Builder

	thinking := strings.TrimSpace(strings.Join(msg.Thinking, "\n"))
	if thinking != "" {
		label := "💭 Thinking"
		if !msg.IsStreaming && msg.ThinkingTime > 0 {
			label = "💭 Thought for " + FormatThinkingTime(msg.ThinkingTime)
		}
		sb.WriteString(label)
		sb.WriteString("\n")
		if utf8.RuneCountInString(thinking) > maxThinkingShown {
			r := []rune(thinking)
			thinking = "…" + string(r[len(r)-maxThinkingShown:])
		}
		for _, line := range strings.Split(thinking, "\n") {
			sb.WriteString("┃ ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	answer := strings.TrimSpace(PlainText(msg.Text))
	switch {
	case answer != "":
		sb.WriteString(answer)
	case msg.IsStreaming:
		sb.WriteString("…")
	}
	if msg.IsStreaming && answer != "" {
		sb.WriteString(" ▌")
	}
	return strings.TrimRight(sb.String(), "\n")
}
