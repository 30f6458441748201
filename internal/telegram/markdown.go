package telegram

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// SplitMessage splits text into chunks of at most maxLen runes, preferring
// to cut after a newline in the second half of a chunk.
func SplitMessage(text string, maxLen int) []string {
	if utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > maxLen {
		cut := maxLen
		for i := maxLen - 1; i > maxLen/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

// FixMarkdown closes unbalanced code fences and inline code spans so a
// partially streamed answer still parses.
func FixMarkdown(text string) string {
	if strings.Count(text, "```")%2 != 0 {
		text += "\n```"
	}
	return fixInlineCode(text)
}

func fixInlineCode(text string) string {
	var sb strings.Builder
	inFence := false
	inlineOpen := false

	for i := 0; i < len(text); i++ {
		if strings.HasPrefix(text[i:], "```") {
			if inlineOpen {
				sb.WriteByte('`')
				inlineOpen = false
			}
			inFence = !inFence
			sb.WriteString("```")
			i += 2
			continue
		}
		if !inFence && text[i] == '`' {
			inlineOpen = !inlineOpen
		}
		sb.WriteByte(text[i])
	}
	if inlineOpen {
		sb.WriteByte('`')
	}
	return sb.String()
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// EscapeMarkdown escapes user-provided text for legacy Markdown messages.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

var (
	htmlTag    = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9]*(\s[^<>]*)?/?>`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// PlainText flattens HTML fragments that models sometimes emit into plain
// text, keeping line breaks and list bullets. Text without tags is returned
// unchanged.
func PlainText(s string) string {
	if !htmlTag.MatchString(s) {
		return s
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return htmlTag.ReplaceAllString(s, "")
	}

	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, sel *goquery.Selection) {
		sel.PrependHtml("• ")
		sel.AppendHtml("\n")
	})
	doc.Find("p, div, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})

	text := blankLines.ReplaceAllString(doc.Text(), "\n\n")
	return strings.TrimSpace(text)
}
