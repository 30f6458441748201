package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/set-night/healthconnect/internal/config"
)

// MaxTextFileSize bounds text documents accepted from users.
const MaxTextFileSize = 64 << 10

var downloadClient = &http.Client{Timeout: config.RequestTimeout}

// DownloadText fetches a user-sent document and returns it as UTF-8 text.
// Files larger than MaxTextFileSize or not valid UTF-8 are rejected.
func DownloadText(ctx context.Context, b *bot.Bot, fileID string) (string, error) {
	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("get file: %w", err)
	}
	if file.FileSize > MaxTextFileSize {
		return "", fmt.Errorf("file too large: %d bytes", file.FileSize)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.FileDownloadLink(file), nil)
	if err != nil {
		return "", fmt.Errorf("create download request: %w", err)
	}
	resp, err := downloadClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxTextFileSize+1))
	if err != nil {
		return "", fmt.Errorf("read file data: %w", err)
	}
	if len(data) > MaxTextFileSize {
		return "", fmt.Errorf("file too large")
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not UTF-8 text")
	}
	return string(data), nil
}
