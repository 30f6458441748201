package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/set-night/healthconnect/internal/domain"
	"github.com/set-night/healthconnect/internal/stream"
)

// HistoryMessage is one turn returned by the chat history endpoint.
type HistoryMessage struct {
	Role string `json:"role"` // user or model
	Text string `json:"text"`
}

// CreateChatSession asks the backend for a new session bound to model and mode.
func (c *Client) CreateChatSession(ctx context.Context, model string, mode domain.ChatMode) (string, error) {
	payload := map[string]string{
		"modelType": model,
		"mode":      string(mode),
	}
	body, err := c.doJSON(ctx, http.MethodPost, c.baseURL+PathCreateChatSession, payload)
	if err != nil {
		return "", fmt.Errorf("create chat session: %w", err)
	}
	id, err := textData(body)
	if err != nil {
		return "", fmt.Errorf("create chat session: %w", err)
	}
	return id, nil
}

// SendMessageStream posts message to the session and returns the reply as a
// line stream. The caller must Close or drain the stream.
func (c *Client) SendMessageStream(ctx context.Context, sessionID, message string) (*stream.LineStream, error) {
	data, err := json.Marshal(map[string]string{
		"sessionId": sessionID,
		"message":   message,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathSendMessage, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send message: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if resp.StatusCode == http.StatusNotFound {
			var errResp dataResponse
			if json.Unmarshal(body, &errResp) == nil && strings.Contains(errResp.Error, "expired") {
				return nil, ErrSessionExpired
			}
		}
		return nil, &HTTPError{Status: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		return nil, ErrNoResponseBody
	}

	return stream.NewLineStream(ctx, resp.Body), nil
}

// ChatHistory returns the turns stored for a session. An unsuccessful answer
// yields an empty history.
func (c *Client) ChatHistory(ctx context.Context, sessionID string) ([]HistoryMessage, error) {
	var history []HistoryMessage
	err := c.GetEnvelope(ctx, PathChatHistory+url.PathEscape(sessionID), &history)
	if errors.Is(err, ErrMissingData) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("chat history: %w", err)
	}
	return history, nil
}
