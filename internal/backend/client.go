// Package backend is the HTTP client for the health AI backend and the doctor
// directory service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/set-night/healthconnect/internal/config"
)

// Endpoint paths relative to the backend base URL.
const (
	PathCreateChatSession    = "/api/create-chat-session"
	PathSendMessage          = "/api/send-message"
	PathChatHistory          = "/api/chat-history/"
	PathHealthInsights       = "/api/health-insights"
	PathAdvancedAnalysis     = "/api/advanced-health-analysis"
	PathHealthReport         = "/api/health-report"
	PathNutritionAnalysis    = "/api/nutrition-analysis"
	PathNutritionPlan        = "/api/nutrition-plan-generation"
	PathRecipe               = "/api/recipe-generation"
	PathFoodNutritionInfo    = "/api/food-nutrition-info"
	PathMealIdea             = "/api/meal-idea-generation"
	PathFoodIdentification   = "/api/food-identification"
	PathNutritionCategories  = "/api/nutrition-categories"
	PathPersonalizedFoods    = "/api/get-Nutrition"
	PathWorkoutAnalysis      = "/api/workout-analysis"
	PathAnalyzeWellness      = "/api/analyze-wellness"
	PathSaveHistory          = "/api/save-history"
	PathGetHistory           = "/api/get-history/"
	PathAllDoctors           = "/auth/getAlldoctor"
	PathDoctorRecommendation = "/doctor-recommendations"
)

type Client struct {
	baseURL    string
	doctorsURL string
	httpClient *http.Client
	// streamClient has no overall timeout; streamed replies are bounded by ctx.
	streamClient *http.Client
}

func NewClient(baseURL, doctorsURL string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		doctorsURL:   strings.TrimRight(doctorsURL, "/"),
		httpClient:   &http.Client{Timeout: config.RequestTimeout},
		streamClient: &http.Client{},
	}
}

// dataResponse is the {data: string} shape most endpoints answer with.
type dataResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// envelope is the {success, data} shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// PostData posts payload and returns the free-text data field.
func (c *Client) PostData(ctx context.Context, path string, payload any) (string, error) {
	body, err := c.doJSON(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return "", err
	}
	return textData(body)
}

// GetData fetches path and returns the free-text data field.
func (c *Client) GetData(ctx context.Context, path string) (string, error) {
	body, err := c.doJSON(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", err
	}
	return textData(body)
}

// PostEnvelope posts payload and decodes data of a {success, data} answer into out.
func (c *Client) PostEnvelope(ctx context.Context, path string, payload, out any) error {
	body, err := c.doJSON(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	return decodeEnvelope(body, out)
}

// GetEnvelope fetches path and decodes data of a {success, data} answer into out.
func (c *Client) GetEnvelope(ctx context.Context, path string, out any) error {
	body, err := c.doJSON(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return decodeEnvelope(body, out)
}

func (c *Client) doJSON(ctx context.Context, method, url string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Status: resp.StatusCode, Body: truncate(string(body), 512)}
	}
	return body, nil
}

func textData(body []byte) (string, error) {
	var resp dataResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingData, err)
	}
	var text string
	if err := json.Unmarshal(resp.Data, &text); err != nil || text == "" {
		return "", ErrMissingData
	}
	return text, nil
}

func decodeEnvelope(body []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingData, err)
	}
	if !env.Success || len(env.Data) == 0 || string(env.Data) == "null" {
		return ErrMissingData
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingData, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
