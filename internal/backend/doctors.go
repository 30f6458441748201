package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/set-night/healthconnect/internal/domain"
)

// AllDoctors fetches the doctor directory.
func (c *Client) AllDoctors(ctx context.Context) ([]domain.Doctor, error) {
	body, err := c.doJSON(ctx, http.MethodGet, c.doctorsURL+PathAllDoctors, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch doctors: %w", err)
	}

	var resp struct {
		AllDoctor []domain.Doctor `json:"allDoctor"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("fetch doctors: %w: %v", ErrMissingData, err)
	}
	return resp.AllDoctor, nil
}

// DoctorRecommendations returns the doctor ids the backend recommends for the
// profile. Non-string entries are skipped.
func (c *Client) DoctorRecommendations(ctx context.Context, profile domain.HealthSnapshot) ([]string, error) {
	body, err := c.doJSON(ctx, http.MethodPost, c.doctorsURL+PathDoctorRecommendation, profile)
	if err != nil {
		return nil, fmt.Errorf("doctor recommendations: %w", err)
	}

	var resp struct {
		Data []any `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("doctor recommendations: %w: %v", ErrMissingData, err)
	}

	ids := make([]string, 0, len(resp.Data))
	for _, v := range resp.Data {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
