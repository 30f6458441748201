package domain

import (
	"time"
)

type Tier string

const (
	TierFree Tier = "free"
	TierLite Tier = "lite"
	TierPro  Tier = "pro"
)

func ParseTier(s string) (Tier, bool) {
	switch Tier(s) {
	case TierFree, TierLite, TierPro:
		return Tier(s), true
	}
	return "", false
}

// Paid reports whether the tier unlocks backend chat.
func (t Tier) Paid() bool {
	return t == TierLite || t == TierPro
}

type User struct {
	ID         int64
	TelegramID int64
	IsAdmin    bool
	FirstName  string
	Username   string

	// Email identifies the user to the health history endpoints.
	Email         string
	Tier          Tier
	APIKey        string
	SelectedModel string
	ChatMode      ChatMode
	Profile       HealthProfile

	LastInteraction time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (u *User) HasAPIKey() bool {
	return u.APIKey != ""
}

// CanUseModel reports whether the user's tier allows the model at all.
func (u *User) CanUseModel(m AIModel) bool {
	return u.Tier.Paid() && (!m.Premium || u.Tier == TierPro)
}
