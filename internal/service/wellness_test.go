package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/set-night/healthconnect/internal/backend"
	"github.com/set-night/healthconnect/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBMR(t *testing.T) {
	tests := []struct {
		name    string
		profile domain.HealthProfile
		want    int64
	}{
		{"male", domain.HealthProfile{Age: 30, Gender: "male", Height: decimal.NewFromInt(180), Weight: decimal.NewFromInt(80)}, 1780},
		{"female", domain.HealthProfile{Age: 30, Gender: "Female", Height: decimal.NewFromInt(165), Weight: decimal.NewFromInt(60)}, 1320},
		{"missing weight", domain.HealthProfile{Age: 30, Height: decimal.NewFromInt(165)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BMR(tt.profile).IntPart())
		})
	}
}

func TestParseWorkout(t *testing.T) {
	got := parseWorkout(`{"caloriesBurned":"320","benefitsSummary":"Good cardio","calorieBalance":{"totalBurned":2100,"deficit":300}}`)
	assert.True(t, got.CaloriesBurned.Equal(decimal.NewFromInt(320)))
	assert.Equal(t, "Good cardio", got.BenefitsSummary)
	assert.Equal(t, "No information available", got.BodyImpact)
	require.NotNil(t, got.CalorieBalance)
	assert.True(t, got.CalorieBalance.Deficit.Equal(decimal.NewFromInt(300)))
	assert.True(t, got.CalorieBalance.BMR.IsZero())

	plain := parseWorkout(`{"caloriesBurned":100}`)
	assert.Nil(t, plain.CalorieBalance)

	bad := parseWorkout("no idea")
	assert.Equal(t, "Analysis unavailable", bad.BenefitsSummary)
	assert.True(t, bad.CaloriesBurned.IsZero())
}

func TestAnalyzeWorkout(t *testing.T) {
	client, rs := newRouteClient(t, map[string]http.HandlerFunc{
		backend.PathWorkoutAnalysis: dataReply(`{"caloriesBurned":250}`),
	})
	svc := NewWellnessService(client)
	user := paidUser()
	user.Profile = completeProfile()

	_, err := svc.AnalyzeWorkout(context.Background(), user, domain.Workout{Type: "running"})
	assert.ErrorIs(t, err, domain.ErrEmptyEntry)

	got, err := svc.AnalyzeWorkout(context.Background(), user, domain.Workout{Type: "running", Duration: 30})
	require.NoError(t, err)
	assert.True(t, got.CaloriesBurned.Equal(decimal.NewFromInt(250)))

	body := rs.body(backend.PathWorkoutAnalysis)
	assert.Equal(t, "moderate", body["intensity"])
	assert.EqualValues(t, 1680, body["bmrValue"])
}

func TestAnalyzeJournal(t *testing.T) {
	client, rs := newRouteClient(t, map[string]http.HandlerFunc{
		backend.PathAnalyzeWellness: func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"success":true,"data":{"analysis":"You seem rested.","date":"2026-10-19","timestamp":1}}`)
		},
	})
	svc := NewWellnessService(client)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC) }

	free := paidUser()
	free.Tier = domain.TierFree
	_, err := svc.AnalyzeJournal(context.Background(), free, "slept well")
	assert.ErrorIs(t, err, domain.ErrTierRequired)

	_, err = svc.AnalyzeJournal(context.Background(), paidUser(), "  ")
	assert.ErrorIs(t, err, domain.ErrEmptyEntry)

	got, err := svc.AnalyzeJournal(context.Background(), paidUser(), "slept well")
	require.NoError(t, err)
	assert.Equal(t, "You seem rested.", got.Analysis)
	assert.Equal(t, "2026-10-19T08:00:00Z", rs.body(backend.PathAnalyzeWellness)["date"])
}

func TestHistory(t *testing.T) {
	client, rs := newRouteClient(t, map[string]http.HandlerFunc{
		backend.PathSaveHistory: func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"success":true,"data":{"_id":"h1","userId":"a@b.c"}}`)
		},
		backend.PathGetHistory + "a@b.c": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"success":true,"data":[{"_id":"h1"},{"_id":"h2"}]}`)
		},
	})
	svc := NewWellnessService(client)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 15, 4, 0, 0, time.UTC) }
	user := paidUser()

	assert.Nil(t, svc.SaveHistory(context.Background(), user, nil))
	_, err := svc.History(context.Background(), user)
	assert.ErrorIs(t, err, domain.ErrEmailRequired)

	user.Email = "a@b.c"
	saved := svc.SaveHistory(context.Background(), user, []domain.AnalysisSection{placeholderAnalysis})
	require.NotNil(t, saved)
	assert.Equal(t, "h1", saved.ID)

	body := rs.body(backend.PathSaveHistory)
	assert.Equal(t, "03:04 PM", body["timeOfDay"])
	assert.Equal(t, "Monday", body["dayOfWeek"])

	entries, err := svc.History(context.Background(), user)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	user.Email = "missing@b.c"
	entries, err = svc.History(context.Background(), user)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
