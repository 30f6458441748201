package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/set-night/healthconnect/internal/backend"
	"github.com/set-night/healthconnect/internal/domain"
	"github.com/set-night/healthconnect/internal/extract"
	"github.com/shopspring/decimal"
)

// WellnessService covers workouts, the wellness journal and saved history.
type WellnessService struct {
	client *backend.Client
	now    func() time.Time
}

func NewWellnessService(client *backend.Client) *WellnessService {
	return &WellnessService{client: client, now: time.Now}
}

// BMR is the Mifflin-St Jeor basal metabolic rate in kcal/day, or zero when
// the profile lacks the needed fields.
func BMR(p domain.HealthProfile) decimal.Decimal {
	if p.Age <= 0 || !p.Height.IsPositive() || !p.Weight.IsPositive() {
		return decimal.Zero
	}
	bmr := decimal.NewFromInt(10).Mul(p.Weight).
		Add(decimal.NewFromFloat(6.25).Mul(p.Height)).
		Sub(decimal.NewFromInt(int64(5 * p.Age)))
	if strings.EqualFold(p.Gender, "female") {
		bmr = bmr.Sub(decimal.NewFromInt(161))
	} else {
		bmr = bmr.Add(decimal.NewFromInt(5))
	}
	return bmr.Round(0)
}

// AnalyzeWorkout estimates calories and benefits of a workout. An unparseable
// answer yields "Analysis unavailable"; transport failures are returned.
func (s *WellnessService) AnalyzeWorkout(ctx context.Context, user *domain.User, w domain.Workout) (domain.WorkoutAnalysis, error) {
	if w.Type == "" || w.Duration <= 0 {
		return domain.WorkoutAnalysis{}, domain.ErrEmptyEntry
	}
	p := user.Profile
	text, err := s.client.PostData(ctx, backend.PathWorkoutAnalysis, map[string]any{
		"workoutType":      w.Type,
		"duration":         w.Duration,
		"intensity":        orString(w.Intensity, "moderate"),
		"weight":           orFloat(p.Weight, 70),
		"gender":           orString(p.Gender, "Not specified"),
		"age":              orInt(p.Age, 30),
		"caloriesConsumed": w.CaloriesConsumed.InexactFloat64(),
		"bmrValue":         BMR(p).InexactFloat64(),
		"modelType":        user.SelectedModel,
	})
	if err != nil {
		return domain.WorkoutAnalysis{}, fmt.Errorf("failed to analyze workout: %w", err)
	}
	return parseWorkout(text), nil
}

func parseWorkout(text string) domain.WorkoutAnalysis {
	const none = "No information available"

	f, err := extract.Object(text).Unwrap()
	if err != nil {
		return domain.WorkoutAnalysis{
			BenefitsSummary: "Analysis unavailable",
			Recommendations: []string{},
			BodyImpact:      "Analysis unavailable",
		}
	}

	out := domain.WorkoutAnalysis{
		CaloriesBurned:  f.Decimal("caloriesBurned", decimal.Zero),
		BenefitsSummary: f.String("benefitsSummary", none),
		Recommendations: f.Strings("recommendations", []string{}),
		BodyImpact:      f.String("bodyImpact", none),
	}
	if f.Has("calorieBalance") {
		cb := f.Fields("calorieBalance")
		out.CalorieBalance = &domain.CalorieBalance{
			TotalBurned:  cb.Decimal("totalBurned", decimal.Zero),
			BMR:          cb.Decimal("bmr", decimal.Zero),
			ActivityBurn: cb.Decimal("activityBurn", decimal.Zero),
			Consumed:     cb.Decimal("consumed", decimal.Zero),
			Deficit:      cb.Decimal("deficit", decimal.Zero),
			WeightImpact: cb.String("weightImpact", none),
		}
	}
	return out
}

// AnalyzeJournal reflects on a wellness journal entry. Paid tiers only.
func (s *WellnessService) AnalyzeJournal(ctx context.Context, user *domain.User, entry string) (domain.WellnessAnalysis, error) {
	if !user.Tier.Paid() {
		return domain.WellnessAnalysis{}, domain.ErrTierRequired
	}
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return domain.WellnessAnalysis{}, domain.ErrEmptyEntry
	}

	var out domain.WellnessAnalysis
	err := s.client.PostEnvelope(ctx, backend.PathAnalyzeWellness, map[string]string{
		"entry": entry,
		"date":  s.now().UTC().Format(time.RFC3339Nano),
	}, &out)
	if err != nil {
		return domain.WellnessAnalysis{}, fmt.Errorf("analyze wellness entry: %w", err)
	}
	return out, nil
}

// SaveHistory stores a profile snapshot with its analysis. Failures are
// logged and yield nil.
func (s *WellnessService) SaveHistory(ctx context.Context, user *domain.User, analysis []domain.AnalysisSection) *domain.HistoryEntry {
	if user.Email == "" {
		return nil
	}
	now := s.now()
	payload := map[string]any{
		"userId":     user.Email,
		"healthData": user.Profile.Snapshot(),
		"analysis":   analysis,
		"timeOfDay":  now.Format("03:04 PM"),
		"dayOfWeek":  now.Weekday().String(),
	}

	var entry domain.HistoryEntry
	if err := s.client.PostEnvelope(ctx, backend.PathSaveHistory, payload, &entry); err != nil {
		slog.Warn("save health history", "error", err, "user_id", user.TelegramID)
		return nil
	}
	return &entry
}

// History lists saved snapshots. Failures yield an empty list.
func (s *WellnessService) History(ctx context.Context, user *domain.User) ([]domain.HistoryEntry, error) {
	if user.Email == "" {
		return nil, domain.ErrEmailRequired
	}
	var entries []domain.HistoryEntry
	if err := s.client.GetEnvelope(ctx, backend.PathGetHistory+url.PathEscape(user.Email), &entries); err != nil {
		slog.Warn("get health history", "error", err, "user_id", user.TelegramID)
		return []domain.HistoryEntry{}, nil
	}
	return entries, nil
}
