package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/set-night/healthconnect/internal/backend"
	"github.com/set-night/healthconnect/internal/config"
	"github.com/set-night/healthconnect/internal/domain"
	"github.com/set-night/healthconnect/internal/extract"
	"github.com/shopspring/decimal"
)

// HealthService produces insights, analyses and recommendations for a
// user's health profile.
type HealthService struct {
	client *backend.Client
	chat   *ChatService
	kv     KeyValue
}

func NewHealthService(client *backend.Client, chat *ChatService, kv KeyValue) *HealthService {
	return &HealthService{client: client, chat: chat, kv: kv}
}

func orFloat(d decimal.Decimal, def float64) float64 {
	if !d.IsPositive() {
		return def
	}
	return d.InexactFloat64()
}

func orString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// basicPayload is the profile shape shared by most backend endpoints.
func basicPayload(model string, p domain.HealthProfile) map[string]any {
	return map[string]any{
		"modelType":    model,
		"age":          p.Age,
		"gender":       orString(p.Gender, "Not specified"),
		"height":       orFloat(p.Height, 170),
		"weight":       orFloat(p.Weight, 70),
		"bmi":          orFloat(p.BMI(), 24),
		"bmiCategory":  orString(p.BMICategory(), "Normal"),
		"bloodGlucose": orFloat(p.BloodGlucose, 100),
	}
}

// Insights returns up to four insight cards. Any failure falls back to
// insights derived locally from the profile.
func (s *HealthService) Insights(ctx context.Context, user *domain.User) []domain.Insight {
	if !user.Profile.Completed() {
		return SampleInsights(user.Profile)
	}

	text, err := s.client.PostData(ctx, backend.PathHealthInsights, basicPayload(user.SelectedModel, user.Profile))
	if err != nil {
		slog.Warn("fetch health insights", "error", err, "user_id", user.TelegramID)
		return SampleInsights(user.Profile)
	}

	insights, err := parseInsights(text)
	if err != nil {
		slog.Warn("parse health insights", "error", err, "user_id", user.TelegramID)
		return SampleInsights(user.Profile)
	}
	return insights
}

func parseInsights(text string) ([]domain.Insight, error) {
	items, err := extract.Array(text).Unwrap()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Insight, 0, config.MaxInsights)
	for _, item := range items {
		if len(out) == config.MaxInsights {
			break
		}
		out = append(out, domain.Insight{
			Title:   item.String("title", "Health Insight"),
			Content: item.String("content", "No content provided"),
			Type: domain.InsightType(item.OneOf("type", string(domain.InsightNormal),
				string(domain.InsightNormal), string(domain.InsightWarning),
				string(domain.InsightCritical), string(domain.InsightPositive))),
		})
	}
	return out, nil
}

// SampleInsights builds insight cards from the profile alone.
func SampleInsights(p domain.HealthProfile) []domain.Insight {
	var out []domain.Insight

	switch p.BMICategory() {
	case "":
		out = append(out, domain.Insight{
			Title:   "Complete Your Profile",
			Content: "Add your age, gender, height and weight to receive personalized insights.",
			Type:    domain.InsightNormal,
		})
	case "Normal":
		out = append(out, domain.Insight{
			Title:   "Healthy Weight",
			Content: fmt.Sprintf("Your BMI of %s is in the normal range. Keep up your current habits.", p.BMI()),
			Type:    domain.InsightPositive,
		})
	default:
		out = append(out, domain.Insight{
			Title:   "Weight Management",
			Content: fmt.Sprintf("Your BMI of %s is in the %s range. Small changes in diet and activity can help.", p.BMI(), strings.ToLower(p.BMICategory())),
			Type:    domain.InsightWarning,
		})
	}

	switch g := p.BloodGlucose; {
	case g.GreaterThan(decimal.NewFromInt(125)):
		out = append(out, domain.Insight{
			Title:   "High Blood Glucose",
			Content: fmt.Sprintf("A reading of %s mg/dL is above the diabetic threshold. Please consult a doctor.", g),
			Type:    domain.InsightCritical,
		})
	case g.GreaterThan(decimal.NewFromInt(99)):
		out = append(out, domain.Insight{
			Title:   "Elevated Blood Glucose",
			Content: fmt.Sprintf("A reading of %s mg/dL is slightly elevated. Limit added sugars and refined carbs.", g),
			Type:    domain.InsightWarning,
		})
	case g.IsPositive():
		out = append(out, domain.Insight{
			Title:   "Blood Glucose in Range",
			Content: fmt.Sprintf("A reading of %s mg/dL is within the normal fasting range.", g),
			Type:    domain.InsightPositive,
		})
	}

	if p.SleepScore > 0 && p.SleepScore < 60 {
		out = append(out, domain.Insight{
			Title:   "Improve Your Sleep",
			Content: "Your sleep score is low. Aim for 7-9 hours with a consistent bedtime.",
			Type:    domain.InsightWarning,
		})
	}
	if p.HydrationScore > 0 && p.HydrationScore < 50 {
		out = append(out, domain.Insight{
			Title:   "Drink More Water",
			Content: "Your hydration score is low. Keep a water bottle nearby through the day.",
			Type:    domain.InsightWarning,
		})
	}

	if len(out) < 2 {
		out = append(out, domain.Insight{
			Title:   "Stay Active",
			Content: "Aim for at least 150 minutes of moderate activity each week.",
			Type:    domain.InsightNormal,
		})
	}
	if len(out) > config.MaxInsights {
		out = out[:config.MaxInsights]
	}
	return out
}

// AdvancedAnalysis scores the profile and lifestyle by category. When the
// analysis endpoint fails the health report endpoint is tried once; if both
// fail the first error is returned.
func (s *HealthService) AdvancedAnalysis(ctx context.Context, user *domain.User, life domain.Lifestyle) ([]domain.AnalysisSection, error) {
	if !user.HasAPIKey() {
		return nil, domain.ErrTierRequired
	}

	payload := basicPayload(user.SelectedModel, user.Profile)
	payload["age"] = orInt(user.Profile.Age, 30)
	payload["bloodGlucose"] = orFloat(user.Profile.BloodGlucose, 90)
	payload["bmi"] = orFloat(user.Profile.BMI(), 24.2)
	payload["sleepHours"] = life.SleepHours
	payload["sleepQuality"] = life.SleepQuality
	payload["exerciseHours"] = life.ExerciseHours
	payload["stressLevel"] = life.StressLevel
	payload["waterIntake"] = life.WaterIntake
	payload["hydrationScore"] = orInt(user.Profile.HydrationScore, 50)
	payload["caffeine"] = life.Caffeine
	payload["diet"] = life.Diet
	payload["regularMeals"] = life.RegularMeals
	payload["lateNightSnacking"] = life.LateNightSnacking
	payload["highSugar"] = life.HighSugar
	payload["fastFood"] = life.FastFood
	payload["smoking"] = life.Smoking
	payload["alcoholConsumption"] = life.AlcoholConsumption
	payload["medicalConditions"] = life.MedicalConditions
	payload["medications"] = life.Medications
	payload["familyHistory"] = life.FamilyHistory

	text, err := s.client.PostData(ctx, backend.PathAdvancedAnalysis, payload)
	if err != nil {
		slog.Warn("advanced analysis failed, trying health report", "error", err, "user_id", user.TelegramID)
		fallback := map[string]any{"apiKey": user.APIKey}
		for _, k := range []string{"modelType", "age", "gender", "height", "weight", "bmi", "bmiCategory", "bloodGlucose"} {
			fallback[k] = payload[k]
		}
		var ferr error
		text, ferr = s.client.PostData(ctx, backend.PathHealthReport, fallback)
		if ferr != nil {
			return nil, fmt.Errorf("failed to analyze health data: %w", err)
		}
	}

	sections := parseAnalysis(text)
	s.saveLastAnalysis(ctx, user, sections)
	return sections, nil
}

func lastAnalysisKey(user *domain.User) string {
	return fmt.Sprintf("%d:lastAnalysis", user.TelegramID)
}

func (s *HealthService) saveLastAnalysis(ctx context.Context, user *domain.User, sections []domain.AnalysisSection) {
	raw, err := json.Marshal(sections)
	if err == nil {
		err = s.kv.Set(ctx, lastAnalysisKey(user), string(raw), 0)
	}
	if err != nil {
		slog.Warn("store last analysis", "error", err, "user_id", user.TelegramID)
	}
}

// LastAnalysis returns the user's most recent advanced analysis, or nil when
// none was completed.
func (s *HealthService) LastAnalysis(ctx context.Context, user *domain.User) ([]domain.AnalysisSection, error) {
	raw, ok, err := s.kv.Get(ctx, lastAnalysisKey(user))
	if err != nil || !ok {
		return nil, err
	}
	var sections []domain.AnalysisSection
	if err := json.Unmarshal([]byte(raw), &sections); err != nil {
		return nil, fmt.Errorf("decode last analysis: %w", err)
	}
	return sections, nil
}

func orInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

var placeholderAnalysis = domain.AnalysisSection{
	Category:       "overall",
	Title:          "Overall Health",
	Analysis:       "Unable to analyze health data at this time.",
	Recommendation: "Please try again later or contact support if the issue persists.",
	Score:          70,
}

var typeCategories = map[string]string{
	"diet":      "nutrition",
	"exercise":  "exercise",
	"lifestyle": "lifestyle",
	"medical":   "medical",
}

func parseAnalysis(text string) []domain.AnalysisSection {
	items, err := extract.Array(text).Unwrap()
	if err != nil {
		return []domain.AnalysisSection{placeholderAnalysis}
	}

	out := make([]domain.AnalysisSection, 0, len(items))
	for _, item := range items {
		title := item.String("title", "")
		section := domain.AnalysisSection{
			Category:       inferCategory(item),
			Title:          orString(title, "Health Analysis"),
			Analysis:       item.String("analysis", "No analysis provided"),
			Recommendation: item.String("recommendation", "No recommendations provided"),
			Score:          70,
		}
		if v, ok := item["score"].(float64); ok {
			section.Score = int(v)
		}

		// Health report answers carry description instead of analysis.
		if item.String("analysis", "") == "" && item.String("recommendation", "") == "" {
			if desc := item.String("description", ""); desc != "" {
				section.Analysis = desc
				section.Recommendation = orString(title, desc)
			} else if title != "" {
				section.Analysis = title
				section.Recommendation = title
			}
		}
		out = append(out, section)
	}
	return out
}

func inferCategory(item extract.Fields) string {
	category := item.String("category", "overall")
	if item.String("category", "") == "" {
		if c, ok := typeCategories[item.String("type", "")]; ok {
			category = c
		}
	}

	id := strings.ToLower(item.String("id", ""))
	title := strings.ToLower(item.String("title", ""))

	switch {
	case strings.Contains(id, "sleep") || strings.Contains(title, "sleep"):
		category = "sleep"
	case strings.Contains(id, "stress") || strings.Contains(title, "stress"):
		category = "stress"
	case strings.Contains(id, "hydra") || strings.Contains(title, "water"):
		category = "hydration"
	}

	if category == "overall" {
		switch {
		case strings.Contains(id, "diet") || strings.Contains(title, "diet") || strings.Contains(title, "food") || strings.Contains(title, "eat"):
			category = "nutrition"
		case strings.Contains(id, "exercise") || strings.Contains(title, "exercise") || strings.Contains(title, "workout") || strings.Contains(title, "activity"):
			category = "exercise"
		case strings.Contains(id, "med") || strings.Contains(title, "doctor"):
			category = "medical"
		case strings.Contains(id, "life") || strings.Contains(title, "habit"):
			category = "lifestyle"
		}
	}
	return category
}

// Recommendations fetches the health report recommendations. Failures are
// returned to the caller.
func (s *HealthService) Recommendations(ctx context.Context, user *domain.User) ([]domain.Recommendation, error) {
	if !user.Profile.Completed() {
		return nil, domain.ErrProfileIncomplete
	}

	text, err := s.client.PostData(ctx, backend.PathHealthReport, basicPayload(user.SelectedModel, user.Profile))
	if err != nil {
		return nil, fmt.Errorf("fetch recommendations: %w", err)
	}
	recs, err := parseRecommendations(text)
	if err != nil {
		return nil, fmt.Errorf("could not parse health recommendations: %w", err)
	}
	return recs, nil
}

func parseRecommendations(text string) ([]domain.Recommendation, error) {
	items, err := extract.Array(text).Unwrap()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Recommendation, 0, len(items))
	for i, item := range items {
		out = append(out, domain.Recommendation{
			ID:          item.String("id", fmt.Sprintf("rec-%d", i)),
			Title:       item.String("title", "Health Recommendation"),
			Description: item.String("description", "No description provided"),
			Type:        item.OneOf("type", "lifestyle", "diet", "exercise", "lifestyle", "medical"),
			Priority:    item.OneOf("priority", "medium", "high", "medium", "low"),
			Icon:        item.String("icon", "heart-pulse"),
		})
	}
	return out, nil
}

const dailyInsightPrompt = `Analyze this user's health data and provide ONE single, unique, personalized daily health insight.

User Data:
- Age: %d
- BMI: %s (%s)
- Sleep Score: %s
- Stress Score: %s
- Gender: %s

Return ONLY a valid JSON object with this structure:
{
  "title": "Short catchy title",
  "insight": "One sentence insight based on their specific data",
  "category": "sleep" | "nutrition" | "stress" | "exercise" | "general",
  "actionItem": "One simple specific action they can take today"
}`

// DailyInsight asks a throwaway chat session for one personalized tip. It is
// a pro tier feature; nil means nothing could be produced.
func (s *HealthService) DailyInsight(ctx context.Context, user *domain.User) (*domain.DailyInsight, error) {
	if user.Tier != domain.TierPro {
		return nil, domain.ErrTierRequired
	}
	if !user.Profile.Completed() {
		return nil, domain.ErrProfileIncomplete
	}

	p := user.Profile
	prompt := fmt.Sprintf(dailyInsightPrompt, p.Age, p.BMI(), p.BMICategory(),
		scoreOrNA(p.SleepScore), scoreOrNA(p.StressScore), p.Gender)

	text, err := s.chat.Ephemeral(ctx, user.SelectedModel, prompt)
	if err != nil {
		slog.Warn("daily insight", "error", err, "user_id", user.TelegramID)
		return nil, nil
	}
	fields, err := extract.Object(text).Unwrap()
	if err != nil {
		slog.Warn("parse daily insight", "error", err, "user_id", user.TelegramID)
		return nil, nil
	}
	return &domain.DailyInsight{
		Title:      fields.String("title", "Today's Insight"),
		Insight:    fields.String("insight", ""),
		Category:   fields.OneOf("category", "general", "sleep", "nutrition", "stress", "exercise", "general"),
		ActionItem: fields.String("actionItem", ""),
	}, nil
}

func scoreOrNA(v int) string {
	if v <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", v)
}

// IsUnavailable reports errors that mean the backend could not be reached or
// answered badly, as opposed to a problem with the user's input.
func IsUnavailable(err error) bool {
	var he *backend.HTTPError
	return errors.Is(err, backend.ErrTransport) || errors.Is(err, backend.ErrMissingData) || errors.As(err, &he)
}
