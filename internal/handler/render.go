package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/set-night/healthconnect/internal/domain"
	tg "github.com/set-night/healthconnect/internal/telegram"
)

var esc = tg.EscapeMarkdown

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func scoreText(v int) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d/100", v)
}

func renderProfile(user *domain.User) string {
	p := user.Profile
	var sb strings.Builder
	sb.WriteString("📋 *Health profile*\n\n")
	if p.Age > 0 {
		fmt.Fprintf(&sb, "Age: %d\n", p.Age)
	} else {
		sb.WriteString("Age: -\n")
	}
	fmt.Fprintf(&sb, "Gender: %s\n", esc(orDash(p.Gender)))
	if p.Height.IsPositive() {
		fmt.Fprintf(&sb, "Height: %s cm\n", p.Height)
	} else {
		sb.WriteString("Height: -\n")
	}
	if p.Weight.IsPositive() {
		fmt.Fprintf(&sb, "Weight: %s kg\n", p.Weight)
	} else {
		sb.WriteString("Weight: -\n")
	}
	if bmi := p.BMI(); !bmi.IsZero() {
		fmt.Fprintf(&sb, "BMI: %s (%s)\n", bmi.StringFixed(1), p.BMICategory())
	}
	if p.BloodGlucose.IsPositive() {
		fmt.Fprintf(&sb, "Blood glucose: %s mg/dL\n", p.BloodGlucose)
	}
	fmt.Fprintf(&sb, "Sleep: %s\nExercise: %s\nStress: %s\nHydration: %s\n",
		scoreText(p.SleepScore), scoreText(p.ExerciseScore), scoreText(p.StressScore), scoreText(p.HydrationScore))

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Plan: *%s*\n", user.Tier)
	if model, _ := domain.LookupModel(user.SelectedModel); model.Name != "" {
		fmt.Fprintf(&sb, "Model: %s\n", esc(model.Name))
	}
	fmt.Fprintf(&sb, "Email: %s\n", esc(orDash(user.Email)))
	if !p.Completed() {
		sb.WriteString("\nAge, gender, height and weight are needed for most analyses. Use /set to fill them in.")
	}
	return strings.TrimRight(sb.String(), "\n")
}

var insightIcons = map[domain.InsightType]string{
	domain.InsightNormal:   "ℹ️",
	domain.InsightWarning:  "⚠️",
	domain.InsightCritical: "🚨",
	domain.InsightPositive: "✅",
}

func renderInsights(insights []domain.Insight) string {
	if len(insights) == 0 {
		return "No insights right now."
	}
	var sb strings.Builder
	sb.WriteString("💡 *Health insights*\n")
	for _, in := range insights {
		fmt.Fprintf(&sb, "\n%s *%s*\n%s\n", insightIcons[in.Type], esc(in.Title), esc(in.Content))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderAnalysis(sections []domain.AnalysisSection) string {
	var sb strings.Builder
	sb.WriteString("🔬 *Advanced health analysis*\n")
	for _, s := range sections {
		fmt.Fprintf(&sb, "\n*%s* (%s, %d/100)\n%s\n👉 %s\n",
			esc(s.Title), esc(s.Category), s.Score, esc(s.Analysis), esc(s.Recommendation))
	}
	return strings.TrimRight(sb.String(), "\n")
}

var priorityIcons = map[string]string{
	"high":   "🔴",
	"medium": "🟡",
	"low":    "🟢",
}

func renderRecommendations(recs []domain.Recommendation) string {
	if len(recs) == 0 {
		return "No recommendations right now."
	}
	var sb strings.Builder
	sb.WriteString("🎯 *Recommendations*\n")
	for _, r := range recs {
		fmt.Fprintf(&sb, "\n%s *%s* (%s)\n%s\n", priorityIcons[r.Priority], esc(r.Title), r.Type, esc(r.Description))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderDailyInsight(d domain.DailyInsight) string {
	text := fmt.Sprintf("🌅 *%s*\n\n%s", esc(d.Title), esc(d.Insight))
	if d.ActionItem != "" {
		text += "\n\n✅ " + esc(d.ActionItem)
	}
	return text + "\n\n#" + d.Category
}

func renderHistory(entries []domain.HistoryEntry, limit int) string {
	if len(entries) == 0 {
		return "📂 No saved analyses yet."
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	var sb strings.Builder
	sb.WriteString("📂 *Saved analyses*\n")
	for _, e := range entries {
		date := e.Date
		if t, err := time.Parse(time.RFC3339, e.Date); err == nil {
			date = t.Format("2006-01-02")
		}
		fmt.Fprintf(&sb, "\n*%s* %s, %s\n", date, e.DayOfWeek, e.TimeOfDay)
		fmt.Fprintf(&sb, "BMI %.1f (%s), glucose %.0f\n", e.HealthData.BMI, orDash(e.HealthData.BMICategory), e.HealthData.BloodGlucose)
		for _, s := range e.Analysis {
			fmt.Fprintf(&sb, "• %s: %d/100\n", esc(s.Title), s.Score)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderNutritionAnalysis(a domain.NutritionAnalysis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🥗 *Nutrition estimate*\n\nCalories: %s\nProtein: %s\nCarbs: %s\nFat: %s\nFiber: %s\n",
		esc(a.Calories), esc(a.Protein), esc(a.Carbs), esc(a.Fat), esc(a.Fiber))
	if len(a.Recommendations) > 0 {
		sb.WriteString("\n*Suggestions*\n")
		for _, r := range a.Recommendations {
			fmt.Fprintf(&sb, "• %s\n", esc(r))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderNutritionPlan(p domain.NutritionPlan) string {
	var sb strings.Builder
	sb.WriteString("📅 *Nutrition plan*\n")
	for _, c := range p.Categories {
		fmt.Fprintf(&sb, "\n*%s*\n%s\n", esc(c.Category), esc(strings.Join(c.Foods, ", ")))
		if c.Benefits != "" {
			fmt.Fprintf(&sb, "_%s_\n", esc(c.Benefits))
		}
		if c.MealPlan != "" {
			fmt.Fprintf(&sb, "🍽 %s\n", esc(c.MealPlan))
		}
	}
	if p.GeneralAdvice != "" {
		fmt.Fprintf(&sb, "\n💬 %s", esc(p.GeneralAdvice))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func numbered(sb *strings.Builder, items []string) {
	for i, it := range items {
		fmt.Fprintf(sb, "%d. %s\n", i+1, esc(it))
	}
}

func renderRecipe(r domain.Recipe) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👩‍🍳 *%s*\n%s\n\n⏱ %s\n", esc(r.Title), esc(r.Description), esc(r.PreparationTime))
	if len(r.Ingredients) > 0 {
		sb.WriteString("\n*Ingredients*\n")
		for _, it := range r.Ingredients {
			fmt.Fprintf(&sb, "• %s\n", esc(it))
		}
	}
	if len(r.Instructions) > 0 {
		sb.WriteString("\n*Steps*\n")
		numbered(&sb, r.Instructions)
	}
	if r.NutritionInfo != "" {
		fmt.Fprintf(&sb, "\n📊 %s", esc(r.NutritionInfo))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderMealIdea(m domain.MealIdea) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🍳 *%s*\n%s\n\n⏱ %s\n\n*Ingredients*\n", esc(m.Title), esc(m.Description), esc(m.PreparationTime))
	for _, in := range m.Ingredients {
		line := fmt.Sprintf("• %s: %s", esc(in.Name), esc(in.Amount))
		if in.Optional {
			line += " (optional)"
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n*Steps*\n")
	numbered(&sb, m.Instructions)
	n := m.Nutrition
	fmt.Fprintf(&sb, "\n📊 %s kcal, protein %s, carbs %s, fat %s\n",
		esc(n.Calories), esc(n.Protein), esc(n.Carbs), esc(n.Fat))
	if m.Tips != "" {
		fmt.Fprintf(&sb, "\n💡 %s", esc(m.Tips))
	}
	return strings.TrimRight(sb.String(), "\n")
}

var foodCategoryIcons = map[string]string{
	"healthy":   "🟢",
	"neutral":   "🟡",
	"unhealthy": "🟠",
	"junk":      "🔴",
}

var verdictIcons = map[string]string{
	"safe":    "✅",
	"caution": "⚠️",
	"avoid":   "⛔",
}

func renderFoodSearch(f domain.FoodSearchInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s *%s* (%s)\n", foodCategoryIcons[f.Category], esc(f.Name), f.Category)
	if f.IsNonFood {
		sb.WriteString("\nThis is not a food.\n")
		if len(f.Ingredients) > 0 {
			fmt.Fprintf(&sb, "Made of: %s\n", esc(strings.Join(f.Ingredients, ", ")))
		}
	} else {
		fmt.Fprintf(&sb, "\nCalories: %s\nProtein: %s\nCarbs: %s\nFat: %s\n",
			esc(f.Calories), esc(f.Protein), esc(f.Carbs), esc(f.Fat))
		if f.IsVegan {
			sb.WriteString("🌱 Vegan\n")
		}
		if len(f.Ingredients) > 0 {
			fmt.Fprintf(&sb, "Ingredients: %s\n", esc(strings.Join(f.Ingredients, ", ")))
		}
	}
	if len(f.Benefits) > 0 {
		sb.WriteString("\n*Benefits*\n")
		for _, b := range f.Benefits {
			fmt.Fprintf(&sb, "• %s\n", esc(b))
		}
	}
	if len(f.HealthImplications) > 0 {
		sb.WriteString("\n*Health notes*\n")
		for _, h := range f.HealthImplications {
			fmt.Fprintf(&sb, "• %s\n", esc(h))
		}
	}
	if v := f.Verdict; v != nil {
		fmt.Fprintf(&sb, "\n%s *For you: %s*\n%s\n", verdictIcons[v.Verdict], v.Verdict, esc(v.Reason))
		if v.HealthConditionMatch != "" {
			fmt.Fprintf(&sb, "Related to: %s\n", esc(v.HealthConditionMatch))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderFoodCategory(c domain.FoodCategory) string {
	text := fmt.Sprintf("*%s*\n%s", esc(c.Category), esc(strings.Join(c.Foods, ", ")))
	if c.Benefits != "" {
		text += "\n\n" + esc(c.Benefits)
	}
	return text
}

func renderWorkout(w domain.Workout, a domain.WorkoutAnalysis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏋️ *%s, %d min*\n\n🔥 %s kcal burned\n\n%s\n",
		esc(w.Type), w.Duration, a.CaloriesBurned.Round(0), esc(a.BenefitsSummary))
	if a.BodyImpact != "" {
		fmt.Fprintf(&sb, "\n💪 %s\n", esc(a.BodyImpact))
	}
	if len(a.Recommendations) > 0 {
		sb.WriteString("\n*Recommendations*\n")
		for _, r := range a.Recommendations {
			fmt.Fprintf(&sb, "• %s\n", esc(r))
		}
	}
	if cb := a.CalorieBalance; cb != nil {
		fmt.Fprintf(&sb, "\n*Calorie balance*\nBMR: %s\nActivity: %s\nTotal burned: %s\nConsumed: %s\nDeficit: %s\n",
			cb.BMR.Round(0), cb.ActivityBurn.Round(0), cb.TotalBurned.Round(0), cb.Consumed.Round(0), cb.Deficit.Round(0))
		if cb.WeightImpact != "" {
			fmt.Fprintf(&sb, "⚖️ %s\n", esc(cb.WeightImpact))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderJournal(a domain.WellnessAnalysis) string {
	return "📓 *Journal reflection*\n\n" + esc(tg.PlainText(a.Analysis))
}

func renderDoctors(title string, doctors []domain.Doctor) string {
	if len(doctors) == 0 {
		return "🩺 No doctors found."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "🩺 *%s*\n", title)
	for _, d := range doctors {
		fmt.Fprintf(&sb, "\n*%s* (%s)\n🏥 %s, %s\n⭐ %.1f, %d years\n",
			esc(d.Name), esc(d.Specialty), esc(d.Hospital), esc(d.Location), d.Rating, d.Experience)
		if len(d.Subspecialties) > 0 {
			fmt.Fprintf(&sb, "Also: %s\n", esc(strings.Join(d.Subspecialties, ", ")))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// buildReport renders the downloadable health report as a Markdown document.
func buildReport(user *domain.User, sections []domain.AnalysisSection, now time.Time) []byte {
	p := user.Profile
	var sb strings.Builder
	sb.WriteString("# Health Report\n\n")
	fmt.Fprintf(&sb, "Generated %s\n\n", now.Format("January 2, 2006 15:04"))

	sb.WriteString("## Profile\n\n")
	sb.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Age | %d |\n", p.Age)
	fmt.Fprintf(&sb, "| Gender | %s |\n", orDash(p.Gender))
	fmt.Fprintf(&sb, "| Height | %s cm |\n", p.Height)
	fmt.Fprintf(&sb, "| Weight | %s kg |\n", p.Weight)
	fmt.Fprintf(&sb, "| BMI | %s (%s) |\n", p.BMI().StringFixed(1), orDash(p.BMICategory()))
	if p.BloodGlucose.IsPositive() {
		fmt.Fprintf(&sb, "| Blood glucose | %s mg/dL |\n", p.BloodGlucose)
	}
	fmt.Fprintf(&sb, "| Sleep | %s |\n", scoreText(p.SleepScore))
	fmt.Fprintf(&sb, "| Exercise | %s |\n", scoreText(p.ExerciseScore))
	fmt.Fprintf(&sb, "| Stress | %s |\n", scoreText(p.StressScore))
	fmt.Fprintf(&sb, "| Hydration | %s |\n", scoreText(p.HydrationScore))

	sb.WriteString("\n## Analysis\n\n")
	if len(sections) == 0 {
		sb.WriteString("No advanced analysis yet. Run /analysis in the bot to include one.\n")
	}
	for _, s := range sections {
		fmt.Fprintf(&sb, "### %s (%d/100)\n\n", s.Title, s.Score)
		fmt.Fprintf(&sb, "*Category:* %s\n\n%s\n\n**Recommendation:** %s\n\n", s.Category, s.Analysis, s.Recommendation)
	}

	sb.WriteString("---\n\nThis report is informational and is not a medical diagnosis.\n")
	return []byte(sb.String())
}
