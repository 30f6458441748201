package domain

type InsightType string

const (
	InsightNormal   InsightType = "normal"
	InsightWarning  InsightType = "warning"
	InsightCritical InsightType = "critical"
	InsightPositive InsightType = "positive"
)

type Insight struct {
	Title   string
	Content string
	Type    InsightType
}

// AnalysisSection is one category of the advanced health analysis.
type AnalysisSection struct {
	Category       string `json:"category"`
	Title          string `json:"title"`
	Analysis       string `json:"analysis"`
	Recommendation string `json:"recommendation"`
	Score          int    `json:"score"`
}

type Recommendation struct {
	ID          string
	Title       string
	Description string
	Type        string // diet, exercise, lifestyle, medical
	Priority    string // high, medium, low
	Icon        string
}

type DailyInsight struct {
	Title      string `json:"title"`
	Insight    string `json:"insight"`
	Category   string `json:"category"`
	ActionItem string `json:"actionItem"`
}

// Lifestyle carries the optional answers used by the advanced analysis.
type Lifestyle struct {
	SleepHours         float64
	SleepQuality       string
	ExerciseHours      float64
	StressLevel        int
	WaterIntake        float64
	Caffeine           int
	Diet               string
	RegularMeals       bool
	LateNightSnacking  bool
	FastFood           bool
	HighSugar          bool
	Smoking            string
	AlcoholConsumption string
	MedicalConditions  string
	Medications        string
	FamilyHistory      string
}

func DefaultLifestyle() Lifestyle {
	return Lifestyle{
		SleepHours:         7,
		SleepQuality:       "Average",
		ExerciseHours:      3,
		StressLevel:        5,
		WaterIntake:        2,
		Caffeine:           2,
		Diet:               "Balanced",
		Smoking:            "Never",
		AlcoholConsumption: "Occasional",
		MedicalConditions:  "None reported",
		Medications:        "None reported",
		FamilyHistory:      "None reported",
	}
}

// HistoryEntry is a saved profile snapshot with its analysis.
type HistoryEntry struct {
	ID         string            `json:"_id"`
	UserID     string            `json:"userId"`
	Date       string            `json:"date"`
	HealthData HealthSnapshot    `json:"healthData"`
	Analysis   []AnalysisSection `json:"analysis,omitempty"`
	TimeOfDay  string            `json:"timeOfDay"`
	DayOfWeek  string            `json:"dayOfWeek"`
}
