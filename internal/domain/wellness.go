package domain

import "github.com/shopspring/decimal"

type Workout struct {
	Type             string
	Duration         int // minutes
	Intensity        string
	CaloriesConsumed decimal.Decimal
}

type CalorieBalance struct {
	TotalBurned  decimal.Decimal
	BMR          decimal.Decimal
	ActivityBurn decimal.Decimal
	Consumed     decimal.Decimal
	Deficit      decimal.Decimal
	WeightImpact string
}

type WorkoutAnalysis struct {
	CaloriesBurned  decimal.Decimal
	BenefitsSummary string
	Recommendations []string
	BodyImpact      string
	CalorieBalance  *CalorieBalance
}

type WellnessAnalysis struct {
	Analysis  string `json:"analysis"`
	Date      string `json:"date"`
	Timestamp int64  `json:"timestamp"`
}
