package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// HealthProfile holds the user's self-reported metrics. Height is in cm,
// weight in kg and blood glucose in mg/dL. Scores are 0-100, zero meaning unset.
type HealthProfile struct {
	Age            int
	Gender         string
	Height         decimal.Decimal
	Weight         decimal.Decimal
	BloodGlucose   decimal.Decimal
	SleepScore     int
	ExerciseScore  int
	StressScore    int
	HydrationScore int
}

var hundred = decimal.NewFromInt(100)

// BMI is weight / height(m)^2 rounded to one decimal, or zero when height or
// weight is missing.
func (p HealthProfile) BMI() decimal.Decimal {
	if !p.Height.IsPositive() || !p.Weight.IsPositive() {
		return decimal.Zero
	}
	m := p.Height.Div(hundred)
	return p.Weight.Div(m.Mul(m)).Round(1)
}

func (p HealthProfile) BMICategory() string {
	bmi := p.BMI()
	switch {
	case bmi.IsZero():
		return ""
	case bmi.LessThan(decimal.NewFromFloat(18.5)):
		return "Underweight"
	case bmi.LessThan(decimal.NewFromInt(25)):
		return "Normal"
	case bmi.LessThan(decimal.NewFromInt(30)):
		return "Overweight"
	default:
		return "Obese"
	}
}

// Completed reports whether the fields every analysis needs are present.
func (p HealthProfile) Completed() bool {
	return p.Age > 0 && p.Gender != "" && p.Height.IsPositive() && p.Weight.IsPositive()
}

// ProfileFields lists the names accepted by Set.
var ProfileFields = []string{"age", "gender", "height", "weight", "glucose", "sleep", "exercise", "stress", "hydration"}

// Set parses value into the named field.
func (p *HealthProfile) Set(field, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(field) {
	case "age":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 || n > 130 {
			return fmt.Errorf("%w: age %q", ErrInvalidProfileData, value)
		}
		p.Age = n
	case "gender":
		if value == "" {
			return fmt.Errorf("%w: empty gender", ErrInvalidProfileData)
		}
		p.Gender = value
	case "height":
		return setPositive(&p.Height, "height", value)
	case "weight":
		return setPositive(&p.Weight, "weight", value)
	case "glucose":
		return setPositive(&p.BloodGlucose, "glucose", value)
	case "sleep":
		return setScore(&p.SleepScore, "sleep", value)
	case "exercise":
		return setScore(&p.ExerciseScore, "exercise", value)
	case "stress":
		return setScore(&p.StressScore, "stress", value)
	case "hydration":
		return setScore(&p.HydrationScore, "hydration", value)
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidProfileData, field)
	}
	return nil
}

func setPositive(dst *decimal.Decimal, name, value string) error {
	d, err := decimal.NewFromString(value)
	if err != nil || !d.IsPositive() {
		return fmt.Errorf("%w: %s %q", ErrInvalidProfileData, name, value)
	}
	*dst = d
	return nil
}

func setScore(dst *int, name, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 || n > 100 {
		return fmt.Errorf("%w: %s %q", ErrInvalidProfileData, name, value)
	}
	*dst = n
	return nil
}

// HealthSnapshot is the JSON form of a profile sent to and stored by the backend.
type HealthSnapshot struct {
	Age            int     `json:"age"`
	Gender         string  `json:"gender"`
	Height         float64 `json:"height"`
	Weight         float64 `json:"weight"`
	BMI            float64 `json:"bmi"`
	BMICategory    string  `json:"bmiCategory"`
	BloodGlucose   float64 `json:"bloodGlucose"`
	SleepScore     int     `json:"sleepScore"`
	ExerciseScore  int     `json:"exerciseScore"`
	StressScore    int     `json:"stressScore"`
	HydrationScore int     `json:"hydrationScore"`
}

func (p HealthProfile) Snapshot() HealthSnapshot {
	return HealthSnapshot{
		Age:            p.Age,
		Gender:         p.Gender,
		Height:         p.Height.InexactFloat64(),
		Weight:         p.Weight.InexactFloat64(),
		BMI:            p.BMI().InexactFloat64(),
		BMICategory:    p.BMICategory(),
		BloodGlucose:   p.BloodGlucose.InexactFloat64(),
		SleepScore:     p.SleepScore,
		ExerciseScore:  p.ExerciseScore,
		StressScore:    p.StressScore,
		HydrationScore: p.HydrationScore,
	}
}
