package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/set-night/healthconnect/internal/backend"
	"github.com/set-night/healthconnect/internal/domain"
	"github.com/set-night/healthconnect/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNutritionAnalysis(t *testing.T) {
	got := parseNutritionAnalysis(`{"calories":"450 kcal","protein":"20g","recommendations":["Add greens"]}`)
	assert.Equal(t, domain.NutritionAnalysis{
		Calories: "450 kcal", Protein: "20g", Carbs: "0g", Fat: "0g", Fiber: "0g",
		Recommendations: []string{"Add greens"},
	}, got)

	bad := parseNutritionAnalysis("I could not estimate that")
	assert.Equal(t, "N/A", bad.Calories)
	assert.Equal(t, "N/A", bad.Fiber)
	assert.Empty(t, bad.Recommendations)
}

func TestAnalyze_EmptyEntry(t *testing.T) {
	svc := NewNutritionService(nil, nil)
	_, err := svc.Analyze(context.Background(), paidUser(), "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyEntry)
}

func TestParseNutritionPlan(t *testing.T) {
	plan, err := parseNutritionPlan(`{"categories":[{"category":"Greens","foods":["Kale"]}],"generalAdvice":"Eat well"}`)
	require.NoError(t, err)
	assert.Equal(t, "Eat well", plan.GeneralAdvice)
	require.Len(t, plan.Categories, 1)
	assert.Equal(t, "No benefits information provided", plan.Categories[0].Benefits)

	_, err = parseNutritionPlan(`{"generalAdvice":"no list"}`)
	assert.ErrorIs(t, err, extract.ErrShape)
}

func TestPlan_RequiresMeasurements(t *testing.T) {
	svc := NewNutritionService(nil, nil)
	_, err := svc.Plan(context.Background(), paidUser(), nil)
	assert.ErrorIs(t, err, domain.ErrProfileIncomplete)
}

func TestPlan_SendsAllergies(t *testing.T) {
	client, rs := newRouteClient(t, map[string]http.HandlerFunc{
		backend.PathNutritionPlan: dataReply(`{"categories":[]}`),
	})
	svc := NewNutritionService(client, nil)
	user := paidUser()
	user.Profile = completeProfile()

	_, err := svc.Plan(context.Background(), user, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{}, rs.body(backend.PathNutritionPlan)["allergies"])
}

func TestParseMealIdea(t *testing.T) {
	got := parseMealIdea(`{"title":"Omelette","ingredients":[{"name":"Eggs","amount":"2"},{"name":"Chives","optional":true}],"nutritionInfo":{"calories":"300"}}`)
	assert.Equal(t, "Omelette", got.Title)
	assert.Equal(t, []domain.MealIngredient{
		{Name: "Eggs", Amount: "2"},
		{Name: "Chives", Amount: "As needed", Optional: true},
	}, got.Ingredients)
	assert.Equal(t, "300", got.Nutrition.Calories)
	assert.Equal(t, "Not available", got.Nutrition.Fat)
	assert.Equal(t, []string{"No instructions provided"}, got.Instructions)

	placeholder := parseMealIdea("nothing useful")
	assert.Equal(t, "Simple Meal", placeholder.Title)
	assert.Equal(t, []string{"Unable to generate detailed instructions"}, placeholder.Instructions)
}

func TestSearch_NonFood(t *testing.T) {
	client, rs := newRouteClient(t, map[string]http.HandlerFunc{
		backend.PathFoodIdentification: dataReply(`{"isFood":false,"components":["plastic"]}`),
	})
	svc := NewNutritionService(client, nil)

	got, err := svc.Search(context.Background(), paidUser(), "bottle")
	require.NoError(t, err)
	assert.True(t, got.IsNonFood)
	assert.Equal(t, "junk", got.Category)
	assert.Equal(t, []string{"plastic"}, got.Ingredients)
	assert.Nil(t, rs.body(backend.PathFoodNutritionInfo))
}

func TestSearch_Food(t *testing.T) {
	client, _ := newRouteClient(t, map[string]http.HandlerFunc{
		backend.PathFoodIdentification:  dataReply(`{"isFood":true}`),
		backend.PathFoodNutritionInfo:   dataReply(`{"name":"Apple","calories":"52 kcal","isVegan":true}`),
		backend.PathNutritionCategories: dataReply(`{"category":"healthy","ingredients":["apple"],"benefits":"Rich in fiber. Low in calories."}`),
	})
	svc := NewNutritionService(client, nil)

	got, err := svc.Search(context.Background(), paidUser(), "apple")
	require.NoError(t, err)
	assert.Equal(t, "Apple", got.Name)
	assert.Equal(t, "healthy", got.Category)
	assert.True(t, got.IsVegan)
	assert.Equal(t, []string{"Rich in fiber", "Low in calories."}, got.Benefits)
	assert.Equal(t, []string{notAvailable}, got.HealthImplications)
	assert.Nil(t, got.Verdict)
}

func TestSearch_CategorizeFailureIsNeutral(t *testing.T) {
	client, _ := newRouteClient(t, map[string]http.HandlerFunc{
		backend.PathFoodIdentification: statusReply(http.StatusInternalServerError),
		backend.PathFoodNutritionInfo:  dataReply(`{"name":"Rice"}`),
	})
	svc := NewNutritionService(client, nil)

	got, err := svc.Search(context.Background(), paidUser(), "rice")
	require.NoError(t, err)
	assert.Equal(t, "neutral", got.Category)
	assert.Equal(t, notAvailable, got.Calories)
	assert.Equal(t, []string{"Could not determine health implications"}, got.HealthImplications)
}

func TestVerdict(t *testing.T) {
	fb := &fakeBackend{reply: []string{`{"verdict":"avoid","reason":"High sugar"}`}}
	chat, _ := newChatFixture(t, fb)
	svc := NewNutritionService(nil, chat)

	got := svc.Verdict(context.Background(), paidUser(), "donut")
	require.NotNil(t, got)
	assert.Equal(t, domain.FoodVerdict{Verdict: "avoid", Reason: "High sugar"}, *got)
}

func TestPersonalizedCategories_Cached(t *testing.T) {
	var calls atomic.Int32
	items := `[{"category":"A","type":"fruits"},{"category":"B","type":"grains"},{"category":"C"},{"category":"D"},{"category":"E"},{"category":"F"}]`
	client, _ := newRouteClient(t, map[string]http.HandlerFunc{
		backend.PathPersonalizedFoods: func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			json.NewEncoder(w).Encode(map[string]string{"data": items})
		},
	})
	svc := NewNutritionService(client, nil)

	got, err := svc.PersonalizedCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, categoryImages[1].url, got[0].ImageURL)
	assert.Equal(t, categoryImages[3].url, got[1].ImageURL)
	assert.Equal(t, categoryImages[0].url, got[2].ImageURL)

	_, err = svc.PersonalizedCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDefaultNutritionCategories(t *testing.T) {
	got := DefaultNutritionCategories()
	require.Len(t, got, 5)
	for _, c := range got {
		assert.NotEmpty(t, c.Foods)
		assert.NotEmpty(t, c.ImageURL)
	}
}
