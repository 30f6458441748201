package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/set-night/healthconnect/internal/backend"
	"github.com/set-night/healthconnect/internal/config"
	"github.com/set-night/healthconnect/internal/domain"
	"github.com/set-night/healthconnect/internal/extract"
)

const notAvailable = "Information not available"

type NutritionService struct {
	client     *backend.Client
	chat       *ChatService
	categories *TTLCache[[]domain.FoodCategory]
}

func NewNutritionService(client *backend.Client, chat *ChatService) *NutritionService {
	return &NutritionService{
		client:     client,
		chat:       chat,
		categories: NewTTLCache[[]domain.FoodCategory](config.NutritionCacheDuration),
	}
}

// Analyze estimates the nutrition of a free-form food list. An unparseable
// answer yields "N/A" values; transport failures are returned.
func (s *NutritionService) Analyze(ctx context.Context, user *domain.User, foodList string) (domain.NutritionAnalysis, error) {
	if strings.TrimSpace(foodList) == "" {
		return domain.NutritionAnalysis{}, domain.ErrEmptyEntry
	}
	text, err := s.client.PostData(ctx, backend.PathNutritionAnalysis, map[string]any{
		"modelType": user.SelectedModel,
		"foodList":  foodList,
	})
	if err != nil {
		return domain.NutritionAnalysis{}, fmt.Errorf("analyze nutrition: %w", err)
	}
	return parseNutritionAnalysis(text), nil
}

func parseNutritionAnalysis(text string) domain.NutritionAnalysis {
	f, err := extract.Object(text).Unwrap()
	if err != nil {
		return domain.NutritionAnalysis{
			Calories: "N/A", Protein: "N/A", Carbs: "N/A", Fat: "N/A", Fiber: "N/A",
			Recommendations: []string{},
		}
	}
	return domain.NutritionAnalysis{
		Calories:        f.String("calories", "0 kcal"),
		Protein:         f.String("protein", "0g"),
		Carbs:           f.String("carbs", "0g"),
		Fat:             f.String("fat", "0g"),
		Fiber:           f.String("fiber", "0g"),
		Recommendations: f.Strings("recommendations", []string{}),
	}
}

// Plan generates food categories for the profile. Every failure is returned.
func (s *NutritionService) Plan(ctx context.Context, user *domain.User, allergies []string) (domain.NutritionPlan, error) {
	p := user.Profile
	if p.Age <= 0 || !p.Weight.IsPositive() || !p.Height.IsPositive() {
		return domain.NutritionPlan{}, domain.ErrProfileIncomplete
	}

	payload := basicPayload(user.SelectedModel, p)
	if allergies == nil {
		allergies = []string{}
	}
	payload["allergies"] = allergies

	text, err := s.client.PostData(ctx, backend.PathNutritionPlan, payload)
	if err != nil {
		return domain.NutritionPlan{}, fmt.Errorf("generate nutrition plan: %w", err)
	}
	plan, err := parseNutritionPlan(text)
	if err != nil {
		return domain.NutritionPlan{}, fmt.Errorf("could not parse nutrition plan: %w", err)
	}
	return plan, nil
}

func parseNutritionPlan(text string) (domain.NutritionPlan, error) {
	f, err := extract.Object(text).Unwrap()
	if err != nil {
		return domain.NutritionPlan{}, err
	}
	if _, ok := f["categories"].([]any); !ok {
		return domain.NutritionPlan{}, fmt.Errorf("%w: categories missing", extract.ErrShape)
	}

	plan := domain.NutritionPlan{GeneralAdvice: f.String("generalAdvice", "No general advice provided")}
	for _, c := range f.List("categories") {
		plan.Categories = append(plan.Categories, domain.FoodCategory{
			Category: c.String("category", "Food Category"),
			Foods:    c.Strings("foods", []string{}),
			Benefits: c.String("benefits", "No benefits information provided"),
			MealPlan: c.String("mealPlan", ""),
		})
	}
	return plan, nil
}

func (s *NutritionService) Recipe(ctx context.Context, user *domain.User, idea string, allergies []string) (domain.Recipe, error) {
	if strings.TrimSpace(idea) == "" {
		return domain.Recipe{}, domain.ErrEmptyEntry
	}
	if allergies == nil {
		allergies = []string{}
	}
	text, err := s.client.PostData(ctx, backend.PathRecipe, map[string]any{
		"modelType": user.SelectedModel,
		"allergies": allergies,
		"mealIdea":  idea,
	})
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("generate recipe: %w", err)
	}
	f, err := extract.Object(text).Unwrap()
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("could not parse recipe: %w", err)
	}
	return domain.Recipe{
		Title:           f.String("title", "Recipe"),
		Description:     f.String("description", "No description provided"),
		Ingredients:     f.Strings("ingredients", []string{}),
		Instructions:    f.Strings("instructions", []string{}),
		PreparationTime: f.String("preparationTime", "Not specified"),
		NutritionInfo:   f.String("nutritionInfo", ""),
	}, nil
}

// MealIdea builds a meal from the given ingredients. An unparseable answer
// yields a simple placeholder meal.
func (s *NutritionService) MealIdea(ctx context.Context, user *domain.User, ingredients []string, servings int, restrictions []string) (domain.MealIdea, error) {
	if len(ingredients) == 0 {
		return domain.MealIdea{}, domain.ErrEmptyEntry
	}
	if servings <= 0 {
		servings = 2
	}
	if restrictions == nil {
		restrictions = []string{}
	}
	text, err := s.client.PostData(ctx, backend.PathMealIdea, map[string]any{
		"modelType":    user.SelectedModel,
		"ingredients":  ingredients,
		"servings":     servings,
		"restrictions": restrictions,
	})
	if err != nil {
		return domain.MealIdea{}, fmt.Errorf("generate meal idea: %w", err)
	}
	return parseMealIdea(text), nil
}

func parseMealIdea(text string) domain.MealIdea {
	f, err := extract.Object(text).Unwrap()
	if err != nil {
		return domain.MealIdea{
			Title:        "Simple Meal",
			Description:  "A simple meal with your ingredients",
			Ingredients:  []domain.MealIngredient{},
			Instructions: []string{"Unable to generate detailed instructions"},
		}
	}

	idea := domain.MealIdea{
		Title:           f.String("title", "Meal Idea"),
		Description:     f.String("description", "A meal created with your ingredients"),
		Ingredients:     []domain.MealIngredient{},
		Instructions:    f.Strings("instructions", []string{"No instructions provided"}),
		PreparationTime: f.String("preparationTime", "Not specified"),
		Tips:            f.String("tips", ""),
	}
	for _, ing := range f.List("ingredients") {
		idea.Ingredients = append(idea.Ingredients, domain.MealIngredient{
			Name:     ing.String("name", "Ingredient"),
			Amount:   ing.String("amount", "As needed"),
			Optional: ing.Bool("optional", false),
		})
	}
	n := f.Fields("nutritionInfo")
	idea.Nutrition = domain.Macros{
		Calories: n.String("calories", "Not available"),
		Protein:  n.String("protein", "Not available"),
		Carbs:    n.String("carbs", "Not available"),
		Fat:      n.String("fat", "Not available"),
	}
	return idea
}

// FoodInfo returns nutrition facts for one food.
func (s *NutritionService) FoodInfo(ctx context.Context, user *domain.User, name string) (domain.FoodNutritionInfo, error) {
	text, err := s.client.PostData(ctx, backend.PathFoodNutritionInfo, map[string]any{
		"modelType": user.SelectedModel,
		"foodName":  name,
	})
	if err != nil {
		return domain.FoodNutritionInfo{}, fmt.Errorf("food nutrition info: %w", err)
	}
	return parseFoodInfo(text, name), nil
}

func parseFoodInfo(text, name string) domain.FoodNutritionInfo {
	f, err := extract.Object(text).Unwrap()
	if err != nil {
		return domain.FoodNutritionInfo{
			Name: name, Calories: notAvailable, Protein: notAvailable, Carbs: notAvailable, Fat: notAvailable,
			Dishes: []string{notAvailable}, PreparationTips: notAvailable, Benefits: notAvailable,
		}
	}
	return domain.FoodNutritionInfo{
		Name:            f.String("name", name),
		Calories:        f.String("calories", notAvailable),
		Protein:         f.String("protein", notAvailable),
		Carbs:           f.String("carbs", notAvailable),
		Fat:             f.String("fat", notAvailable),
		IsVegan:         f.Bool("isVegan", false),
		Dishes:          f.Strings("dishes", []string{notAvailable}),
		PreparationTips: f.String("preparationTips", notAvailable),
		Benefits:        f.String("benefits", notAvailable),
	}
}

type foodCheck struct {
	isFood     bool
	components []string
}

// identify asks whether query is food. Any failure counts as food.
func (s *NutritionService) identify(ctx context.Context, model, query string) foodCheck {
	text, err := s.client.PostData(ctx, backend.PathFoodIdentification, map[string]any{
		"query":     query,
		"modelType": model,
	})
	if err != nil {
		slog.Warn("food identification", "error", err, "query", query)
		return foodCheck{isFood: true}
	}
	f, err := extract.Object(text).Unwrap()
	if err != nil {
		return foodCheck{isFood: true}
	}
	return foodCheck{isFood: f.Bool("isFood", false), components: f.Strings("components", nil)}
}

type healthCategory struct {
	category     string
	ingredients  []string
	implications []string
	benefits     string
}

func (s *NutritionService) categorize(ctx context.Context, model, name string) healthCategory {
	fallback := healthCategory{
		category:     "neutral",
		ingredients:  []string{},
		implications: []string{"Could not determine health implications"},
		benefits:     notAvailable,
	}
	text, err := s.client.PostData(ctx, backend.PathNutritionCategories, map[string]any{
		"foodName":  name,
		"modelType": model,
	})
	if err != nil {
		slog.Warn("nutrition categories", "error", err, "food", name)
		return fallback
	}
	f, err := extract.Object(text).Unwrap()
	if err != nil {
		return fallback
	}
	return healthCategory{
		category:     f.String("category", "neutral"),
		ingredients:  f.Strings("ingredients", []string{}),
		implications: f.Strings("healthImplications", []string{notAvailable}),
		benefits:     f.String("benefits", notAvailable),
	}
}

func nonFoodCard(name string, components []string) domain.FoodSearchInfo {
	if components == nil {
		components = []string{"Not edible"}
	}
	return domain.FoodSearchInfo{
		Name:        name,
		Category:    "junk",
		Calories:    "0 per 100g",
		Protein:     "0g per 100g",
		Carbs:       "0g per 100g",
		Fat:         "0g per 100g",
		Ingredients: components,
		HealthImplications: []string{
			"Not a food item - not meant for consumption",
			"Could be harmful if ingested",
			"No nutritional value",
			"Please search for actual food items for nutritional information",
		},
		Benefits:  []string{},
		IsNonFood: true,
	}
}

// Search looks a food up and classifies how healthy it is. Pro users also get
// a personal verdict when one can be produced.
func (s *NutritionService) Search(ctx context.Context, user *domain.User, name string) (domain.FoodSearchInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.FoodSearchInfo{}, domain.ErrEmptyEntry
	}

	check := s.identify(ctx, user.SelectedModel, name)
	if !check.isFood {
		return nonFoodCard(name, check.components), nil
	}

	info, err := s.FoodInfo(ctx, user, name)
	if err != nil {
		return domain.FoodSearchInfo{}, fmt.Errorf("failed to get food health information: %w", err)
	}
	hc := s.categorize(ctx, user.SelectedModel, name)

	result := domain.FoodSearchInfo{
		Name:               info.Name,
		Category:           hc.category,
		Calories:           info.Calories,
		Protein:            info.Protein,
		Carbs:              info.Carbs,
		Fat:                info.Fat,
		IsVegan:            info.IsVegan,
		Ingredients:        hc.ingredients,
		HealthImplications: hc.implications,
		Benefits:           splitSentences(hc.benefits),
	}
	if user.Tier == domain.TierPro {
		result.Verdict = s.Verdict(ctx, user, name)
	}
	return result, nil
}

func splitSentences(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ". ") {
		if strings.TrimSpace(part) != "" {
			out = append(out, part)
		}
	}
	return out
}

const foodVerdictPrompt = `I am searching for "%s".
Based on my health profile, give me a verdict on whether I should eat this.

My Health Profile:
- BMI: %s (%s)
- Blood Glucose: %s
- Medical Conditions: None reported

Return ONLY a valid JSON object:
{
  "verdict": "safe" | "caution" | "avoid",
  "reason": "Short explanation why (max 15 words)",
  "healthConditionMatch": "Name of specific condition if relevant (e.g. 'High Blood Pressure'), else null"
}`

// Verdict asks a throwaway chat session whether the user should eat food.
// Any failure yields nil.
func (s *NutritionService) Verdict(ctx context.Context, user *domain.User, food string) *domain.FoodVerdict {
	p := user.Profile
	prompt := fmt.Sprintf(foodVerdictPrompt, food, p.BMI(), p.BMICategory(), p.BloodGlucose)

	text, err := s.chat.Ephemeral(ctx, user.SelectedModel, prompt)
	if err != nil {
		slog.Warn("food verdict", "error", err, "user_id", user.TelegramID)
		return nil
	}
	f, err := extract.Object(text).Unwrap()
	if err != nil {
		return nil
	}
	return &domain.FoodVerdict{
		Verdict:              f.OneOf("verdict", "caution", "safe", "caution", "avoid"),
		Reason:               f.String("reason", ""),
		HealthConditionMatch: f.String("healthConditionMatch", ""),
	}
}

var categoryImages = []struct {
	keyword string
	url     string
}{
	{"vegetables", "https://images.unsplash.com/photo-1568625365131-079e026a927d?auto=format&fit=crop&q=80&w=500"},
	{"fruits", "https://images.unsplash.com/photo-1619566636858-adf3ef46400b?auto=format&fit=crop&q=80&w=500"},
	{"proteins", "https://images.unsplash.com/photo-1600423115367-87ea7661688f?auto=format&fit=crop&q=80&w=500"},
	{"grains", "https://images.unsplash.com/photo-1514946379532-90281f815889?auto=format&fit=crop&q=80&w=500"},
	{"fats", "https://images.unsplash.com/photo-1574484284002-952d92456975?auto=format&fit=crop&q=80&w=500"},
}

// categoryImage picks an image by keyword in the category type, defaulting to
// the vegetables image.
func categoryImage(kind string) string {
	kind = strings.ToLower(kind)
	for _, c := range categoryImages {
		if strings.Contains(kind, c.keyword) {
			return c.url
		}
	}
	return categoryImages[0].url
}

// DefaultNutritionCategories is the standard set shown without AI.
func DefaultNutritionCategories() []domain.FoodCategory {
	return []domain.FoodCategory{
		{
			Category: "Colorful Vegetables",
			Foods:    []string{"Spinach", "Broccoli", "Bell peppers", "Carrots", "Purple cabbage", "Kale", "Sweet potatoes", "Tomatoes"},
			Benefits: "Rich in vitamins, minerals, and antioxidants that help protect against chronic diseases. Regular consumption is linked to reduced risk of heart disease and certain cancers.",
			ImageURL: categoryImages[0].url,
		},
		{
			Category: "Fruits",
			Foods:    []string{"Berries", "Apples", "Citrus fruits", "Bananas", "Avocados", "Kiwi", "Pineapple", "Mango"},
			Benefits: "Provide fiber, vitamins, and antioxidants while satisfying sweet cravings naturally. The diverse colors indicate different phytonutrients that support immune function.",
			ImageURL: categoryImages[1].url,
		},
		{
			Category: "Lean Proteins",
			Foods:    []string{"Fish", "Chicken breast", "Tofu", "Legumes", "Greek yogurt", "Eggs", "Turkey", "Cottage cheese"},
			Benefits: "Essential for muscle repair, immune function, and creating hormones and enzymes. They also provide satiety, helping control appetite and maintain healthy weight.",
			ImageURL: categoryImages[2].url,
		},
		{
			Category: "Whole Grains",
			Foods:    []string{"Oats", "Quinoa", "Brown rice", "Whole grain bread", "Barley", "Farro", "Buckwheat", "Whole wheat pasta"},
			Benefits: "Provide sustained energy, fiber, and various nutrients that refined grains lack. They support digestive health and help maintain stable blood sugar levels.",
			ImageURL: categoryImages[3].url,
		},
		{
			Category: "Healthy Fats",
			Foods:    []string{"Olive oil", "Avocado", "Nuts", "Seeds", "Fatty fish", "Chia seeds", "Flaxseed", "Walnuts"},
			Benefits: "Support brain health, hormone production, and absorption of fat-soluble vitamins. Omega-3 fatty acids from fish and certain plant sources have anti-inflammatory properties.",
			ImageURL: categoryImages[4].url,
		},
	}
}

// PersonalizedCategories fetches AI food categories, cached for a while.
// Failures are returned; callers can show DefaultNutritionCategories instead.
func (s *NutritionService) PersonalizedCategories(ctx context.Context) ([]domain.FoodCategory, error) {
	if cached, ok := s.categories.Get(); ok {
		return cached, nil
	}

	text, err := s.client.GetData(ctx, backend.PathPersonalizedFoods)
	if err != nil {
		return nil, fmt.Errorf("failed to get AI nutrition recommendations: %w", err)
	}
	items, err := extract.Array(text).Unwrap()
	if err != nil {
		return nil, fmt.Errorf("could not parse nutrition recommendations: %w", err)
	}

	out := make([]domain.FoodCategory, 0, config.MaxNutritionCategories)
	for _, c := range items {
		if len(out) == config.MaxNutritionCategories {
			break
		}
		out = append(out, domain.FoodCategory{
			Category: c.String("category", "Food Category"),
			Foods:    c.Strings("foods", []string{}),
			Benefits: c.String("benefits", "No benefits information provided"),
			ImageURL: categoryImage(c.String("type", "")),
		})
	}
	s.categories.Set(out)
	return out, nil
}
