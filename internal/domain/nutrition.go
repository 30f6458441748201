package domain

type NutritionAnalysis struct {
	Calories        string
	Protein         string
	Carbs           string
	Fat             string
	Fiber           string
	Recommendations []string
}

type FoodCategory struct {
	Category string
	Foods    []string
	Benefits string
	MealPlan string
	ImageURL string
}

type NutritionPlan struct {
	Categories    []FoodCategory
	GeneralAdvice string
}

type Recipe struct {
	Title           string
	Description     string
	Ingredients     []string
	Instructions    []string
	PreparationTime string
	NutritionInfo   string
}

type MealIngredient struct {
	Name     string
	Amount   string
	Optional bool
}

type Macros struct {
	Calories string
	Protein  string
	Carbs    string
	Fat      string
}

type MealIdea struct {
	Title           string
	Description     string
	Ingredients     []MealIngredient
	Instructions    []string
	PreparationTime string
	Nutrition       Macros
	Tips            string
}

type FoodNutritionInfo struct {
	Name            string
	Calories        string
	Protein         string
	Carbs           string
	Fat             string
	IsVegan         bool
	Dishes          []string
	PreparationTips string
	Benefits        string
}

// FoodSearchInfo combines nutrition facts with a health categorization.
type FoodSearchInfo struct {
	Name               string
	Category           string // healthy, unhealthy, junk, neutral
	Calories           string
	Protein            string
	Carbs              string
	Fat                string
	IsVegan            bool
	Ingredients        []string
	HealthImplications []string
	Benefits           []string
	IsNonFood          bool
	Verdict            *FoodVerdict
}

type FoodVerdict struct {
	Verdict              string `json:"verdict"` // safe, caution, avoid
	Reason               string `json:"reason"`
	HealthConditionMatch string `json:"healthConditionMatch"`
}
