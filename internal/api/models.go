package api

import (
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/recipes"
)

// PlanMeal is the wire shape of one planned meal: a flat item carrying
// its slot, grouped per date by the backend.
type PlanMeal struct {
	MealType string  `json:"meal_type"`
	RecipeID string  `json:"recipe_id"`
	Servings float64 `json:"servings"`
}

// mealPlanEnvelope is the GET meal-plan response.
type mealPlanEnvelope struct {
	MealPlan struct {
		Meals map[string][]PlanMeal `json:"meals"`
	} `json:"meal_plan"`
}

// saveMealPlanRequest is the POST meal-plan body.
type saveMealPlanRequest struct {
	WeekStart string                `json:"week_start"`
	Meals     map[string][]PlanMeal `json:"meals"`
}

// recipesEnvelope wraps every list-of-recipes response.
type recipesEnvelope struct {
	Recipes []recipes.Recipe `json:"recipes"`
}
