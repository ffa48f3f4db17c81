package recipes

// Nutrition holds macro values per base serving of a recipe, as served
// by the backend catalog. Values are trusted as-is.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// Recipe is the catalog record. It is a display/derivation cache only;
// the backend stays authoritative.
type Recipe struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Servings        float64    `json:"servings"` // base servings the nutrition refers to
	Nutrition       *Nutrition `json:"nutrition,omitempty"`
	PrepTimeMinutes int        `json:"prep_time_minutes"`
	CookTimeMinutes int        `json:"cook_time_minutes"`
}

// DisplayName returns the recipe name, falling back to the raw id as a
// placeholder label for records that never resolved.
func DisplayName(id string, r *Recipe) string {
	if r == nil || r.Name == "" {
		return id
	}
	return r.Name
}
