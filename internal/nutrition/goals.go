package nutrition

import "fmt"

// Goals is the user's daily targets as served by the backend. Every
// field is optional; an absent field means "no target set".
type Goals struct {
	DailyCalories *float64 `json:"daily_calories,omitempty"`
	ProteinGrams  *float64 `json:"protein_grams,omitempty"`
	CarbsGrams    *float64 `json:"carbs_grams,omitempty"`
	FatsGrams     *float64 `json:"fats_grams,omitempty"`
}

// IsZero reports whether no target at all is set.
func (g Goals) IsZero() bool {
	return g.DailyCalories == nil && g.ProteinGrams == nil && g.CarbsGrams == nil && g.FatsGrams == nil
}

// Describe renders a one-line comparison of a daily total against the
// goals, skipping unset targets.
func (g Goals) Describe(t Totals) string {
	out := ""
	if g.DailyCalories != nil {
		out += fmt.Sprintf("calories %.0f/%.0f ", t.Calories, *g.DailyCalories)
	}
	if g.ProteinGrams != nil {
		out += fmt.Sprintf("protein %.0f/%.0fg ", t.Protein, *g.ProteinGrams)
	}
	if g.CarbsGrams != nil {
		out += fmt.Sprintf("carbs %.0f/%.0fg ", t.Carbs, *g.CarbsGrams)
	}
	if g.FatsGrams != nil {
		out += fmt.Sprintf("fats %.0f/%.0fg", t.Fats, *g.FatsGrams)
	}
	if out == "" {
		return "no goals set"
	}
	return out
}
