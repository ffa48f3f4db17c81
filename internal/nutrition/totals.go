// Package nutrition computes the derived macro read-model for a week
// plan. Everything here is pure: totals are recomputed from entries and
// cached recipe records on demand and never stored.
package nutrition

import (
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/plan"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/recipes"
)

// Lookup resolves a recipe id to its cached record, or nil when the
// record never resolved.
type Lookup func(id string) *recipes.Recipe

// Totals is the per-entry/day/week macro aggregate.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

func (t Totals) Add(o Totals) Totals {
	return Totals{
		Calories: t.Calories + o.Calories,
		Protein:  t.Protein + o.Protein,
		Carbs:    t.Carbs + o.Carbs,
		Fats:     t.Fats + o.Fats,
	}
}

func (t Totals) div(n float64) Totals {
	return Totals{
		Calories: t.Calories / n,
		Protein:  t.Protein / n,
		Carbs:    t.Carbs / n,
		Fats:     t.Fats / n,
	}
}

// ForEntry scales the recipe's per-base-serving nutrition by
// servings/baseServings. Unresolved recipes, missing nutrition and
// nonsensical base servings all yield zero totals rather than an error,
// so rendering is never blocked.
func ForEntry(e plan.Entry, r *recipes.Recipe) Totals {
	if r == nil || r.Nutrition == nil || r.Servings <= 0 {
		return Totals{}
	}
	factor := e.Servings / r.Servings
	return Totals{
		Calories: r.Nutrition.Calories * factor,
		Protein:  r.Nutrition.Protein * factor,
		Carbs:    r.Nutrition.Carbs * factor,
		Fats:     r.Nutrition.Fats * factor,
	}
}

// ForDay sums every entry in every slot of one day.
func ForDay(d plan.DayPlan, look Lookup) Totals {
	var t Totals
	for _, slot := range plan.SlotOrder {
		for _, e := range d[slot] {
			t = t.Add(ForEntry(e, look(e.RecipeID)))
		}
	}
	return t
}

// ForWeek sums all seven daily totals.
func ForWeek(w *plan.WeekPlan, look Lookup) Totals {
	var t Totals
	for _, date := range w.Dates() {
		t = t.Add(ForDay(w.Days[date], look))
	}
	return t
}

// WeekAverage divides the weekly sum by exactly seven. Empty days
// contribute zero rather than shrinking the divisor.
func WeekAverage(w *plan.WeekPlan, look Lookup) Totals {
	return ForWeek(w, look).div(plan.DaysPerWeek)
}

// PrepMinutes sums prep plus cook time across every entry of the day
// whose recipe resolved. Entries without timing data contribute zero.
func PrepMinutes(d plan.DayPlan, look Lookup) int {
	minutes := 0
	for _, slot := range plan.SlotOrder {
		for _, e := range d[slot] {
			if r := look(e.RecipeID); r != nil {
				minutes += r.PrepTimeMinutes + r.CookTimeMinutes
			}
		}
	}
	return minutes
}
