package export

import (
	"bytes"
	"encoding/csv"
	"math"
	"strconv"

	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/nutrition"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/plan"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/recipes"
)

// CSV renders one row per entry across the visible week, ordered by
// date, then fixed slot order, then list order. Nutrition values are
// rounded to the nearest whole unit.
func (g *Generator) CSV(w *plan.WeekPlan) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"date", "meal_slot", "recipe_name", "servings", "calories", "protein", "carbs", "fats"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, date := range w.Dates() {
		day := w.Days[date]
		for _, slot := range plan.SlotOrder {
			for _, e := range day[slot] {
				rec := g.look(e.RecipeID)
				totals := nutrition.ForEntry(e, rec)
				row := []string{
					date,
					string(slot),
					recipes.DisplayName(e.RecipeID, rec),
					strconv.FormatFloat(e.Servings, 'f', -1, 64),
					roundCol(totals.Calories),
					roundCol(totals.Protein),
					roundCol(totals.Carbs),
					roundCol(totals.Fats),
				}
				if err := writer.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func roundCol(v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}
