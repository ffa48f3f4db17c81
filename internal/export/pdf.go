package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/nutrition"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/plan"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/recipes"
)

// PDF renders a printable week summary: one block per day with its
// meals, daily totals and prep time, then the weekly aggregate.
func (g *Generator) PDF(w *plan.WeekPlan) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Meal plan", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Meal plan - week of %s", w.Start.Format(plan.DateFormat)))
	pdf.Ln(12)

	for _, date := range w.Dates() {
		day := w.Days[date]

		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, date)
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "", 10)
		if day.EntryCount() == 0 {
			pdf.Cell(0, 6, "  (no meals planned)")
			pdf.Ln(6)
		}
		for _, slot := range plan.SlotOrder {
			for _, e := range day[slot] {
				rec := g.look(e.RecipeID)
				totals := nutrition.ForEntry(e, rec)
				line := fmt.Sprintf("  %-10s %s  x%s  (%.0f kcal)",
					slot, recipes.DisplayName(e.RecipeID, rec),
					trimFloat(e.Servings), totals.Calories)
				pdf.Cell(0, 6, line)
				pdf.Ln(6)
			}
		}

		dayTotals := nutrition.ForDay(day, g.look)
		prep := nutrition.PrepMinutes(day, g.look)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.Cell(0, 6, fmt.Sprintf("  total: %.0f kcal / %.0fg protein / %.0fg carbs / %.0fg fats, prep %d min",
			dayTotals.Calories, dayTotals.Protein, dayTotals.Carbs, dayTotals.Fats, prep))
		pdf.Ln(9)
	}

	week := nutrition.ForWeek(w, g.look)
	avg := nutrition.WeekAverage(w, g.look)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Week: %.0f kcal total, %.0f kcal/day average", week.Calories, avg.Calories))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func trimFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
