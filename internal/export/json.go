package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/plan"
)

var ErrMissingMealPlan = errors.New("import payload has no meal_plan")

// jsonFile is the export envelope: the in-memory week plan verbatim,
// plus its anchor and a timestamp.
type jsonFile struct {
	WeekStart  string                  `json:"week_start"`
	MealPlan   map[string]plan.DayPlan `json:"meal_plan"`
	ExportedAt time.Time               `json:"exported_at"`
}

// JSON serializes the whole window. The output round-trips through
// Import without loss.
func JSON(w *plan.WeekPlan, now time.Time) ([]byte, error) {
	file := jsonFile{
		WeekStart:  w.Start.Format(plan.DateFormat),
		MealPlan:   w.Days,
		ExportedAt: now.UTC(),
	}
	return json.MarshalIndent(file, "", "  ")
}

// Import parses an exported payload and rebuilds a complete week plan.
// The payload must carry a meal_plan key; anything else rejects the
// import wholesale, with no partial application. The returned bool reports
// whether the payload carried its own week_start (the caller then
// navigates to that week); otherwise the plan is rebuilt onto
// fallbackStart's week.
func Import(data []byte, fallbackStart time.Time) (*plan.WeekPlan, bool, error) {
	var raw struct {
		WeekStart  string          `json:"week_start"`
		MealPlan   json.RawMessage `json:"meal_plan"`
		ExportedAt time.Time       `json:"exported_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false, fmt.Errorf("parse import payload: %w", err)
	}
	if len(raw.MealPlan) == 0 || string(raw.MealPlan) == "null" {
		return nil, false, ErrMissingMealPlan
	}

	var days map[string]plan.DayPlan
	if err := json.Unmarshal(raw.MealPlan, &days); err != nil {
		return nil, false, fmt.Errorf("parse meal_plan: %w", err)
	}

	hasWeekStart := raw.WeekStart != ""
	start := fallbackStart
	if hasWeekStart {
		parsed, err := time.Parse(plan.DateFormat, raw.WeekStart)
		if err != nil {
			return nil, false, fmt.Errorf("parse week_start: %w", err)
		}
		start = parsed
	} else if earliest, ok := earliestDate(days); ok {
		// No anchor in the file: derive the window from the data so a
		// wholesale replace keeps every entry.
		start = earliest
	}

	w := plan.NewWeek(start)
	for _, date := range w.Dates() {
		day, ok := days[date]
		if !ok {
			continue
		}
		for slot := range day {
			if !plan.ValidSlot(slot) {
				return nil, false, fmt.Errorf("unknown meal slot %q on %s", slot, date)
			}
		}
		for _, slot := range plan.SlotOrder {
			for _, e := range day[slot] {
				next, err := w.WithEntry(date, slot, e)
				if err != nil {
					return nil, false, fmt.Errorf("invalid entry on %s/%s: %w", date, slot, err)
				}
				w = next
			}
		}
	}
	return w, hasWeekStart, nil
}

func earliestDate(days map[string]plan.DayPlan) (time.Time, bool) {
	var best time.Time
	found := false
	for date := range days {
		d, err := time.Parse(plan.DateFormat, date)
		if err != nil {
			continue
		}
		if !found || d.Before(best) {
			best = d
			found = true
		}
	}
	return best, found
}
