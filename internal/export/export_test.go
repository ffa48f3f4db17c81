package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/plan"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/recipes"
)

var testNow = time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC)

func week(t *testing.T) *plan.WeekPlan {
	t.Helper()
	start, err := time.Parse(plan.DateFormat, "2024-01-01")
	if err != nil {
		t.Fatal(err)
	}
	return plan.NewWeek(start)
}

func lookupOf(rs ...*recipes.Recipe) func(string) *recipes.Recipe {
	byID := make(map[string]*recipes.Recipe)
	for _, r := range rs {
		byID[r.ID] = r
	}
	return func(id string) *recipes.Recipe { return byID[id] }
}

func TestJSONRoundTrip(t *testing.T) {
	w := week(t)
	w, _ = w.WithEntry("2024-01-01", plan.SlotBreakfast, plan.Entry{RecipeID: "r1", Servings: 2})
	w, _ = w.WithEntry("2024-01-01", plan.SlotBreakfast, plan.Entry{RecipeID: "r2", Servings: 1})
	w, _ = w.WithEntry("2024-01-03", plan.SlotSnack, plan.Entry{RecipeID: "r3", Servings: 0.5})

	data, err := JSON(w, testNow)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, key := range []string{`"week_start"`, `"meal_plan"`, `"exported_at"`} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("export missing %s", key)
		}
	}

	back, navigated, err := Import(data, time.Time{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !navigated {
		t.Fatal("export carries week_start, import should navigate")
	}
	if !back.Equal(w) {
		t.Fatal("round trip lost data")
	}
	if back.EntryCount() != 3 {
		t.Fatalf("expected 3 entries after import, got %d", back.EntryCount())
	}
}

func TestImportRejectsMissingMealPlan(t *testing.T) {
	fallback, _ := time.Parse(plan.DateFormat, "2024-01-01")

	_, _, err := Import([]byte(`{"week_start":"2024-01-01"}`), fallback)
	if !errors.Is(err, ErrMissingMealPlan) {
		t.Fatalf("expected ErrMissingMealPlan, got %v", err)
	}
	_, _, err = Import([]byte(`{"meal_plan":null}`), fallback)
	if !errors.Is(err, ErrMissingMealPlan) {
		t.Fatalf("expected ErrMissingMealPlan for null, got %v", err)
	}
	_, _, err = Import([]byte(`not json`), fallback)
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestImportRejectsInvalidEntries(t *testing.T) {
	fallback, _ := time.Parse(plan.DateFormat, "2024-01-01")

	payload := `{"meal_plan":{"2024-01-01":{"breakfast":[{"recipe_id":"r1","servings":0}],"lunch":[],"dinner":[],"snack":[]}}}`
	if _, _, err := Import([]byte(payload), fallback); err == nil {
		t.Fatal("expected rejection for servings=0")
	}

	payload = `{"meal_plan":{"2024-01-01":{"brunch":[{"recipe_id":"r1","servings":1}]}}}`
	if _, _, err := Import([]byte(payload), fallback); err == nil {
		t.Fatal("expected rejection for unknown slot")
	}
}

func TestImportWithoutWeekStartDerivesWindow(t *testing.T) {
	fallback, _ := time.Parse(plan.DateFormat, "2030-06-03")

	payload := `{"meal_plan":{"2024-01-02":{"breakfast":[],"lunch":[{"recipe_id":"r1","servings":1}],"dinner":[],"snack":[]}}}`
	w, navigated, err := Import([]byte(payload), fallback)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if navigated {
		t.Fatal("payload without week_start must not navigate")
	}
	if got := w.Start.Format(plan.DateFormat); got != "2024-01-01" {
		t.Fatalf("expected window derived from data, got %s", got)
	}
	if w.EntryCount() != 1 {
		t.Fatalf("expected 1 entry, got %d", w.EntryCount())
	}
}

func TestImportEmptyMealPlanUsesFallback(t *testing.T) {
	fallback, _ := time.Parse(plan.DateFormat, "2024-02-05")
	w, navigated, err := Import([]byte(`{"meal_plan":{}}`), fallback)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if navigated {
		t.Fatal("no week_start, must not navigate")
	}
	if got := w.Start.Format(plan.DateFormat); got != "2024-02-05" {
		t.Fatalf("expected fallback window, got %s", got)
	}
}

func TestCSVRowsAndRounding(t *testing.T) {
	pasta := &recipes.Recipe{
		ID:       "pasta",
		Name:     "Pasta",
		Servings: 2,
		Nutrition: &recipes.Nutrition{
			Calories: 400, Protein: 21, Carbs: 60, Fats: 9,
		},
	}

	w := week(t)
	w, _ = w.WithEntry("2024-01-02", plan.SlotDinner, plan.Entry{RecipeID: "pasta", Servings: 1.5})
	w, _ = w.WithEntry("2024-01-01", plan.SlotSnack, plan.Entry{RecipeID: "mystery", Servings: 1})
	w, _ = w.WithEntry("2024-01-01", plan.SlotBreakfast, plan.Entry{RecipeID: "pasta", Servings: 2})

	g := NewGenerator(lookupOf(pasta))
	data, err := g.CSV(w)
	if err != nil {
		t.Fatalf("csv: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "date,meal_slot,recipe_name,servings,calories,protein,carbs,fats" {
		t.Fatalf("unexpected header: %v", rows[0])
	}

	// Ordered by date, then breakfast < snack, then the Tuesday dinner.
	if rows[1][0] != "2024-01-01" || rows[1][1] != "breakfast" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[2][1] != "snack" || rows[2][2] != "mystery" || rows[2][4] != "0" {
		t.Fatalf("unresolved entry should fall back to id and zeros: %v", rows[2])
	}

	dinner := rows[3]
	if dinner[0] != "2024-01-02" || dinner[1] != "dinner" || dinner[2] != "Pasta" || dinner[3] != "1.5" {
		t.Fatalf("unexpected dinner row: %v", dinner)
	}
	// 400 * 1.5/2 = 300; 21 * 0.75 = 15.75 -> 16; 9 * 0.75 = 6.75 -> 7.
	if dinner[4] != "300" || dinner[5] != "16" || dinner[6] != "45" || dinner[7] != "7" {
		t.Fatalf("unexpected rounding: %v", dinner)
	}
}

func TestPDFRenders(t *testing.T) {
	w := week(t)
	w, _ = w.WithEntry("2024-01-01", plan.SlotLunch, plan.Entry{RecipeID: "r1", Servings: 1})

	g := NewGenerator(lookupOf())
	data, err := g.PDF(w)
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if len(data) == 0 || !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("expected a PDF document")
	}
}

func TestGenerateDispatch(t *testing.T) {
	g := NewGenerator(nil)
	w := week(t)

	for _, f := range []Format{FormatJSON, FormatCSV, FormatPDF} {
		data, err := g.Generate(f, w, testNow)
		if err != nil || len(data) == 0 {
			t.Fatalf("format %s: err=%v len=%d", f, err, len(data))
		}
	}
	if _, err := g.Generate(Format("xml"), w, testNow); err == nil {
		t.Fatal("expected error for unsupported format")
	}

	if _, err := ParseFormat("csv"); err != nil {
		t.Fatalf("csv should parse: %v", err)
	}
	if _, err := ParseFormat("docx"); err == nil {
		t.Fatal("docx should not parse")
	}
}
