package plan

import "testing"

func TestClearDaysIdempotent(t *testing.T) {
	w := seededWeek(t)
	sel := NewSelection("2024-01-01", "2024-01-02")

	once := ClearDays(w, sel)
	twice := ClearDays(once, sel)

	for _, date := range []string{"2024-01-01", "2024-01-02"} {
		if once.Days[date].EntryCount() != 0 {
			t.Fatalf("day %s not cleared", date)
		}
		for _, slot := range SlotOrder {
			if once.Days[date][slot] == nil {
				t.Fatalf("day %s slot %s missing after clear", date, slot)
			}
		}
	}
	if !once.Equal(twice) {
		t.Fatal("clear is not idempotent")
	}
	// Untouched days survive.
	if w.Days["2024-01-01"].EntryCount() == 0 {
		t.Fatal("clear mutated the previous snapshot")
	}
}

func TestClearDaysIgnoresOutsideDates(t *testing.T) {
	w := seededWeek(t)
	next := ClearDays(w, NewSelection("2030-12-25"))
	if !next.Equal(w) {
		t.Fatal("clearing an outside date changed the plan")
	}
}

func TestCopyDayDeepCopies(t *testing.T) {
	w := mustWeek(t, "2024-01-01")
	w, _ = w.WithEntry("2024-01-01", SlotBreakfast, Entry{RecipeID: "R1", Servings: 2})

	sel := NewSelection("2024-01-01", "2024-01-02", "2024-01-03")
	next, err := CopyDay(w, "2024-01-01", sel)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}

	for _, date := range []string{"2024-01-02", "2024-01-03"} {
		got := next.Days[date][SlotBreakfast]
		if len(got) != 1 || got[0].RecipeID != "R1" || got[0].Servings != 2 {
			t.Fatalf("day %s: expected copy of R1 x2, got %+v", date, got)
		}
	}

	// Mutating one target's copy must not leak into the source or the
	// other target.
	next.Days["2024-01-02"][SlotBreakfast][0].Servings = 99
	if next.Days["2024-01-01"][SlotBreakfast][0].Servings != 2 {
		t.Fatal("source day aliased by copy")
	}
	if next.Days["2024-01-03"][SlotBreakfast][0].Servings != 2 {
		t.Fatal("sibling target aliased by copy")
	}
}

func TestCopyDayExcludesSourceAndOutsideDates(t *testing.T) {
	w := seededWeek(t)
	next, err := CopyDay(w, "2024-01-01", NewSelection("2024-01-01", "2031-01-01"))
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if !next.Equal(w) {
		t.Fatal("copy with only source/outside targets should change nothing")
	}

	if _, err := CopyDay(w, "2030-01-01", NewSelection("2024-01-02")); err == nil {
		t.Fatal("expected error for source outside window")
	}
}

func TestFillWeekFromTemplate(t *testing.T) {
	w := mustWeek(t, "2024-01-01")
	w, _ = w.WithEntry("2024-01-02", SlotDinner, Entry{RecipeID: "stew", Servings: 4})
	w, _ = w.WithEntry("2024-01-01", SlotLunch, Entry{RecipeID: "left-behind", Servings: 1})

	next, err := FillWeek(w, "2024-01-02")
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	for _, date := range next.Dates() {
		got := next.Days[date][SlotDinner]
		if len(got) != 1 || got[0].RecipeID != "stew" {
			t.Fatalf("day %s: expected template dinner, got %+v", date, got)
		}
	}
	// The template's copy overwrote the Monday lunch entry.
	if len(next.Days["2024-01-01"][SlotLunch]) != 0 {
		t.Fatal("fill should replace target days wholesale")
	}
	// Template day itself untouched.
	if len(next.Days["2024-01-02"][SlotDinner]) != 1 {
		t.Fatal("template day modified by fill")
	}
}

func TestSelectionBasics(t *testing.T) {
	sel := NewSelection("2024-01-03")
	sel.Add("2024-01-01")
	sel.Add("2024-01-01")
	sel.Remove("2024-01-03")

	if !sel.Has("2024-01-01") || sel.Has("2024-01-03") {
		t.Fatalf("unexpected selection state: %v", sel.Dates())
	}
	if got := sel.Dates(); len(got) != 1 || got[0] != "2024-01-01" {
		t.Fatalf("unexpected dates: %v", got)
	}
}
