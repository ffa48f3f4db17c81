package plan

import (
	"fmt"
	"sort"
)

// Selection is the set of selected day keys. It is a pure UI selection
// concern and carries no plan data.
type Selection map[string]struct{}

func NewSelection(dates ...string) Selection {
	sel := make(Selection, len(dates))
	for _, d := range dates {
		sel[d] = struct{}{}
	}
	return sel
}

func (s Selection) Add(date string)      { s[date] = struct{}{} }
func (s Selection) Remove(date string)   { delete(s, date) }
func (s Selection) Has(date string) bool { _, ok := s[date]; return ok }

// Dates returns the selected keys in chronological order.
func (s Selection) Dates() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// ClearDays replaces each selected day inside the window with an empty
// skeleton. Idempotent; dates outside the window are ignored.
func ClearDays(w *WeekPlan, sel Selection) *WeekPlan {
	next := w.cloneShallow()
	for date := range sel {
		if _, ok := next.Days[date]; ok {
			next.Days[date] = NewDayPlan()
		}
	}
	return next
}

// CopyDay deep-copies the source day's plan into every other selected
// day. The source itself is excluded even when selected. Each target
// gets its own copy, so later edits to one day never leak into another.
func CopyDay(w *WeekPlan, source string, sel Selection) (*WeekPlan, error) {
	src, ok := w.Days[source]
	if !ok {
		return nil, fmt.Errorf("source date %s is outside the visible week", source)
	}
	next := w.cloneShallow()
	for date := range sel {
		if date == source {
			continue
		}
		if _, ok := next.Days[date]; !ok {
			continue
		}
		next.Days[date] = src.Clone()
	}
	return next, nil
}

// FillWeek deep-copies the template day into every other day of the
// visible week.
func FillWeek(w *WeekPlan, template string) (*WeekPlan, error) {
	if !w.Contains(template) {
		return nil, fmt.Errorf("template date %s is outside the visible week", template)
	}
	sel := NewSelection(w.Dates()...)
	return CopyDay(w, template, sel)
}
