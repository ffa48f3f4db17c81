package plan

import (
	"fmt"
	"sort"
	"time"
)

// DateFormat is the day key format used everywhere: wire, exports, CLI.
const DateFormat = "2006-01-02"

// DaysPerWeek is the size of the visible window. The window is always
// exactly one Monday-anchored week.
const DaysPerWeek = 7

// Slot is one of the four fixed meal categories. The set is closed; the
// grid always has exactly these four rows, in this order.
type Slot string

const (
	SlotBreakfast Slot = "breakfast"
	SlotLunch     Slot = "lunch"
	SlotDinner    Slot = "dinner"
	SlotSnack     Slot = "snack"
)

// SlotOrder is the fixed display and export order.
var SlotOrder = []Slot{SlotBreakfast, SlotLunch, SlotDinner, SlotSnack}

// ValidSlot reports whether s is one of the four known slots.
func ValidSlot(s Slot) bool {
	switch s {
	case SlotBreakfast, SlotLunch, SlotDinner, SlotSnack:
		return true
	}
	return false
}

// Entry is one recipe placed into one slot on one day. The recipe record
// itself lives in the recipes cache; the entry only carries the reference
// and the multiplier.
type Entry struct {
	RecipeID string  `json:"recipe_id"`
	Servings float64 `json:"servings"`
}

func (e Entry) Validate() error {
	if e.RecipeID == "" {
		return fmt.Errorf("recipe_id is required")
	}
	if !(e.Servings > 0) {
		return fmt.Errorf("servings must be > 0, got %v", e.Servings)
	}
	return nil
}

// DayPlan maps every slot to its ordered entry list. All four slots are
// always present, possibly as empty lists, so callers never nil-check.
type DayPlan map[Slot][]Entry

// NewDayPlan returns an empty skeleton with all four slots present.
func NewDayPlan() DayPlan {
	d := make(DayPlan, len(SlotOrder))
	for _, s := range SlotOrder {
		d[s] = []Entry{}
	}
	return d
}

// Clone returns a deep copy. Entries are value types, so copying the
// slices is enough.
func (d DayPlan) Clone() DayPlan {
	out := make(DayPlan, len(SlotOrder))
	for _, s := range SlotOrder {
		entries := make([]Entry, len(d[s]))
		copy(entries, d[s])
		out[s] = entries
	}
	return out
}

// EntryCount returns the number of entries across all slots.
func (d DayPlan) EntryCount() int {
	n := 0
	for _, s := range SlotOrder {
		n += len(d[s])
	}
	return n
}

// Ref identifies one entry position by value: day key, slot, list index.
type Ref struct {
	Date  string
	Slot  Slot
	Index int
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%s[%d]", r.Date, r.Slot, r.Index)
}

// WeekStartOf normalizes t to the Monday 00:00 UTC that anchors its week.
func WeekStartOf(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}

// WeekPlan is the 7-day window. Days always holds exactly seven keys,
// each with a complete four-slot DayPlan.
type WeekPlan struct {
	Start time.Time
	Days  map[string]DayPlan
}

// NewWeek builds an empty skeleton for the week containing start.
func NewWeek(start time.Time) *WeekPlan {
	monday := WeekStartOf(start)
	w := &WeekPlan{
		Start: monday,
		Days:  make(map[string]DayPlan, DaysPerWeek),
	}
	for i := 0; i < DaysPerWeek; i++ {
		key := monday.AddDate(0, 0, i).Format(DateFormat)
		w.Days[key] = NewDayPlan()
	}
	return w
}

// Dates returns the seven day keys in chronological order.
func (w *WeekPlan) Dates() []string {
	dates := make([]string, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		dates = append(dates, w.Start.AddDate(0, 0, i).Format(DateFormat))
	}
	return dates
}

// Contains reports whether date falls inside the visible window.
func (w *WeekPlan) Contains(date string) bool {
	_, ok := w.Days[date]
	return ok
}

// EntryAt returns the entry at ref, if the position exists.
func (w *WeekPlan) EntryAt(ref Ref) (Entry, bool) {
	day, ok := w.Days[ref.Date]
	if !ok || !ValidSlot(ref.Slot) {
		return Entry{}, false
	}
	list := day[ref.Slot]
	if ref.Index < 0 || ref.Index >= len(list) {
		return Entry{}, false
	}
	return list[ref.Index], true
}

// EntryCount returns the number of entries across the whole window.
func (w *WeekPlan) EntryCount() int {
	n := 0
	for _, d := range w.Days {
		n += d.EntryCount()
	}
	return n
}

// RecipeIDs returns the distinct recipe ids referenced by the window,
// sorted for deterministic fetch order.
func (w *WeekPlan) RecipeIDs() []string {
	seen := make(map[string]struct{})
	for _, d := range w.Days {
		for _, s := range SlotOrder {
			for _, e := range d[s] {
				seen[e.RecipeID] = struct{}{}
			}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// cloneShallow copies the top-level day map but shares the per-slot
// slices. Mutating operations copy the specific days and slots they
// touch on top of this, so untouched data is structurally shared and a
// previous snapshot stays valid for concurrent reads.
func (w *WeekPlan) cloneShallow() *WeekPlan {
	days := make(map[string]DayPlan, len(w.Days))
	for date, d := range w.Days {
		days[date] = d
	}
	return &WeekPlan{Start: w.Start, Days: days}
}

// cloneDayForWrite replaces date's DayPlan with a slot-map copy that
// still shares the entry slices. Individual slots are copied on write.
func (w *WeekPlan) cloneDayForWrite(date string) DayPlan {
	src := w.Days[date]
	d := make(DayPlan, len(SlotOrder))
	for _, s := range SlotOrder {
		d[s] = src[s]
	}
	w.Days[date] = d
	return d
}

// WithEntry returns a new snapshot with e appended to (date, slot).
func (w *WeekPlan) WithEntry(date string, slot Slot, e Entry) (*WeekPlan, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if !w.Contains(date) {
		return nil, fmt.Errorf("date %s is outside the visible week", date)
	}
	if !ValidSlot(slot) {
		return nil, fmt.Errorf("unknown meal slot %q", slot)
	}
	next := w.cloneShallow()
	day := next.cloneDayForWrite(date)
	list := make([]Entry, len(day[slot]), len(day[slot])+1)
	copy(list, day[slot])
	day[slot] = append(list, e)
	return next, nil
}

// WithoutEntry returns a new snapshot with the entry at ref removed.
func (w *WeekPlan) WithoutEntry(ref Ref) (*WeekPlan, error) {
	if _, ok := w.EntryAt(ref); !ok {
		return nil, fmt.Errorf("no entry at %s", ref)
	}
	next := w.cloneShallow()
	day := next.cloneDayForWrite(ref.Date)
	src := day[ref.Slot]
	list := make([]Entry, 0, len(src)-1)
	list = append(list, src[:ref.Index]...)
	list = append(list, src[ref.Index+1:]...)
	day[ref.Slot] = list
	return next, nil
}

// Equal reports structural equality: same window, same slots, same
// entries in the same order.
func (w *WeekPlan) Equal(other *WeekPlan) bool {
	if w == nil || other == nil {
		return w == other
	}
	if !w.Start.Equal(other.Start) {
		return false
	}
	for date, d := range w.Days {
		od, ok := other.Days[date]
		if !ok {
			return false
		}
		for _, s := range SlotOrder {
			a, b := d[s], od[s]
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
		}
	}
	return len(w.Days) == len(other.Days)
}
