package plan

import (
	"errors"
	"fmt"
)

var (
	ErrNoActiveDrag  = errors.New("no active drag")
	ErrDragInFlight  = errors.New("drag already in progress")
	ErrInvalidSource = errors.New("invalid drag source")
	ErrInvalidTarget = errors.New("invalid drop target")
)

// DragState is the reconciler's position in its cycle. Dropped is
// terminal and folds straight back to idle, so observers only ever see
// idle or dragging.
type DragState int

const (
	DragIdle DragState = iota
	DragActive
	DragDropped
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragActive:
		return "dragging"
	case DragDropped:
		return "dropped"
	}
	return fmt.Sprintf("DragState(%d)", int(s))
}

// Reconciler folds drag gestures into week-plan mutations. It holds only
// the active source position; the plan itself is passed per operation so
// every drop produces a fresh snapshot.
type Reconciler struct {
	state  DragState
	source Ref
}

func NewReconciler() *Reconciler {
	return &Reconciler{state: DragIdle}
}

func (r *Reconciler) State() DragState { return r.state }

// Source returns the active drag source while dragging.
func (r *Reconciler) Source() (Ref, bool) {
	if r.state != DragActive {
		return Ref{}, false
	}
	return r.source, true
}

// Begin records the drag source. The source must be an existing entry.
func (r *Reconciler) Begin(w *WeekPlan, source Ref) error {
	if r.state == DragActive {
		return ErrDragInFlight
	}
	if _, ok := w.EntryAt(source); !ok {
		return fmt.Errorf("%w: %s", ErrInvalidSource, source)
	}
	r.state = DragActive
	r.source = source
	return nil
}

// Cancel rejects the drop and returns to idle with no mutation.
func (r *Reconciler) Cancel() {
	r.state = DragIdle
	r.source = Ref{}
}

// DropOnEntry releases the drag over another entry: the source is
// removed and spliced in before the target. A self-drop is a no-op and
// returns the snapshot unchanged.
func (r *Reconciler) DropOnEntry(w *WeekPlan, target Ref) (*WeekPlan, error) {
	if r.state != DragActive {
		return nil, ErrNoActiveDrag
	}
	source := r.source
	r.state = DragDropped
	defer r.Cancel()

	if source == target {
		return w, nil
	}
	if _, ok := w.EntryAt(target); !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTarget, target)
	}
	return moveBefore(w, source, target)
}

// DropOnSlot releases the drag over an empty-slot target: the source is
// removed and appended to the end of (date, slot).
func (r *Reconciler) DropOnSlot(w *WeekPlan, date string, slot Slot) (*WeekPlan, error) {
	if r.state != DragActive {
		return nil, ErrNoActiveDrag
	}
	source := r.source
	r.state = DragDropped
	defer r.Cancel()

	if !w.Contains(date) || !ValidSlot(slot) {
		return nil, fmt.Errorf("%w: %s/%s", ErrInvalidTarget, date, slot)
	}
	return moveAppend(w, source, date, slot)
}

// moveBefore removes source and inserts it before target, with
// structural sharing for untouched days and slots.
func moveBefore(w *WeekPlan, source, target Ref) (*WeekPlan, error) {
	entry, ok := w.EntryAt(source)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSource, source)
	}

	next := w.cloneShallow()

	srcDay := next.cloneDayForWrite(source.Date)
	srcList := removeAt(srcDay[source.Slot], source.Index)
	srcDay[source.Slot] = srcList

	dstDay := srcDay
	if target.Date != source.Date {
		dstDay = next.cloneDayForWrite(target.Date)
	}
	insertAt := target.Index
	if target.Date == source.Date && target.Slot == source.Slot && source.Index < target.Index {
		// The removal above shifted the target left by one.
		insertAt--
	}
	dstDay[target.Slot] = insertInto(dstDay[target.Slot], insertAt, entry)

	return next, nil
}

// moveAppend removes source and pushes it to the end of (date, slot).
func moveAppend(w *WeekPlan, source Ref, date string, slot Slot) (*WeekPlan, error) {
	entry, ok := w.EntryAt(source)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSource, source)
	}
	if source.Date == date && source.Slot == slot {
		// Already in the target slot; moving to the end of its own list.
		if source.Index == len(w.Days[date][slot])-1 {
			return w, nil
		}
	}

	next := w.cloneShallow()

	srcDay := next.cloneDayForWrite(source.Date)
	srcDay[source.Slot] = removeAt(srcDay[source.Slot], source.Index)

	dstDay := srcDay
	if date != source.Date {
		dstDay = next.cloneDayForWrite(date)
	}
	dstDay[slot] = insertInto(dstDay[slot], len(dstDay[slot]), entry)

	return next, nil
}

func removeAt(list []Entry, i int) []Entry {
	out := make([]Entry, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

func insertInto(list []Entry, i int, e Entry) []Entry {
	if i < 0 {
		i = 0
	}
	if i > len(list) {
		i = len(list)
	}
	out := make([]Entry, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, e)
	return append(out, list[i:]...)
}
