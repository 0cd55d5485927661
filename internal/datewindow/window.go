// Package datewindow holds the materialized run of consecutive days behind a
// date strip, the selected index into it, and the rules for growing the run
// at either end while keeping the selection on the same calendar day.
package datewindow

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrBusy            = errors.New("window is mid-update")
	ErrBrokenSequence  = errors.New("window days are not consecutive")
	ErrInvalidParams   = errors.New("invalid window parameters")
)

// Window is an immutable, never-empty run of consecutive days plus the
// selected index. Growth returns a new Window; the days slice of an existing
// Window is never written to.
type Window struct {
	days  []time.Time
	index int
}

// New builds back+forward+1 days with the selection on center.
func New(center time.Time, back, forward int) (Window, error) {
	if center.IsZero() {
		return Window{}, fmt.Errorf("center: %w", ErrInvalidDate)
	}
	if back < 0 || forward < 0 {
		return Window{}, fmt.Errorf("back=%d forward=%d: %w", back, forward, ErrInvalidParams)
	}
	start := Day(center).AddDate(0, 0, -back)
	return Window{days: span(start, back+forward+1), index: back}, nil
}

func (w Window) Len() int { return len(w.days) }

func (w Window) Index() int { return w.index }

// At returns the day at i. It panics when i is out of range; check Contains
// first.
func (w Window) At(i int) time.Time { return w.days[i] }

func (w Window) Selected() time.Time { return w.days[w.index] }

func (w Window) First() time.Time { return w.days[0] }

func (w Window) Last() time.Time { return w.days[len(w.days)-1] }

// Days returns a copy of the materialized days.
func (w Window) Days() []time.Time {
	out := make([]time.Time, len(w.days))
	copy(out, w.days)
	return out
}

// Offset is the position t would have in the window, which may fall outside
// [0, Len()).
func (w Window) Offset(t time.Time) int {
	return DaysBetween(w.days[0], t)
}

// IndexOf finds the calendar day of t.
func (w Window) IndexOf(t time.Time) (int, bool) {
	if len(w.days) == 0 {
		return -1, false
	}
	i := w.Offset(t)
	if i < 0 || i >= len(w.days) || !sameDay(w.days[i], t) {
		return -1, false
	}
	return i, true
}

// Contains reports whether i is a valid index.
func (w Window) Contains(i int) bool {
	return i >= 0 && i < len(w.days)
}

// Validate checks the window invariants: non-empty, strictly consecutive
// days, and a selected index that points at one of them.
func (w Window) Validate() error {
	if len(w.days) == 0 {
		return fmt.Errorf("empty window: %w", ErrBrokenSequence)
	}
	for i := 1; i < len(w.days); i++ {
		if !w.days[i].Equal(w.days[i-1].AddDate(0, 0, 1)) {
			return fmt.Errorf("days[%d]=%s follows %s: %w", i,
				w.days[i].Format(time.DateOnly), w.days[i-1].Format(time.DateOnly), ErrBrokenSequence)
		}
	}
	if !w.Contains(w.index) {
		return fmt.Errorf("selected index %d of %d: %w", w.index, len(w.days), ErrIndexOutOfRange)
	}
	return nil
}

func (w Window) withIndex(i int) Window {
	return Window{days: w.days, index: i}
}

// prepend adds n days before the first one and rebases the selected index
// by n so it keeps pointing at the same day.
func (w Window) prepend(n int) Window {
	days := make([]time.Time, 0, len(w.days)+n)
	days = append(days, span(w.days[0].AddDate(0, 0, -n), n)...)
	days = append(days, w.days...)
	mustJoin(days, n)
	return Window{days: days, index: w.index + n}
}

// appendDays adds n days after the last one. Earlier positions are untouched.
func (w Window) appendDays(n int) Window {
	last := len(w.days)
	days := make([]time.Time, 0, last+n)
	days = append(days, w.days...)
	days = append(days, span(w.days[last-1].AddDate(0, 0, 1), n)...)
	mustJoin(days, last)
	return Window{days: days, index: w.index}
}

// mustJoin panics when the seam at days[at-1]/days[at] is not exactly one day
// apart. Growth builds both halves from the same start date, so a failure
// here is a bug in this package.
func mustJoin(days []time.Time, at int) {
	if at <= 0 || at >= len(days) {
		return
	}
	if !days[at].Equal(days[at-1].AddDate(0, 0, 1)) {
		panic(fmt.Sprintf("datewindow: growth seam %s -> %s: %v",
			days[at-1].Format(time.DateOnly), days[at].Format(time.DateOnly), ErrBrokenSequence))
	}
}
