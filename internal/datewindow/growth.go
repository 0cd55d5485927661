package datewindow

import (
	"fmt"
	"time"
)

// Params sizes the initial window and controls growth. A visit closer than
// Margin to either end grows that end by Batch days. Margin must stay below
// Batch so one visit never needs two batches.
type Params struct {
	BackDays    int
	ForwardDays int
	Margin      int
	Batch       int
}

func DefaultParams() Params {
	return Params{BackDays: 30, ForwardDays: 30, Margin: 10, Batch: 30}
}

func (p Params) Validate() error {
	switch {
	case p.BackDays < 0 || p.ForwardDays < 0:
		return fmt.Errorf("back=%d forward=%d: %w", p.BackDays, p.ForwardDays, ErrInvalidParams)
	case p.Batch <= 0:
		return fmt.Errorf("batch=%d: %w", p.Batch, ErrInvalidParams)
	case p.Margin < 0 || p.Margin >= p.Batch:
		return fmt.Errorf("margin=%d batch=%d: %w", p.Margin, p.Batch, ErrInvalidParams)
	}
	return nil
}

type Direction int

const (
	Head Direction = iota
	Tail
)

func (d Direction) String() string {
	if d == Head {
		return "head"
	}
	return "tail"
}

// Growth records days added to one end of the window.
type Growth struct {
	Direction Direction
	Days      int
}

// ScrollCommand asks the host view to bring Index into place. Corrections
// after head growth are not animated; seeks are.
type ScrollCommand struct {
	Index    int
	Animated bool
}

// Result is the outcome of one visit or seek. Window already carries the
// rebased index.
type Result struct {
	Window Window
	Growth *Growth
	Scroll *ScrollCommand
}

// Visit applies a settled or tapped index to w.
func Visit(w Window, raw int, p Params) (Result, error) {
	if !w.Contains(raw) {
		return Result{Window: w}, fmt.Errorf("visit %d of %d: %w", raw, w.Len(), ErrIndexOutOfRange)
	}
	switch {
	case raw < p.Margin:
		grown := w.withIndex(raw).prepend(p.Batch)
		return Result{
			Window: grown,
			Growth: &Growth{Direction: Head, Days: p.Batch},
			Scroll: &ScrollCommand{Index: grown.index, Animated: false},
		}, nil
	case raw >= w.Len()-p.Margin:
		return Result{
			Window: w.withIndex(raw).appendDays(p.Batch),
			Growth: &Growth{Direction: Tail, Days: p.Batch},
		}, nil
	default:
		return Result{Window: w.withIndex(raw)}, nil
	}
}

// Seek selects the calendar day of target, growing w in a single direction by
// a multiple of Batch when target lies outside it.
func Seek(w Window, target time.Time, p Params) (Result, error) {
	if target.IsZero() {
		return Result{Window: w}, fmt.Errorf("seek: %w", ErrInvalidDate)
	}
	target = Day(target)
	offset := w.Offset(target)

	var (
		next   Window
		growth *Growth
	)
	switch {
	case offset < 0:
		n := roundUp(-offset, p.Batch)
		next = w.prepend(n)
		offset += n
		growth = &Growth{Direction: Head, Days: n}
	case offset >= w.Len():
		n := roundUp(offset-w.Len()+1, p.Batch)
		next = w.appendDays(n)
		growth = &Growth{Direction: Tail, Days: n}
	default:
		next = w
	}

	if !next.Contains(offset) || !next.days[offset].Equal(target) {
		return Result{Window: w}, fmt.Errorf("seek %s resolved to index %d: %w",
			target.Format(time.DateOnly), offset, ErrBrokenSequence)
	}
	next = next.withIndex(offset)
	return Result{
		Window: next,
		Growth: growth,
		Scroll: &ScrollCommand{Index: offset, Animated: true},
	}, nil
}
