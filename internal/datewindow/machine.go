package datewindow

import "time"

// Phase is the update state shared by visits and seeks.
type Phase int

const (
	Idle Phase = iota
	// Growing covers the growth decision and the swap of days and index.
	Growing
	// Rebasing covers issuing the scroll command for the new index.
	Rebasing
)

func (p Phase) String() string {
	switch p {
	case Growing:
		return "growing"
	case Rebasing:
		return "rebasing"
	default:
		return "idle"
	}
}

// Machine owns a Window and is the single entry point for changing it.
// Calls made while an update is in flight, for example from a host view
// reacting to the scroll command, fail with ErrBusy and change nothing.
//
// A Machine is not safe for concurrent use.
type Machine struct {
	params Params
	win    Window
	phase  Phase
}

func NewMachine(w Window, p Params) (*Machine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Machine{params: p, win: w}, nil
}

func (m *Machine) Window() Window { return m.win }

func (m *Machine) Phase() Phase { return m.phase }

func (m *Machine) Params() Params { return m.params }

// ReportVisit records that the host settled on (or the user tapped) raw.
// issue is called with the corrective scroll command, if any, after the new
// window and index are in place.
func (m *Machine) ReportVisit(raw int, issue func(ScrollCommand)) (Result, error) {
	return m.run(func(w Window) (Result, error) {
		return Visit(w, raw, m.params)
	}, issue)
}

// SeekToDate selects target, growing the window if needed, and issues an
// animated scroll to it.
func (m *Machine) SeekToDate(target time.Time, issue func(ScrollCommand)) (Result, error) {
	return m.run(func(w Window) (Result, error) {
		return Seek(w, target, m.params)
	}, issue)
}

func (m *Machine) run(step func(Window) (Result, error), issue func(ScrollCommand)) (Result, error) {
	if m.phase != Idle {
		return Result{Window: m.win}, ErrBusy
	}
	m.phase = Growing
	defer func() { m.phase = Idle }()

	res, err := step(m.win)
	if err != nil {
		return Result{Window: m.win}, err
	}
	m.win = res.Window

	if res.Scroll != nil && issue != nil {
		m.phase = Rebasing
		issue(*res.Scroll)
	}
	return res, nil
}
