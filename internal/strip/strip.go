// Package strip is the date-strip component: a horizontally scrolled run of
// days that grows at either end as the user approaches it and can be told to
// jump to any date.
//
// A Strip is driven from a single goroutine, normally the UI event loop.
package strip

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"daystrip/internal/datewindow"
	"daystrip/internal/logging"
	"daystrip/internal/notify"
	"daystrip/internal/scroll"
)

// Cell is the view model for one day in the strip.
type Cell struct {
	Date       time.Time
	DayNumber  int
	Weekday    string
	IsSelected bool
	IsToday    bool
}

type Strip struct {
	id       uuid.UUID
	now      func() time.Time
	machine  *datewindow.Machine
	coord    *scroll.Coordinator
	notifier *notify.Notifier
	log      logrus.FieldLogger
}

type options struct {
	center   time.Time
	params   datewindow.Params
	now      func() time.Time
	log      logrus.FieldLogger
	onMonth  func(string)
	onDate   func(time.Time)
	deferred bool
}

type Option func(*options)

// WithCenter sets the initially selected day. Defaults to today.
func WithCenter(t time.Time) Option {
	return func(o *options) { o.center = t }
}

func WithParams(p datewindow.Params) Option {
	return func(o *options) { o.params = p }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

func WithOnMonthChange(fn func(label string)) Option {
	return func(o *options) { o.onMonth = fn }
}

func WithOnDateChange(fn func(date time.Time)) Option {
	return func(o *options) { o.onDate = fn }
}

// WithDeferredCorrections holds scroll corrections until Flush. See
// scroll.WithDeferredCorrections.
func WithDeferredCorrections(on bool) Option {
	return func(o *options) { o.deferred = on }
}

func New(host scroll.Host, opts ...Option) (*Strip, error) {
	o := options{
		params: datewindow.DefaultParams(),
		now:    time.Now,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.center.IsZero() {
		o.center = o.now()
	}

	w, err := datewindow.New(o.center, o.params.BackDays, o.params.ForwardDays)
	if err != nil {
		return nil, fmt.Errorf("initial window: %w", err)
	}
	m, err := datewindow.NewMachine(w, o.params)
	if err != nil {
		return nil, fmt.Errorf("initial window: %w", err)
	}

	id := uuid.New()
	log := o.log.WithField("strip", id.String())
	n := notify.New(
		notify.WithOnMonthChange(o.onMonth),
		notify.WithOnDateChange(o.onDate),
		notify.WithLogger(log),
	)
	s := &Strip{
		id:       id,
		now:      o.now,
		machine:  m,
		notifier: n,
		log:      log,
		coord: scroll.New(host, m, n,
			scroll.WithLogger(log),
			scroll.WithDeferredCorrections(o.deferred),
		),
	}
	log.WithFields(logrus.Fields{
		"center": w.Selected().Format(time.DateOnly),
		"len":    w.Len(),
	}).Debug("strip created")
	return s, nil
}

func (s *Strip) ID() uuid.UUID { return s.id }

// Mount scrolls the host to the initial day and emits it.
func (s *Strip) Mount() { s.coord.Mount() }

func (s *Strip) OnTap(i int) error { return s.coord.OnTap(i) }

func (s *Strip) OnSettle(i int) error { return s.coord.OnSettle(i) }

func (s *Strip) OnScroll(offset, extent float64) error { return s.coord.OnScroll(offset, extent) }

func (s *Strip) SeekToDate(t time.Time) error { return s.coord.SeekToDate(t) }

// Flush applies a held correction. Hosts using deferred corrections call it
// once per frame.
func (s *Strip) Flush() bool { return s.coord.Flush() }

func (s *Strip) Pending() bool {
	_, ok := s.coord.Pending()
	return ok
}

func (s *Strip) Window() datewindow.Window { return s.machine.Window() }

func (s *Strip) Selected() time.Time { return s.machine.Window().Selected() }

func (s *Strip) Phase() datewindow.Phase { return s.machine.Phase() }

// MonthLabel is the label for the current selection.
func (s *Strip) MonthLabel() string { return notify.MonthLabel(s.Selected()) }

// Render returns a cell for every materialized day.
func (s *Strip) Render() []Cell {
	w := s.machine.Window()
	return s.cells(w, 0, w.Len())
}

// RenderRange returns cells for [from, to), clamped to the window.
func (s *Strip) RenderRange(from, to int) []Cell {
	w := s.machine.Window()
	from = max(from, 0)
	to = min(to, w.Len())
	if from >= to {
		return nil
	}
	return s.cells(w, from, to)
}

func (s *Strip) cells(w datewindow.Window, from, to int) []Cell {
	today := datewindow.Day(s.now())
	out := make([]Cell, 0, to-from)
	for i := from; i < to; i++ {
		d := w.At(i)
		out = append(out, Cell{
			Date:       d,
			DayNumber:  d.Day(),
			Weekday:    d.Format("Mon"),
			IsSelected: i == w.Index(),
			IsToday:    d.Equal(today),
		})
	}
	return out
}
