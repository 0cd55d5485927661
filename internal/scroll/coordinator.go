// Package scroll connects a date window to the view that scrolls it: host
// settle and tap events become visits, and visit results become scroll
// commands on the host.
package scroll

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"daystrip/internal/datewindow"
	"daystrip/internal/logging"
)

// Host is the scrolling view that displays the strip.
type Host interface {
	ScrollToIndex(index int, animated bool)
}

// Settler receives the selection once an update has come to rest.
type Settler interface {
	Settle(date time.Time) bool
}

// Coordinator is the only path from host events and seeks into the window.
//
// By default corrective commands are issued on the host inside the call that
// grew the window. Hosts that only pick up new data at a frame boundary use
// WithDeferredCorrections: the command that follows a growth is held until
// Flush, and every host event until then is dropped.
type Coordinator struct {
	host     Host
	machine  *datewindow.Machine
	settler  Settler
	log      logrus.FieldLogger
	deferred bool

	inFlight      bool
	lenBefore     int
	pending       *datewindow.ScrollCommand
	settleOnFlush bool
	dropped       int
}

type Option func(*Coordinator)

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Coordinator) { c.log = log }
}

func WithDeferredCorrections(on bool) Option {
	return func(c *Coordinator) { c.deferred = on }
}

func New(host Host, machine *datewindow.Machine, settler Settler, opts ...Option) *Coordinator {
	c := &Coordinator{
		host:    host,
		machine: machine,
		settler: settler,
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount positions the host on the initial selection and emits it.
func (c *Coordinator) Mount() {
	c.host.ScrollToIndex(c.machine.Window().Index(), false)
	c.settle()
}

// OnTap handles a tap on item i: scroll to it, then treat it as settled.
func (c *Coordinator) OnTap(i int) error {
	if !c.enter("tap", i) {
		return datewindow.ErrBusy
	}
	defer c.leave()
	if !c.machine.Window().Contains(i) {
		return c.visit(i)
	}
	c.host.ScrollToIndex(i, true)
	return c.visit(i)
}

// OnSettle handles the host coming to rest on item i.
func (c *Coordinator) OnSettle(i int) error {
	if !c.enter("settle", i) {
		return datewindow.ErrBusy
	}
	defer c.leave()
	return c.visit(i)
}

// OnScroll handles hosts that only know their scroll offset when momentum
// ends. The nearest item is treated exactly like a settle.
func (c *Coordinator) OnScroll(offset, extent float64) error {
	i := NearestIndex(offset, extent, c.machine.Window().Len())
	if !c.enter("scroll", i) {
		return datewindow.ErrBusy
	}
	defer c.leave()
	return c.visit(i)
}

// SeekToDate jumps to target. A correction still waiting for Flush is
// superseded, since the seek command is expressed in the grown window. A
// rejected seek leaves the held correction in place.
func (c *Coordinator) SeekToDate(target time.Time) error {
	if c.inFlight {
		c.drop("seek", -1)
		return datewindow.ErrBusy
	}
	held, heldSettle := c.pending, c.settleOnFlush
	c.pending = nil
	c.settleOnFlush = false
	c.inFlight = true
	defer c.leave()

	c.lenBefore = c.machine.Window().Len()
	res, err := c.machine.SeekToDate(target, c.apply)
	if err != nil {
		c.pending, c.settleOnFlush = held, heldSettle
		return err
	}
	if held != nil {
		c.log.WithField("index", held.Index).Debug("pending correction superseded by seek")
	}
	c.logResult("seek", res)
	c.settle()
	return nil
}

// Flush issues the held correction, if any, and emits the selection that was
// waiting on it. It reports whether a command was issued.
func (c *Coordinator) Flush() bool {
	if c.pending == nil {
		return false
	}
	cmd := *c.pending
	c.pending = nil
	c.inFlight = true
	c.host.ScrollToIndex(cmd.Index, cmd.Animated)
	c.inFlight = false
	if c.settleOnFlush {
		c.settleOnFlush = false
		c.settler.Settle(c.machine.Window().Selected())
	}
	return true
}

// Pending returns the held correction.
func (c *Coordinator) Pending() (datewindow.ScrollCommand, bool) {
	if c.pending == nil {
		return datewindow.ScrollCommand{}, false
	}
	return *c.pending, true
}

// Dropped counts host events ignored while an update was in flight.
func (c *Coordinator) Dropped() int { return c.dropped }

func (c *Coordinator) enter(event string, i int) bool {
	if c.inFlight || c.pending != nil {
		c.drop(event, i)
		return false
	}
	c.inFlight = true
	return true
}

func (c *Coordinator) leave() {
	c.inFlight = false
}

func (c *Coordinator) drop(event string, i int) {
	c.dropped++
	c.log.WithFields(logrus.Fields{"event": event, "index": i}).Debug("event dropped during update")
}

func (c *Coordinator) visit(i int) error {
	c.lenBefore = c.machine.Window().Len()
	res, err := c.machine.ReportVisit(i, c.apply)
	if err != nil {
		return err
	}
	c.logResult("visit", res)
	c.settle()
	return nil
}

func (c *Coordinator) apply(cmd datewindow.ScrollCommand) {
	if c.deferred && c.machine.Window().Len() != c.lenBefore {
		c.pending = &cmd
		return
	}
	c.host.ScrollToIndex(cmd.Index, cmd.Animated)
}

func (c *Coordinator) settle() {
	if c.pending != nil {
		c.settleOnFlush = true
		return
	}
	c.settler.Settle(c.machine.Window().Selected())
}

func (c *Coordinator) logResult(op string, res datewindow.Result) {
	if res.Growth == nil {
		return
	}
	c.log.WithFields(logrus.Fields{
		"op":        op,
		"direction": res.Growth.Direction.String(),
		"days":      res.Growth.Days,
		"index":     res.Window.Index(),
		"len":       res.Window.Len(),
	}).Debug("window grown")
}

// NearestIndex maps a scroll offset to the closest item, assuming item i is
// in place at offset i*extent. The result is clamped to [0, n).
func NearestIndex(offset, extent float64, n int) int {
	if n <= 0 {
		return 0
	}
	if extent <= 0 || math.IsNaN(offset) || math.IsInf(offset, 0) {
		return 0
	}
	i := int(math.Round(offset / extent))
	return min(max(i, 0), n-1)
}
