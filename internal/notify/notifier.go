// Package notify turns settled strip selections into month-label and date
// callbacks for the screen that hosts the strip.
package notify

import (
	"time"

	"github.com/sirupsen/logrus"

	"daystrip/internal/logging"
)

// MonthLayout renders labels such as "January 2024".
const MonthLayout = "January 2006"

func MonthLabel(t time.Time) string {
	return t.Format(MonthLayout)
}

// Notifier emits each settled selection once. Repeated settles on the same
// calendar day are swallowed.
type Notifier struct {
	onMonth func(string)
	onDate  func(time.Time)
	log     logrus.FieldLogger

	last    time.Time
	settled bool
	emits   int
}

type Option func(*Notifier)

func WithOnMonthChange(fn func(label string)) Option {
	return func(n *Notifier) { n.onMonth = fn }
}

func WithOnDateChange(fn func(date time.Time)) Option {
	return func(n *Notifier) { n.onDate = fn }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(n *Notifier) { n.log = log }
}

func New(opts ...Option) *Notifier {
	n := &Notifier{log: logging.Discard()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Settle reports the selection the strip came to rest on. It returns true
// when the callbacks fired.
func (n *Notifier) Settle(date time.Time) bool {
	y, m, d := date.Date()
	date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if n.settled && n.last.Equal(date) {
		return false
	}
	n.last = date
	n.settled = true
	n.emits++

	label := MonthLabel(date)
	n.log.WithFields(logrus.Fields{"date": date.Format(time.DateOnly), "month": label}).Debug("selection settled")
	if n.onMonth != nil {
		n.onMonth(label)
	}
	if n.onDate != nil {
		n.onDate(date)
	}
	return true
}

// Last returns the most recently emitted date.
func (n *Notifier) Last() (time.Time, bool) {
	return n.last, n.settled
}

func (n *Notifier) Emits() int { return n.emits }
