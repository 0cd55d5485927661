package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	labels []string
	dates  []time.Time
}

func (r *recorder) options() []Option {
	return []Option{
		WithOnMonthChange(func(label string) { r.labels = append(r.labels, label) }),
		WithOnDateChange(func(d time.Time) { r.dates = append(r.dates, d) }),
	}
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "January 2024", MonthLabel(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "December 1999", MonthLabel(time.Date(1999, time.December, 31, 23, 0, 0, 0, time.UTC)))
}

func TestSettle_EmitsOncePerChange(t *testing.T) {
	var r recorder
	n := New(r.options()...)

	d1 := time.Date(2024, time.January, 31, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	require.True(t, n.Settle(d1))
	require.False(t, n.Settle(d1.Add(5*time.Hour)))
	require.True(t, n.Settle(d2))
	require.True(t, n.Settle(d1))

	assert.Equal(t, []string{"January 2024", "February 2024", "January 2024"}, r.labels)
	require.Len(t, r.dates, 3)
	assert.Equal(t, time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), r.dates[0])
	assert.Equal(t, 3, n.Emits())

	last, ok := n.Last()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), last)
}

func TestSettle_NilSinks(t *testing.T) {
	n := New()
	_, ok := n.Last()
	assert.False(t, ok)
	assert.True(t, n.Settle(time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC)))
}

func TestSettle_LabelBeforeDate(t *testing.T) {
	var order []string
	n := New(
		WithOnMonthChange(func(string) { order = append(order, "month") }),
		WithOnDateChange(func(time.Time) { order = append(order, "date") }),
	)
	n.Settle(time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, []string{"month", "date"}, order)
}
