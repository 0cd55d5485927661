package ui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daystrip/internal/config"
	"daystrip/internal/logging"
	"daystrip/internal/storage"
)

// fakeSource implements TaskSource from an in-memory map.
type fakeSource struct {
	tasks       map[string][]storage.Task
	lookups     []string
	countCalls  int
	failLookups bool
}

func (f *fakeSource) TasksDueOn(day time.Time) ([]storage.Task, error) {
	key := day.Format(storage.DayLayout)
	f.lookups = append(f.lookups, key)
	if f.failLookups {
		return nil, errors.New("db locked")
	}
	return f.tasks[key], nil
}

func (f *fakeSource) PendingCounts(from, to time.Time) (map[string]int, error) {
	f.countCalls++
	counts := map[string]int{}
	for day, tasks := range f.tasks {
		counts[day] = len(tasks)
	}
	return counts, nil
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.LoadOrCreate(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	return cfg
}

func newTestModel(t *testing.T, src *fakeSource, mutate func(*config.Config)) Model {
	t.Helper()
	cfg := testConfig(t)
	if mutate != nil {
		mutate(&cfg)
	}
	now := func() time.Time { return time.Date(2024, time.January, 15, 9, 0, 0, 0, time.Local) }
	m, err := NewModel(src, cfg, now, logging.Discard())
	require.NoError(t, err)
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestNewModel_MountsOnToday(t *testing.T) {
	src := &fakeSource{tasks: map[string][]storage.Task{
		"2024-01-15": {{ID: 1, Title: "pay rent"}},
	}}
	m := newTestModel(t, src, nil)

	assert.Equal(t, "January 2024", m.sel.label)
	assert.Equal(t, 30, m.strip.Window().Index())
	assert.Equal(t, float64(30*7), m.view.offset)
	assert.Equal(t, []string{"2024-01-15"}, src.lookups)
	assert.Equal(t, 1, src.countCalls)

	view := m.View()
	assert.Contains(t, view, "January 2024")
	assert.Contains(t, view, "[ ] pay rent")
	assert.Contains(t, view, "Monday, 15 January 2024")
}

func TestArrowKeysMoveSelection(t *testing.T) {
	src := &fakeSource{}
	m := newTestModel(t, src, nil)

	m, _ = send(t, m, runes("l"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 32, m.strip.Window().Index())
	assert.Equal(t, time.Date(2024, time.January, 17, 0, 0, 0, 0, time.UTC), m.sel.date)
	assert.True(t, m.view.animated)

	m, _ = send(t, m, runes("h"))
	assert.Equal(t, 31, m.strip.Window().Index())
	assert.Equal(t, []string{"2024-01-15", "2024-01-16", "2024-01-17", "2024-01-16"}, src.lookups)
}

func TestSeekMode(t *testing.T) {
	src := &fakeSource{}
	m := newTestModel(t, src, nil)

	m, _ = send(t, m, runes("g"))
	require.Equal(t, modeSeek, m.mode)
	for _, r := range "2024-04-01" {
		m, _ = send(t, m, runes(string(r)))
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, modeStrip, m.mode)
	assert.Equal(t, "April 2024", m.sel.label)
	assert.Equal(t, 107, m.strip.Window().Index())
	assert.Equal(t, float64(107*7), m.view.offset)
	// Grown window, so markers were reloaded.
	assert.Equal(t, 2, src.countCalls)
}

func TestSeekMode_InvalidDate(t *testing.T) {
	m := newTestModel(t, &fakeSource{}, nil)

	m, _ = send(t, m, runes("g"))
	for _, r := range "2024-13-01" {
		m, _ = send(t, m, runes(string(r)))
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, modeSeek, m.mode)
	assert.True(t, strings.HasPrefix(m.status, "date invalid"))
	assert.Equal(t, 30, m.strip.Window().Index())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeStrip, m.mode)
}

func TestTodayKey(t *testing.T) {
	m := newTestModel(t, &fakeSource{}, nil)
	m, _ = send(t, m, runes("l"))
	m, _ = send(t, m, runes("t"))
	assert.Equal(t, 30, m.strip.Window().Index())
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), m.sel.date)
}

func TestFreeScrollSettlesOnLatestGesture(t *testing.T) {
	m := newTestModel(t, &fakeSource{}, nil)

	m, cmd := send(t, m, runes("H"))
	require.NotNil(t, cmd)
	assert.Equal(t, float64(210-77), m.view.offset)
	// Selection does not move until the scroll settles.
	assert.Equal(t, 30, m.strip.Window().Index())

	m, _ = send(t, m, settleMsg{gen: m.settleGen})
	assert.Equal(t, 19, m.strip.Window().Index())
	assert.Equal(t, time.Date(2024, time.January, 4, 0, 0, 0, 0, time.UTC), m.sel.date)

	m, _ = send(t, m, runes("H"))
	stale := m.settleGen
	m, _ = send(t, m, runes("H"))
	assert.Zero(t, m.view.offset)

	m, _ = send(t, m, settleMsg{gen: stale})
	assert.Equal(t, 19, m.strip.Window().Index())

	m, _ = send(t, m, settleMsg{gen: m.settleGen})
	// Settled on the first day: head growth, rebased, view corrected.
	assert.Equal(t, 30, m.strip.Window().Index())
	assert.Equal(t, 91, m.strip.Window().Len())
	assert.Equal(t, float64(30*7), m.view.offset)
	assert.Equal(t, time.Date(2023, time.December, 16, 0, 0, 0, 0, time.UTC), m.sel.date)
}

func TestDeferredCorrectionsFlushOnFrame(t *testing.T) {
	m := newTestModel(t, &fakeSource{}, func(c *config.Config) { c.Strip.DeferCorrections = true })

	m, _ = send(t, m, runes("H"))
	m, _ = send(t, m, runes("H"))
	m, _ = send(t, m, runes("H"))
	m, cmd := send(t, m, settleMsg{gen: m.settleGen})
	require.NotNil(t, cmd)
	assert.IsType(t, frameMsg{}, cmd())
	assert.Zero(t, m.view.offset)
	assert.True(t, m.strip.Pending())

	m, _ = send(t, m, frameMsg{})
	assert.False(t, m.strip.Pending())
	assert.Equal(t, float64(30*7), m.view.offset)
	assert.Equal(t, time.Date(2023, time.December, 16, 0, 0, 0, 0, time.UTC), m.sel.date)
}

func TestTaskLookupFailureIsShown(t *testing.T) {
	m := newTestModel(t, &fakeSource{failLookups: true}, nil)
	assert.Contains(t, m.View(), "tasks unavailable: db locked")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, &fakeSource{}, nil)
	_, cmd := send(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRenderStripKeepsSelectionCentered(t *testing.T) {
	m := newTestModel(t, &fakeSource{tasks: map[string][]storage.Task{
		"2024-01-16": {{Title: "x"}},
	}}, nil)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 35, Height: 20})

	out := m.renderStrip()
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Mon")
	assert.Contains(t, lines[1], "15")
	assert.Contains(t, lines[2], "•")
}

func TestVisibleRange(t *testing.T) {
	from, to := visibleRange(30, 11)
	assert.Equal(t, 25, from)
	assert.Equal(t, 36, to)

	from, to = visibleRange(1, 5)
	assert.Equal(t, -1, from)
	assert.Equal(t, 4, to)
}
