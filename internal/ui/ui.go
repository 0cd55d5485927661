package ui

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"daystrip/internal/config"
	"daystrip/internal/datewindow"
	"daystrip/internal/storage"
	"daystrip/internal/strip"
)

type mode int

const (
	modeStrip mode = iota
	modeSeek
)

// TaskSource answers what is due on a given day.
type TaskSource interface {
	TasksDueOn(day time.Time) ([]storage.Task, error)
	PendingCounts(from, to time.Time) (map[string]int, error)
}

// settleMsg fires once free scrolling has been idle for the settle delay.
// Ticks from an older scroll gesture carry a stale gen and are ignored.
type settleMsg struct{ gen int }

// frameMsg is the frame boundary at which a deferred correction is applied.
type frameMsg struct{}

// viewport is the scrolling host. offset is in columns, with item i centered
// when offset == i*itemWidth.
type viewport struct {
	offset    float64
	itemWidth int
	width     int
	animated  bool
}

func (v *viewport) ScrollToIndex(index int, animated bool) {
	v.offset = float64(index * v.itemWidth)
	v.animated = animated
}

func (v *viewport) centerIndex() int {
	return int(math.Round(v.offset / float64(v.itemWidth)))
}

func (v *viewport) visibleCount() int {
	n := v.width / v.itemWidth
	if n%2 == 0 {
		n--
	}
	return max(n, 1)
}

// selection is what the strip last reported through its callbacks.
type selection struct {
	label string
	date  time.Time
	tasks []storage.Task
	err   error
}

type Model struct {
	strip  *strip.Strip
	view   *viewport
	sel    *selection
	src    TaskSource
	cfg    config.Config
	keys   keyMap
	help   help.Model
	input  textinput.Model
	styles Styles
	now    func() time.Time
	log    logrus.FieldLogger

	mode      mode
	status    string
	settleGen int
	counts    map[string]int
	countsLo  time.Time
	countsHi  time.Time
}

// NewModel builds the strip and mounts it. Extra strip options, such as
// strip.WithCenter, are applied after the ones derived from cfg.
func NewModel(src TaskSource, cfg config.Config, now func() time.Time, log logrus.FieldLogger, opts ...strip.Option) (Model, error) {
	view := &viewport{itemWidth: cfg.Strip.ItemWidth, width: 80}
	sel := &selection{}

	opts = append([]strip.Option{
		strip.WithParams(cfg.Strip.Params()),
		strip.WithClock(now),
		strip.WithLogger(log),
		strip.WithDeferredCorrections(cfg.Strip.DeferCorrections),
		strip.WithOnMonthChange(func(label string) { sel.label = label }),
		strip.WithOnDateChange(func(d time.Time) {
			sel.date = d
			sel.tasks, sel.err = src.TasksDueOn(d)
			if sel.err != nil {
				log.WithError(sel.err).Warn("load tasks")
			}
		}),
	}, opts...)
	s, err := strip.New(view, opts...)
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.Placeholder = "YYYY-MM-DD"
	ti.CharLimit = 10
	ti.Width = 12

	m := Model{
		strip:  s,
		view:   view,
		sel:    sel,
		src:    src,
		cfg:    cfg,
		keys:   newKeyMap(cfg.Keys),
		help:   help.New(),
		input:  ti,
		styles: DefaultStyles(),
		now:    now,
		log:    log,
		mode:   modeStrip,
		status: "Scroll with the arrow keys, press " + cfg.Keys.Seek + " to jump to a date.",
	}
	s.Mount()
	m.refreshCounts()
	return m, nil
}

func Run(src TaskSource, cfg config.Config, log logrus.FieldLogger) error {
	m, err := NewModel(src, cfg, time.Now, log)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == modeSeek {
			return m.updateSeekMode(msg)
		}
		return m.updateStripMode(msg)
	case tea.WindowSizeMsg:
		m.SetWidth(msg.Width)
	case settleMsg:
		if msg.gen != m.settleGen {
			return m, nil
		}
		return m.afterEvent(m.strip.OnScroll(m.view.offset, float64(m.view.itemWidth)))
	case frameMsg:
		if m.strip.Flush() {
			m.refreshCounts()
		}
	}
	return m, nil
}

func (m Model) updateStripMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Left):
		return m.afterEvent(m.strip.OnTap(m.strip.Window().Index() - 1))
	case key.Matches(msg, m.keys.Right):
		return m.afterEvent(m.strip.OnTap(m.strip.Window().Index() + 1))
	case key.Matches(msg, m.keys.PageLeft):
		return m.freeScroll(-1)
	case key.Matches(msg, m.keys.PageRight):
		return m.freeScroll(1)
	case key.Matches(msg, m.keys.Today):
		return m.afterEvent(m.strip.SeekToDate(m.now()))
	case key.Matches(msg, m.keys.Seek):
		m.mode = modeSeek
		m.input.SetValue("")
		m.input.Focus()
		m.status = "Go to date: type YYYY-MM-DD and press " + m.cfg.Keys.Confirm
	}
	return m, nil
}

func (m Model) updateSeekMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeStrip
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		target, err := parseDate(m.input.Value())
		if err != nil {
			m.status = fmt.Sprintf("date invalid: %v", err)
			return m, nil
		}
		m.mode = modeStrip
		m.input.Blur()
		return m.afterEvent(m.strip.SeekToDate(target))
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// freeScroll moves the view a page without selecting anything. The strip
// hears about it once scrolling has been idle for the settle delay.
func (m Model) freeScroll(dir int) (tea.Model, tea.Cmd) {
	page := float64(m.view.visibleCount() * m.view.itemWidth)
	maxOffset := float64((m.strip.Window().Len() - 1) * m.view.itemWidth)
	m.view.offset = math.Min(math.Max(m.view.offset+float64(dir)*page, 0), maxOffset)
	m.view.animated = false
	m.settleGen++
	gen := m.settleGen
	delay := time.Duration(m.cfg.Strip.SettleDelayMS) * time.Millisecond
	return m, tea.Tick(delay, func(time.Time) tea.Msg { return settleMsg{gen: gen} })
}

func (m Model) afterEvent(err error) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(err, datewindow.ErrBusy):
		m.log.Debug("strip busy, event dropped")
	case errors.Is(err, datewindow.ErrIndexOutOfRange):
		m.log.WithError(err).Debug("ignored out of range index")
	case err != nil:
		m.status = fmt.Sprintf("move failed: %v", err)
		return m, nil
	default:
		m.status = ""
	}
	m.refreshCounts()
	if m.strip.Pending() {
		return m, func() tea.Msg { return frameMsg{} }
	}
	return m, nil
}

// refreshCounts reloads task markers when the window has grown past the
// range last loaded.
func (m *Model) refreshCounts() {
	w := m.strip.Window()
	if m.counts != nil && m.countsLo.Equal(w.First()) && m.countsHi.Equal(w.Last()) {
		return
	}
	counts, err := m.src.PendingCounts(w.First(), w.Last())
	if err != nil {
		m.log.WithError(err).Warn("load task counts")
		return
	}
	m.counts, m.countsLo, m.countsHi = counts, w.First(), w.Last()
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.Snapshot())
	b.WriteString("\n\n")

	if m.mode == modeSeek {
		b.WriteString("Go to: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Snapshot renders the month label, the visible strip and the tasks due on
// the selected day.
func (m Model) Snapshot() string {
	var b strings.Builder
	b.WriteString(m.styles.Label.Render(m.sel.label))
	b.WriteString("\n\n")
	b.WriteString(m.renderStrip())
	b.WriteString("\n\n")

	if !m.sel.date.IsZero() {
		b.WriteString(m.sel.date.Format("Monday, 2 January 2006"))
		b.WriteString("\n")
	}
	if m.sel.err != nil {
		b.WriteString(fmt.Sprintf("tasks unavailable: %v", m.sel.err))
	} else {
		b.WriteString(renderTasks(m.sel.tasks, m.styles))
	}
	return b.String()
}

// SetWidth sizes the strip viewport as a tea.WindowSizeMsg would.
func (m *Model) SetWidth(width int) {
	m.view.width = width
	m.help.Width = width
}

// SeekToDate jumps the strip outside of the event loop.
func (m *Model) SeekToDate(t time.Time) error {
	if err := m.strip.SeekToDate(t); err != nil {
		return err
	}
	m.strip.Flush()
	m.refreshCounts()
	return nil
}

func (m Model) renderStrip() string {
	from, to := visibleRange(m.view.centerIndex(), m.view.visibleCount())
	rendered := m.strip.RenderRange(from, to)

	cells := make([]*strip.Cell, 0, to-from)
	for i := from; i < to; i++ {
		j := i - max(from, 0)
		if i < 0 || j >= len(rendered) {
			cells = append(cells, nil)
			continue
		}
		cells = append(cells, &rendered[j])
	}
	return RenderCells(cells, m.counts, m.view.itemWidth, m.styles)
}

func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty date")
	}
	return time.ParseInLocation(time.DateOnly, v, time.Local)
}
