package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/samirrijal/antipodes/internal/adapters/mercator"
	"github.com/samirrijal/antipodes/internal/core/domain"
	"github.com/samirrijal/antipodes/internal/core/ports"
	"github.com/samirrijal/antipodes/internal/core/usecases"
)

// Elements are the widgets the UI is assembled from.
type Elements struct {
	Primary *mercator.Surface
	Mirror  *mercator.Surface
	Input   *SearchInput
}

// Searcher resolves search-box queries.
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.Place, error)
}

// Deps are the services driving the UI. Timezones may be nil.
type Deps struct {
	Sync      *usecases.SyncService
	Search    Searcher
	Timezones ports.TimezoneService
	Now       func() time.Time
}

// Model is the bubbletea model hosting both maps and the search box.
// Map events are dispatched to the sync service synchronously from Update,
// so every handler runs to completion before the next message is read.
type Model struct {
	ctx       context.Context
	primary   *mercator.Surface
	mirror    *mercator.Surface
	input     *SearchInput
	sync      *usecases.SyncService
	search    Searcher
	timezones ports.TimezoneService
	now       func() time.Time

	active   domain.MapID
	width    int
	height   int
	status   string
	err      error
	quitting bool
	pending  int
}

type searchDoneMsg struct {
	generation uint64
	query      string
	places     []domain.Place
	err        error
}

// New wires the elements to the services. A missing element aborts with
// domain.ErrMissingElement.
func New(ctx context.Context, el Elements, deps Deps) (*Model, error) {
	switch {
	case el.Primary == nil:
		return nil, fmt.Errorf("%w: primary map", domain.ErrMissingElement)
	case el.Mirror == nil:
		return nil, fmt.Errorf("%w: mirror map", domain.ErrMissingElement)
	case el.Input == nil:
		return nil, fmt.Errorf("%w: search input", domain.ErrMissingElement)
	}
	if deps.Sync == nil || deps.Search == nil {
		return nil, fmt.Errorf("tui: sync and search services are required")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	m := &Model{
		ctx:       ctx,
		primary:   el.Primary,
		mirror:    el.Mirror,
		input:     el.Input,
		sync:      deps.Sync,
		search:    deps.Search,
		timezones: deps.Timezones,
		now:       deps.Now,
		active:    domain.Primary,
		status:    "ready",
	}

	for _, s := range []*mercator.Surface{m.primary, m.mirror} {
		s.OnDrag = func(id domain.MapID) { m.dispatch(domain.Panned(id)) }
		s.OnZoomChanged = func(id domain.MapID) { m.dispatch(domain.Zoomed(id)) }
	}
	return m, nil
}

func (m *Model) Init() tea.Cmd { return nil }

// Err returns the last handler error, if any.
func (m *Model) Err() error { return m.err }

// Active returns the map receiving navigation keys.
func (m *Model) Active() domain.MapID { return m.active }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if m.input.Focused() {
			return m, m.updateInput(msg)
		}
		return m, m.updateMaps(msg)

	case searchDoneMsg:
		m.pending--
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.dispatch(domain.SearchCompleted(msg.query, msg.generation, msg.places))
		if m.err == nil {
			m.status = fmt.Sprintf("%q: %d place(s)", msg.query, len(msg.places))
		}

	default:
		if m.input.Focused() {
			return m, m.input.Update(msg)
		}
	}
	return m, nil
}

func (m *Model) updateMaps(msg tea.KeyMsg) tea.Cmd {
	s := m.surface(m.active)
	w, h := s.Size()
	dx, dy := w/8, h/8

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return tea.Quit
	case "tab":
		m.active = m.active.Other()
	case "up", "k":
		s.Pan(0, -dy)
	case "down", "j":
		s.Pan(0, dy)
	case "left", "h":
		s.Pan(-dx, 0)
	case "right", "l":
		s.Pan(dx, 0)
	case "+", "=":
		s.ZoomBy(1)
	case "-", "_":
		s.ZoomBy(-1)
	case "/":
		return m.input.Focus()
	}
	return nil
}

func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return tea.Quit
	case tea.KeyEsc:
		m.input.Reset()
		m.input.Blur()
	case tea.KeyEnter:
		query := m.input.Value()
		m.input.Blur()
		if query == "" {
			return nil
		}
		return m.startSearch(query)
	}
	return m.input.Update(msg)
}

// startSearch issues the query off the event loop; the result comes back as
// a searchDoneMsg.
func (m *Model) startSearch(query string) tea.Cmd {
	gen := m.sync.BeginSearch()
	m.pending++
	m.status = fmt.Sprintf("searching %q…", query)

	ctx, search := m.ctx, m.search
	return func() tea.Msg {
		places, err := search.Search(ctx, query)
		return searchDoneMsg{generation: gen, query: query, places: places, err: err}
	}
}

func (m *Model) dispatch(ev domain.Event) {
	if err := m.sync.Dispatch(m.ctx, ev); err != nil {
		m.fail(err)
		return
	}
	m.err = nil
}

func (m *Model) fail(err error) {
	m.err = err
	m.status = err.Error()
	slog.ErrorContext(m.ctx, "event handler failed", "error", err)
}

func (m *Model) surface(id domain.MapID) *mercator.Surface {
	if id == domain.Mirror {
		return m.mirror
	}
	return m.primary
}
