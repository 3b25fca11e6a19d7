package tui_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/samirrijal/antipodes/internal/adapters/mercator"
	"github.com/samirrijal/antipodes/internal/adapters/tui"
	"github.com/samirrijal/antipodes/internal/core/domain"
	"github.com/samirrijal/antipodes/internal/core/usecases"
)

var santiago = domain.Coordinate{Lat: -33.42651995258547, Lng: -70.66558906755355}

// --- Mock Searcher ---

type mockSearcher struct {
	searchFn func(ctx context.Context, query string) ([]domain.Place, error)
	queries  []string
}

func (m *mockSearcher) Search(ctx context.Context, query string) ([]domain.Place, error) {
	m.queries = append(m.queries, query)
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return nil, nil
}

// --- Mock TimezoneService ---

type mockTimezones struct{}

func (mockTimezones) GetTimezone(lat, lng float64) (string, error) {
	if lng < 0 {
		return "America/Santiago", nil
	}
	return "Asia/Shanghai", nil
}

// --- Helpers ---

type fixture struct {
	model    *tui.Model
	primary  *mercator.Surface
	mirror   *mercator.Surface
	searcher *mockSearcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	primary := mercator.New(domain.Primary, 640, 480)
	mirror := mercator.New(domain.Mirror, 640, 480)
	svc := usecases.NewSyncService(usecases.NewSession(primary, mirror), nil)
	if err := svc.Open(context.Background(), santiago, 12); err != nil {
		t.Fatalf("Open: %v", err)
	}

	searcher := &mockSearcher{}
	m, err := tui.New(context.Background(),
		tui.Elements{Primary: primary, Mirror: mirror, Input: tui.NewSearchInput("place")},
		tui.Deps{Sync: svc, Search: searcher, Timezones: mockTimezones{}},
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &fixture{model: m, primary: primary, mirror: mirror, searcher: searcher}
}

func (f *fixture) send(msg tea.Msg) tea.Cmd {
	_, cmd := f.model.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func assertMirrored(t *testing.T, primary, mirror *mercator.Surface) {
	t.Helper()
	p, m := primary.View(), mirror.View()
	if math.Abs(p.Center.Lat+m.Center.Lat) > 1e-6 {
		t.Errorf("mirror lat %v is not the antipode of %v", m.Center.Lat, p.Center.Lat)
	}
	d := math.Mod(math.Abs(p.Center.Lng-m.Center.Lng), 360)
	if math.Abs(d-180) > 1e-6 {
		t.Errorf("mirror lng %v is not the antipode of %v", m.Center.Lng, p.Center.Lng)
	}
	if p.Zoom != m.Zoom {
		t.Errorf("zoom mismatch: primary %d, mirror %d", p.Zoom, m.Zoom)
	}
}

// --- Tests ---

func TestNew_MissingElements(t *testing.T) {
	s1 := mercator.New(domain.Primary, 10, 10)
	s2 := mercator.New(domain.Mirror, 10, 10)
	in := tui.NewSearchInput("")
	deps := tui.Deps{Sync: usecases.NewSyncService(usecases.NewSession(s1, s2), nil), Search: &mockSearcher{}}

	tests := []struct {
		name string
		el   tui.Elements
	}{
		{"primary", tui.Elements{Mirror: s2, Input: in}},
		{"mirror", tui.Elements{Primary: s1, Input: in}},
		{"input", tui.Elements{Primary: s1, Mirror: s2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tui.New(context.Background(), tt.el, deps)
			if !errors.Is(err, domain.ErrMissingElement) {
				t.Errorf("error = %v, want ErrMissingElement", err)
			}
		})
	}
}

func TestModel_PanSyncsMirror(t *testing.T) {
	f := newFixture(t)

	f.send(tea.KeyMsg{Type: tea.KeyRight})
	f.send(tea.KeyMsg{Type: tea.KeyUp})

	if f.model.Err() != nil {
		t.Fatalf("unexpected error: %v", f.model.Err())
	}
	if f.primary.View().Center.Lng <= santiago.Lng {
		t.Error("primary did not pan east")
	}
	assertMirrored(t, f.primary, f.mirror)
}

func TestModel_ZoomSyncsMirror(t *testing.T) {
	f := newFixture(t)

	f.send(runes("+"))
	if f.primary.View().Zoom != 13 {
		t.Errorf("primary zoom = %d, want 13", f.primary.View().Zoom)
	}
	assertMirrored(t, f.primary, f.mirror)

	f.send(runes("-"))
	f.send(runes("-"))
	if f.primary.View().Zoom != 11 {
		t.Errorf("primary zoom = %d, want 11", f.primary.View().Zoom)
	}
	assertMirrored(t, f.primary, f.mirror)
}

func TestModel_MirrorDrivesPrimary(t *testing.T) {
	f := newFixture(t)

	f.send(tea.KeyMsg{Type: tea.KeyTab})
	if f.model.Active() != domain.Mirror {
		t.Fatalf("active = %v, want mirror", f.model.Active())
	}

	before := f.primary.View().Center
	f.send(runes("h"))
	if f.primary.View().Center == before {
		t.Error("primary did not follow the mirror")
	}
	assertMirrored(t, f.primary, f.mirror)
}

func TestModel_SearchFlow(t *testing.T) {
	f := newFixture(t)
	f.searcher.searchFn = func(ctx context.Context, query string) ([]domain.Place, error) {
		return []domain.Place{
			{
				Name: "Bilbao",
				Geometry: &domain.PlaceGeometry{
					Location: &domain.Coordinate{Lat: 43.263, Lng: -2.935},
					Viewport: &domain.Viewport{North: 43.29, South: 43.21, East: -2.88, West: -3.0},
				},
			},
			{
				Name:     "Getxo",
				Geometry: &domain.PlaceGeometry{Location: &domain.Coordinate{Lat: 43.35, Lng: -3.01}},
			},
			{Name: "Nowhere"},
		}, nil
	}

	f.send(runes("/"))
	f.send(runes("Bilbao"))
	f.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	f.send(runes("Spain"))
	cmd := f.send(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a search command")
	}

	f.send(cmd())

	if len(f.searcher.queries) != 1 || f.searcher.queries[0] != "Bilbao Spain" {
		t.Errorf("queries = %v", f.searcher.queries)
	}
	if f.model.Err() != nil {
		t.Fatalf("unexpected error: %v", f.model.Err())
	}

	pm, mm := f.primary.Markers(), f.mirror.Markers()
	if len(pm) != 2 || len(mm) != 2 {
		t.Fatalf("markers: primary %d, mirror %d, want 2 each", len(pm), len(mm))
	}
	if pm[0].Title != "Bilbao" || pm[1].Title != "Getxo" {
		t.Errorf("unexpected titles %q %q", pm[0].Title, pm[1].Title)
	}
	if c := f.mirror.View().Center; c.Lat > -43 || c.Lat < -44 || c.Lng < 176 {
		t.Errorf("mirror not on the antipode of Bilbao: %v", c)
	}
}

func TestModel_SearchError(t *testing.T) {
	f := newFixture(t)
	f.searcher.searchFn = func(ctx context.Context, query string) ([]domain.Place, error) {
		return nil, errors.New("geocoder unavailable")
	}

	f.send(runes("/"))
	f.send(runes("x"))
	f.send(cmdMsg(t, f.send(tea.KeyMsg{Type: tea.KeyEnter})))

	if f.model.Err() == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(f.model.View(), "geocoder unavailable") {
		t.Error("error not shown in the status line")
	}
	if len(f.primary.Markers()) != 1 {
		t.Error("markers must be kept when the search fails")
	}
}

func TestModel_EscCancelsInput(t *testing.T) {
	f := newFixture(t)

	f.send(runes("/"))
	f.send(runes("abc"))
	f.send(tea.KeyMsg{Type: tea.KeyBackspace})
	if cmd := f.send(tea.KeyMsg{Type: tea.KeyEsc}); cmd != nil {
		t.Error("esc must not start a search")
	}

	// Navigation keys reach the maps again.
	f.send(runes("+"))
	if f.primary.View().Zoom != 13 {
		t.Errorf("zoom = %d, want 13", f.primary.View().Zoom)
	}
	if len(f.searcher.queries) != 0 {
		t.Errorf("unexpected queries %v", f.searcher.queries)
	}
}

func TestModel_InputEditing(t *testing.T) {
	f := newFixture(t)

	if !strings.Contains(f.model.View(), "search: ") {
		t.Error("view missing search prompt")
	}

	f.send(runes("/"))
	f.send(runes("Bilbaox"))
	f.send(tea.KeyMsg{Type: tea.KeyBackspace})
	if !strings.Contains(f.model.View(), "Bilbao") {
		t.Error("typed text not shown")
	}

	f.send(cmdMsg(t, f.send(tea.KeyMsg{Type: tea.KeyEnter})))
	if len(f.searcher.queries) != 1 || f.searcher.queries[0] != "Bilbao" {
		t.Errorf("queries = %v, want [Bilbao]", f.searcher.queries)
	}
}

func TestModel_EmptyQueryIgnored(t *testing.T) {
	f := newFixture(t)

	f.send(runes("/"))
	if cmd := f.send(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("empty query must not start a search")
	}
}

func TestModel_View(t *testing.T) {
	f := newFixture(t)
	f.send(tea.WindowSizeMsg{Width: 120, Height: 40})

	out := f.model.View()
	for _, want := range []string{"primary", "mirror", "separation 180.00°", "20015 km", "America/Santiago", "Asia/Shanghai", "zoom 12"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_Quit(t *testing.T) {
	f := newFixture(t)

	cmd := f.send(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func cmdMsg(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}
