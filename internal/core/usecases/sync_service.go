package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/paulmach/orb"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/antipodes/internal/core/domain"
	"github.com/samirrijal/antipodes/internal/core/ports"
	"github.com/samirrijal/antipodes/internal/pkg/metrics"
	"github.com/samirrijal/antipodes/internal/pkg/telemetry"
)

const tracerName = "github.com/samirrijal/antipodes/internal/core/usecases"

// Session holds the mutable state shared by the two maps. It is owned by the
// application entry point and only touched from the UI event loop.
type Session struct {
	surfaces   [2]ports.MapSurface
	markers    [2][]ports.Marker
	syncing    [2]bool
	generation uint64
}

// NewSession pairs the primary and mirror surfaces.
func NewSession(primary, mirror ports.MapSurface) *Session {
	return &Session{surfaces: [2]ports.MapSurface{primary, mirror}}
}

// Surface returns the surface for the given map.
func (s *Session) Surface(id domain.MapID) ports.MapSurface { return s.surfaces[id] }

// MarkerCount returns the number of live markers on the given map.
func (s *Session) MarkerCount(id domain.MapID) int { return len(s.markers[id]) }

// Syncing reports whether the given map is being fitted programmatically.
func (s *Session) Syncing(id domain.MapID) bool { return s.syncing[id] }

// SyncService keeps the mirror map aligned with the primary map and
// vice versa. It is not safe for concurrent use.
type SyncService struct {
	session   *Session
	publisher ports.EventPublisher
	tracer    trace.Tracer
	now       func() time.Time
}

// NewSyncService creates a new SyncService. publisher may be nil.
func NewSyncService(session *Session, publisher ports.EventPublisher) *SyncService {
	return &SyncService{
		session:   session,
		publisher: publisher,
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
	}
}

// Session returns the session driven by this service.
func (s *SyncService) Session() *Session { return s.session }

// Open centres the primary map on initial and the mirror on its antipode,
// with one marker on each.
func (s *SyncService) Open(ctx context.Context, initial domain.Coordinate, zoom int) error {
	antipode, err := ComputeAntipode(initial)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}

	primary, mirror := s.session.surfaces[domain.Primary], s.session.surfaces[domain.Mirror]
	primary.SetView(initial, zoom)
	mirror.SetView(antipode, zoom)

	s.session.markers[domain.Primary] = append(s.session.markers[domain.Primary], primary.AddMarker(initial, ""))
	s.session.markers[domain.Mirror] = append(s.session.markers[domain.Mirror], mirror.AddMarker(antipode, ""))

	slog.InfoContext(ctx, "session opened", "primary", initial.String(), "mirror", antipode.String(), "zoom", zoom)
	return nil
}

// BeginSearch records that a new query was issued and returns its generation.
func (s *SyncService) BeginSearch() uint64 {
	s.session.generation++
	return s.session.generation
}

// Dispatch runs the handler for a single UI event to completion.
func (s *SyncService) Dispatch(ctx context.Context, ev domain.Event) (err error) {
	ctx, span := s.tracer.Start(ctx, telemetry.SpanDispatch, trace.WithAttributes(
		attribute.String(telemetry.AttrEventKind, ev.Kind.String()),
		attribute.String(telemetry.AttrEventSource, ev.Source.String()),
	))
	if ev.Kind == domain.EventSearchCompleted {
		span.SetAttributes(
			attribute.String(telemetry.AttrQuery, ev.Query),
			attribute.Int64(telemetry.AttrGeneration, int64(ev.Generation)),
			attribute.Int(telemetry.AttrPlaces, len(ev.Places)),
		)
	}
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			metrics.SyncErrors.WithLabelValues(ev.Kind.String()).Inc()
		}
		span.End()
	}()

	if ev.Source != domain.Primary && ev.Source != domain.Mirror {
		return fmt.Errorf("dispatch %s: unknown map %d", ev.Kind, int(ev.Source))
	}

	switch ev.Kind {
	case domain.EventPanned, domain.EventZoomed:
		return s.syncFrom(ctx, ev)
	case domain.EventSearchCompleted:
		return s.applySearch(ctx, ev)
	default:
		return fmt.Errorf("dispatch: unknown event kind %d", int(ev.Kind))
	}
}

// syncFrom fits the opposite map to the antipode of the source map's viewport.
func (s *SyncService) syncFrom(ctx context.Context, ev domain.Event) error {
	src := ev.Source
	if s.session.syncing[src] {
		metrics.SyncSuppressed.WithLabelValues(src.String()).Inc()
		slog.DebugContext(ctx, "event raised by programmatic fit ignored", "map", src.String(), "event", ev.Kind.String())
		return nil
	}

	bounds := s.session.surfaces[src].Bounds()
	if bounds == nil {
		return fmt.Errorf("%w: %s map has no viewport", domain.ErrInvalidBounds, src)
	}

	target, err := ComputeViewportAntipode(bounds)
	if err != nil {
		return fmt.Errorf("sync from %s: %w", src, err)
	}

	if target.CrossesAntimeridian() {
		slog.DebugContext(ctx, "antipodal viewport crosses the antimeridian", "viewport", target.String())
	}

	dst := src.Other()
	s.fit(dst, target, 0)
	metrics.SyncTotal.WithLabelValues(src.String(), ev.Kind.String()).Inc()

	if s.publisher != nil {
		_ = s.publisher.PublishSync(ctx, &domain.SyncRecord{
			Kind:     ev.Kind.String(),
			Source:   src.String(),
			Target:   dst.String(),
			Viewport: target,
			At:       s.now(),
		})
	}
	return nil
}

// fit applies a programmatic fit with the target's guard raised, so the
// target's own handlers ignore events the fit produces.
func (s *SyncService) fit(id domain.MapID, v domain.Viewport, padding int) {
	s.session.syncing[id] = true
	defer func() { s.session.syncing[id] = false }()
	s.session.surfaces[id].FitBounds(v, padding)
}

type pin struct {
	title    string
	at       domain.Coordinate
	antipode domain.Coordinate
}

// applySearch replaces the markers on both maps with the search results and
// moves both maps onto them. All places are validated before anything is
// mutated.
func (s *SyncService) applySearch(ctx context.Context, ev domain.Event) error {
	places := ev.Places
	if len(places) == 0 {
		slog.DebugContext(ctx, "search returned no places", "query", ev.Query)
		return nil
	}

	if ev.Generation != 0 && ev.Generation < s.session.generation {
		metrics.StaleSearches.Inc()
		slog.WarnContext(ctx, "applying stale search result",
			"query", ev.Query,
			"generation", ev.Generation,
			"latest", s.session.generation,
		)
	}

	pins := make([]pin, 0, len(places))
	var bounds *orb.Bound
	for i, p := range places {
		if p.Geometry == nil {
			metrics.SearchPlaces.WithLabelValues("skipped").Inc()
			slog.WarnContext(ctx, "returned place contains no geometry", "index", i, "name", p.Title())
			continue
		}
		loc := p.Geometry.Location
		if loc == nil {
			return fmt.Errorf("%w: place %q has geometry without location", domain.ErrInvalidLatLng, p.Title())
		}
		antipode, err := ComputeAntipode(*loc)
		if err != nil {
			return fmt.Errorf("place %q: %w", p.Title(), err)
		}
		pins = append(pins, pin{title: p.Title(), at: *loc, antipode: antipode})

		// Only geocodes carry a viewport.
		var b orb.Bound
		if p.Geometry.Viewport != nil {
			b = p.Geometry.Viewport.Bound()
		} else {
			b = loc.Point().Bound()
		}
		if bounds == nil {
			bounds = &b
		} else {
			u := bounds.Union(b)
			bounds = &u
		}
	}

	var mirrorTarget *domain.Viewport
	if g := places[0].Geometry; g != nil && g.Viewport != nil {
		v, err := ComputeViewportAntipode(g.Viewport)
		if err != nil {
			return fmt.Errorf("first place viewport: %w", err)
		}
		mirrorTarget = &v
	}

	s.clearMarkers()

	primary, mirror := s.session.surfaces[domain.Primary], s.session.surfaces[domain.Mirror]
	for _, p := range pins {
		s.session.markers[domain.Primary] = append(s.session.markers[domain.Primary], primary.AddMarker(p.at, p.title))
		s.session.markers[domain.Mirror] = append(s.session.markers[domain.Mirror], mirror.AddMarker(p.antipode, ""))
		metrics.SearchPlaces.WithLabelValues("placed").Inc()
	}

	// The primary fit is a user-visible move: it is not guarded, so a zoom
	// change it causes propagates to the mirror like any other zoom.
	if bounds != nil {
		primary.FitBounds(domain.ViewportFromBound(*bounds), ports.DefaultPadding)
	}
	if mirrorTarget != nil {
		s.fit(domain.Mirror, *mirrorTarget, ports.DefaultPadding)
	}

	rec := &domain.SearchRecord{
		Query:      ev.Query,
		Generation: ev.Generation,
		Markers:    len(pins),
		Skipped:    len(places) - len(pins),
		At:         s.now(),
	}
	if len(pins) > 0 {
		rec.Primary = &pins[0].at
		rec.Antipode = &pins[0].antipode
	}
	slog.InfoContext(ctx, "search applied", "query", ev.Query, "markers", rec.Markers, "skipped", rec.Skipped)

	if s.publisher != nil {
		_ = s.publisher.PublishSearch(ctx, rec)
	}
	return nil
}

func (s *SyncService) clearMarkers() {
	for id := range s.session.markers {
		for _, m := range s.session.markers[id] {
			m.Remove()
		}
		s.session.markers[id] = nil
	}
}
