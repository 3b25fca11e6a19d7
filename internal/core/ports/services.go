package ports

import (
	"context"

	"github.com/samirrijal/antipodes/internal/core/domain"
)

// DefaultPadding asks a surface to use its own padding when fitting bounds.
const DefaultPadding = -1

// MapSurface is a rendered map provided by the map SDK.
type MapSurface interface {
	// SetView positions the map without raising any event.
	SetView(center domain.Coordinate, zoom int)
	// View returns the current centre, zoom and displayed viewport.
	View() domain.MapView
	// Bounds returns the displayed viewport, or nil before the map has been sized.
	Bounds() *domain.Viewport
	// FitBounds adjusts centre and zoom so the viewport is fully visible.
	// padding < 0 selects the surface default.
	FitBounds(viewport domain.Viewport, padding int)
	// AddMarker pins a marker on this map.
	AddMarker(position domain.Coordinate, title string) Marker
}

// Marker is a handle to a placed marker.
type Marker interface {
	Remove()
}

// PlaceSearcher resolves free-text queries into places.
type PlaceSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]domain.Place, error)
}

// EventPublisher fans out applied synchronizations to observers.
type EventPublisher interface {
	PublishSync(ctx context.Context, rec *domain.SyncRecord) error
	PublishSearch(ctx context.Context, rec *domain.SearchRecord) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
}

// TimezoneService maps a coordinate to an IANA timezone name.
type TimezoneService interface {
	GetTimezone(latitude, longitude float64) (string, error)
}
