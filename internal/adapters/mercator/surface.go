package mercator

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/samirrijal/antipodes/internal/core/domain"
	"github.com/samirrijal/antipodes/internal/core/ports"
)

const (
	TileSize       = 256
	MinZoom        = 0
	MaxZoom        = 20
	DefaultPadding = 16

	// maxLat is the latitude at which the Web Mercator world becomes square.
	maxLat = 85.05112877980659

	// fitEpsilon absorbs rounding when a viewport of exactly the surface
	// size is fitted back onto a surface of the same size.
	fitEpsilon = 1e-6
)

var worldMeters = 2 * math.Pi * orb.EarthRadius

// Surface is an in-process Web Mercator map of a fixed pixel size. It plays
// the part of the SDK map widget: it reports its viewport, fits bounds,
// holds markers and raises drag and zoom_changed events.
type Surface struct {
	id      domain.MapID
	width   int
	height  int
	padding int

	center domain.Coordinate
	zoom   int
	placed bool

	markers map[int]domain.Marker
	nextID  int

	// OnDrag is raised after a user pan. OnZoomChanged is raised whenever
	// the zoom level changes, including during FitBounds.
	OnDrag        func(domain.MapID)
	OnZoomChanged func(domain.MapID)
}

// New creates a surface of width x height pixels.
func New(id domain.MapID, width, height int) *Surface {
	return &Surface{
		id:      id,
		width:   width,
		height:  height,
		padding: DefaultPadding,
		markers: make(map[int]domain.Marker),
	}
}

func (s *Surface) ID() domain.MapID { return s.id }

// Size returns the surface dimensions in pixels.
func (s *Surface) Size() (int, int) { return s.width, s.height }

// SetView positions the map without raising events.
func (s *Surface) SetView(center domain.Coordinate, zoom int) {
	s.center = center
	s.zoom = clampZoom(zoom)
	s.placed = true
}

// View returns centre, zoom and the displayed viewport.
func (s *Surface) View() domain.MapView {
	return domain.MapView{Center: s.center, Zoom: s.zoom, Viewport: s.Bounds()}
}

// Bounds returns the displayed viewport, or nil until the map has a view
// and a non-empty size.
func (s *Surface) Bounds() *domain.Viewport {
	if !s.placed || s.width <= 0 || s.height <= 0 {
		return nil
	}

	res := metersPerPixel(s.zoom)
	c := toMercator(s.center)
	halfW := float64(s.width) / 2 * res
	halfH := float64(s.height) / 2 * res

	sw := project.Mercator.ToWGS84(orb.Point{c[0] - halfW, clampY(c[1] - halfH)})
	ne := project.Mercator.ToWGS84(orb.Point{c[0] + halfW, clampY(c[1] + halfH)})

	v := domain.Viewport{
		North: ne[1],
		South: sw[1],
		East:  wrapLng(ne[0]),
		West:  wrapLng(sw[0]),
	}
	if 2*halfW >= worldMeters {
		v.West, v.East = -180, 180
	}
	return &v
}

// FitBounds centres the viewport and picks the largest integer zoom at which
// it fits inside the surface less padding. padding < 0 selects the default.
func (s *Surface) FitBounds(v domain.Viewport, padding int) {
	if padding < 0 {
		padding = s.padding
	}

	sw := project.WGS84.ToMercator(orb.Point{v.West, clampLat(v.South)})
	ne := project.WGS84.ToMercator(orb.Point{v.East, clampLat(v.North)})

	dx := ne[0] - sw[0]
	if dx < 0 {
		dx += worldMeters
	}
	dy := math.Abs(ne[1] - sw[1])

	availW := math.Max(float64(s.width-2*padding), 1)
	availH := math.Max(float64(s.height-2*padding), 1)

	zoom := MinZoom
	for z := MaxZoom; z > MinZoom; z-- {
		res := metersPerPixel(z)
		if dx/res <= availW+fitEpsilon && dy/res <= availH+fitEpsilon {
			zoom = z
			break
		}
	}

	c := project.Mercator.ToWGS84(orb.Point{sw[0] + dx/2, math.Min(sw[1], ne[1]) + dy/2})
	s.center = domain.Coordinate{Lat: c[1], Lng: wrapLng(c[0])}
	s.placed = true
	s.setZoom(zoom)
}

// Pan moves the view by dx, dy pixels (east and south positive) and raises
// a drag event.
func (s *Surface) Pan(dx, dy int) {
	if !s.placed {
		return
	}
	res := metersPerPixel(s.zoom)
	c := toMercator(s.center)
	c[0] += float64(dx) * res
	c[1] = clampY(c[1] - float64(dy)*res)

	p := project.Mercator.ToWGS84(c)
	s.center = domain.Coordinate{Lat: p[1], Lng: wrapLng(p[0])}

	if s.OnDrag != nil {
		s.OnDrag(s.id)
	}
}

// ZoomBy changes the zoom level by delta, clamped to the supported range.
func (s *Surface) ZoomBy(delta int) {
	s.setZoom(clampZoom(s.zoom + delta))
}

func (s *Surface) setZoom(z int) {
	if z == s.zoom {
		return
	}
	s.zoom = z
	if s.OnZoomChanged != nil {
		s.OnZoomChanged(s.id)
	}
}

// AddMarker pins a marker on this surface.
func (s *Surface) AddMarker(position domain.Coordinate, title string) ports.Marker {
	s.nextID++
	s.markers[s.nextID] = domain.Marker{ID: s.nextID, Map: s.id, Position: position, Title: title}
	return &marker{surface: s, id: s.nextID}
}

// Markers returns the live markers ordered by creation.
func (s *Surface) Markers() []domain.Marker {
	out := make([]domain.Marker, 0, len(s.markers))
	for _, m := range s.markers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Project returns the pixel position of c relative to the top-left corner.
// ok is false when c is outside the surface.
func (s *Surface) Project(c domain.Coordinate) (x, y float64, ok bool) {
	res := metersPerPixel(s.zoom)
	p := toMercator(c)
	ctr := toMercator(s.center)

	dx := p[0] - ctr[0]
	if dx > worldMeters/2 {
		dx -= worldMeters
	} else if dx < -worldMeters/2 {
		dx += worldMeters
	}

	x = float64(s.width)/2 + dx/res
	y = float64(s.height)/2 - (p[1]-ctr[1])/res
	ok = x >= 0 && x < float64(s.width) && y >= 0 && y < float64(s.height)
	return x, y, ok
}

// CoordinateAt returns the coordinate under the pixel x, y.
func (s *Surface) CoordinateAt(x, y float64) domain.Coordinate {
	res := metersPerPixel(s.zoom)
	ctr := toMercator(s.center)
	p := project.Mercator.ToWGS84(orb.Point{
		ctr[0] + (x-float64(s.width)/2)*res,
		clampY(ctr[1] - (y-float64(s.height)/2)*res),
	})
	return domain.Coordinate{Lat: p[1], Lng: wrapLng(p[0])}
}

type marker struct {
	surface *Surface
	id      int
}

func (m *marker) Remove() { delete(m.surface.markers, m.id) }

func metersPerPixel(zoom int) float64 {
	return worldMeters / (TileSize * math.Exp2(float64(zoom)))
}

func toMercator(c domain.Coordinate) orb.Point {
	return project.WGS84.ToMercator(orb.Point{c.Lng, clampLat(c.Lat)})
}

func clampLat(lat float64) float64 {
	return math.Max(-maxLat, math.Min(maxLat, lat))
}

func clampY(y float64) float64 {
	return math.Max(-worldMeters/2, math.Min(worldMeters/2, y))
}

func clampZoom(z int) int {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

func wrapLng(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}
