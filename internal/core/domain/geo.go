package domain

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Coordinate is a WGS 84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate reports whether the coordinate lies inside the WGS 84 ranges.
// NaN is outside every range.
func (c Coordinate) Validate() error {
	if !(c.Lat >= -90 && c.Lat <= 90) {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, c.Lat)
	}
	if !(c.Lng >= -180 && c.Lng <= 180) {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, c.Lng)
	}
	return nil
}

// Point returns the coordinate as an orb point (lng, lat).
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// Viewport is an axis-aligned lat/lng rectangle. East and West are taken as
// given; a box spanning the antimeridian (West > East) is not normalized.
type Viewport struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// NewViewport builds a viewport from its south-west and north-east corners.
func NewViewport(sw, ne Coordinate) Viewport {
	return Viewport{
		North: ne.Lat,
		South: sw.Lat,
		East:  ne.Lng,
		West:  sw.Lng,
	}
}

// ViewportFromBound converts a planar orb bound into a viewport.
func ViewportFromBound(b orb.Bound) Viewport {
	return Viewport{
		North: b.Top(),
		South: b.Bottom(),
		East:  b.Right(),
		West:  b.Left(),
	}
}

func (v Viewport) NorthEast() Coordinate { return Coordinate{Lat: v.North, Lng: v.East} }
func (v Viewport) SouthWest() Coordinate { return Coordinate{Lat: v.South, Lng: v.West} }
func (v Viewport) NorthWest() Coordinate { return Coordinate{Lat: v.North, Lng: v.West} }
func (v Viewport) SouthEast() Coordinate { return Coordinate{Lat: v.South, Lng: v.East} }

// Bound returns the viewport as an orb bound.
func (v Viewport) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{v.West, v.South},
		Max: orb.Point{v.East, v.North},
	}
}

// CrossesAntimeridian reports whether the box wraps past ±180°.
func (v Viewport) CrossesAntimeridian() bool {
	return v.West > v.East
}

func (v Viewport) String() string {
	return fmt.Sprintf("N%.4f S%.4f E%.4f W%.4f", v.North, v.South, v.East, v.West)
}
