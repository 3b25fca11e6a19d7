package usecases

import (
	"fmt"

	"github.com/samirrijal/antipodes/internal/core/domain"
)

// ComputeAntipode returns the point diametrically opposite c.
func ComputeAntipode(c domain.Coordinate) (domain.Coordinate, error) {
	if err := c.Validate(); err != nil {
		return domain.Coordinate{}, err
	}

	lng := c.Lng - 180
	if c.Lng < 0 {
		lng = 180 + c.Lng
	}

	return domain.Coordinate{Lat: -c.Lat, Lng: lng}, nil
}

// ComputeViewportAntipode returns the rectangle opposite v.
//
// Negating latitude swaps north and south while the 180° shift keeps east
// and west in place, so the antipode of the NW corner becomes the SW corner
// of the result and the antipode of the SE corner becomes its NE corner:
//
//	  A +---------+ B            C +---------+ D  (NE)
//	    |  input  |      ->        | antipode|
//	  C +---------+ D       (SW) A +---------+ B
//
// Boxes spanning the antimeridian are not special-cased.
func ComputeViewportAntipode(v *domain.Viewport) (domain.Viewport, error) {
	if v == nil {
		return domain.Viewport{}, fmt.Errorf("%w: viewport is undefined", domain.ErrInvalidViewport)
	}

	sw, err := ComputeAntipode(v.NorthWest())
	if err != nil {
		return domain.Viewport{}, fmt.Errorf("north-west corner: %w", err)
	}
	ne, err := ComputeAntipode(v.SouthEast())
	if err != nil {
		return domain.Viewport{}, fmt.Errorf("south-east corner: %w", err)
	}

	return domain.NewViewport(sw, ne), nil
}
