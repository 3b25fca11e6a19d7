package domain

import "time"

// MapID identifies one of the two synchronized maps.
type MapID int

const (
	Primary MapID = iota
	Mirror
)

// Other returns the counterpart map.
func (id MapID) Other() MapID {
	if id == Primary {
		return Mirror
	}
	return Primary
}

func (id MapID) String() string {
	switch id {
	case Primary:
		return "primary"
	case Mirror:
		return "mirror"
	default:
		return "unknown"
	}
}

// MapView is the rendered state of a map.
type MapView struct {
	Center   Coordinate `json:"center"`
	Zoom     int        `json:"zoom"`
	Viewport *Viewport  `json:"viewport,omitempty"` // nil until the map has been sized
}

// Marker is a pin bound to exactly one map.
type Marker struct {
	ID       int        `json:"id"`
	Map      MapID      `json:"map"`
	Position Coordinate `json:"position"`
	Title    string     `json:"title,omitempty"`
}

// Place is a single place-search result.
type Place struct {
	Name        string         `json:"name"`
	DisplayName string         `json:"display_name,omitempty"`
	Geometry    *PlaceGeometry `json:"geometry,omitempty"`
}

// PlaceGeometry carries a point location and, for geocodes, a viewport.
type PlaceGeometry struct {
	Location *Coordinate `json:"location,omitempty"`
	Viewport *Viewport   `json:"viewport,omitempty"`
}

// Title returns the best label for a marker.
func (p Place) Title() string {
	if p.Name != "" {
		return p.Name
	}
	return p.DisplayName
}

// SyncRecord describes one applied synchronization, for observers.
type SyncRecord struct {
	Kind     string    `json:"kind"`
	Source   string    `json:"source"`
	Target   string    `json:"target"`
	Viewport Viewport  `json:"viewport"`
	At       time.Time `json:"at"`
}

// SearchRecord describes one applied search result batch.
type SearchRecord struct {
	Query      string      `json:"query"`
	Generation uint64      `json:"generation"`
	Markers    int         `json:"markers"`
	Skipped    int         `json:"skipped"`
	Primary    *Coordinate `json:"primary,omitempty"`
	Antipode   *Coordinate `json:"antipode,omitempty"`
	At         time.Time   `json:"at"`
}
