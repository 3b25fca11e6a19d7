package domain

// EventKind enumerates the UI events the coordinator reacts to.
type EventKind int

const (
	EventPanned EventKind = iota
	EventZoomed
	EventSearchCompleted
)

func (k EventKind) String() string {
	switch k {
	case EventPanned:
		return "panned"
	case EventZoomed:
		return "zoomed"
	case EventSearchCompleted:
		return "search_completed"
	default:
		return "unknown"
	}
}

// Event is a single message on the UI event queue.
type Event struct {
	Kind   EventKind
	Source MapID

	// Set for EventSearchCompleted only.
	Query      string
	Places     []Place
	Generation uint64
}

// Panned builds a drag event originating on the given map.
func Panned(source MapID) Event { return Event{Kind: EventPanned, Source: source} }

// Zoomed builds a zoom-changed event originating on the given map.
func Zoomed(source MapID) Event { return Event{Kind: EventZoomed, Source: source} }

// SearchCompleted builds a search-result event for the search box on the primary map.
func SearchCompleted(query string, generation uint64, places []Place) Event {
	return Event{
		Kind:       EventSearchCompleted,
		Source:     Primary,
		Query:      query,
		Places:     places,
		Generation: generation,
	}
}
