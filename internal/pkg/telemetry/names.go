package telemetry

// Span names.
const (
	SpanDispatch = "sync.dispatch"
	SpanSearch   = "search.places"
	SpanStartup  = "session.start"
)

// Span attribute keys.
const (
	AttrEventKind   = "event.kind"
	AttrEventSource = "event.source"
	AttrQuery       = "search.query"
	AttrGeneration  = "search.generation"
	AttrPlaces      = "search.places"
)
