package cache

// Tag groups cached queries by resource type. Invalidating a tag invalidates
// every entry carrying it, whatever the query argument.
type Tag string

// State is the lifecycle position of one cached query.
type State int

const (
	Uncached State = iota
	Fresh
	Stale
	Fetching
)

func (s State) String() string {
	switch s {
	case Uncached:
		return "uncached"
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	case Fetching:
		return "fetching"
	default:
		return "unknown"
	}
}

// TagOptions opt a tag into extra refresh triggers.
type TagOptions struct {
	// RefetchOnReconnect marks the tag stale when the backend becomes reachable again.
	RefetchOnReconnect bool
	// RefetchOnMount marks an entry stale whenever a new consumer subscribes to it.
	RefetchOnMount bool
}
