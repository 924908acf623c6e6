// Package playback drives word-by-word presentation of a loaded text.
package playback

// State is the playback state of an Engine.
type State int

const (
	Idle State = iota
	Active
	Completed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "reading"
	case Completed:
		return "finished"
	default:
		return "unknown"
	}
}

// CanStart reports whether Start would begin a new run from this state.
func (s State) CanStart() bool {
	return s != Active
}
