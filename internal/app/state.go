package app

// State is the phase of a search.
type State int

const (
	StateIdle State = iota
	StateCollectingFiles
	StateGeneratingScript
	StateRunning
	StateParsingResults
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollectingFiles:
		return "collecting-files"
	case StateGeneratingScript:
		return "generating-script"
	case StateRunning:
		return "running"
	case StateParsingResults:
		return "parsing-results"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
