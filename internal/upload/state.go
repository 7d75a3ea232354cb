package upload

import "fmt"

// ViewState is the visible state of the upload page
type ViewState int

const (
	StateIdle ViewState = iota
	StatePreviewing
	StateLoading
	StateShowingResult
	StateError
)

func (s ViewState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreviewing:
		return "previewing"
	case StateLoading:
		return "loading"
	case StateShowingResult:
		return "showingResult"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("ViewState(%d)", int(s))
	}
}

var transitions = map[ViewState][]ViewState{
	StateIdle:          {StateLoading},
	StatePreviewing:    {StateLoading},
	StateShowingResult: {StateLoading},
	StateError:         {StateLoading},
	StateLoading:       {StateLoading, StateShowingResult, StateError, StatePreviewing, StateIdle},
}

// CanTransition reports whether the view may move from one state to another
func CanTransition(from, to ViewState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
