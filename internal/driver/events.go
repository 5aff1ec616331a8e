package driver

// Stage identifies the step a file is in.
type Stage uint8

const (
	StageNone Stage = iota
	StageLoad
	StageParse
	StageResolve
)

// Status reports the state of a stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event is a progress notification for one file. An empty File marks a
// run-wide stage change.
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "loading"
	case StageParse:
		return "parsing"
	case StageResolve:
		return "resolving"
	default:
		return ""
	}
}

func emit(ch chan<- Event, ev Event) {
	if ch != nil {
		ch <- ev
	}
}
