package driver

import "time"

// Stage describes a pipeline phase of one unit.
type Stage string

const (
	StagePreprocess Stage = "preprocess"
	StageTokenize   Stage = "tokenize"
	StageParse      Stage = "parse"
	StageSema       Stage = "sema"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
	// StatusCached means the outcome was replayed from the disk cache.
	StatusCached Status = "cached"
)

// Event reports progress for a unit.
type Event struct {
	Unit    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use when passed to CheckUnits.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
