package pipeline

// Event reports progress to a UI while the build runs. One event is emitted
// per recognized cargo event, carrying a counter snapshot taken right after
// the update.
type Event struct {
	Counts Snapshot
	// Detail is a short human-facing description of what just happened
	// (a diagnostic summary or an artifact name). May be empty.
	Detail string
}

// ProgressSink consumes progress events.
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

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
