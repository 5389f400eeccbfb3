package glass

// Scene event types emitted by the simulation.
const (
	EventWindChanged       = "wind_changed"
	EventRevealShown       = "reveal_shown"
	EventPopupPresented    = "popup_presented"
	EventSceneReset        = "scene_reset"
	EventSequenceStarted   = "sequence_started"
	EventSequenceFinished  = "sequence_finished"
	EventSequenceCancelled = "sequence_cancelled"
)

// Event is a notable change in scene state.
type Event struct {
	Type       string                 `json:"type"`
	Generation uint64                 `json:"generation"`
	ClockMs    float64                `json:"clock_ms"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// EventSink receives scene events on the simulation goroutine. Implementations
// must not block.
type EventSink interface {
	Publish(e Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(e Event)

func (f EventSinkFunc) Publish(e Event) { f(e) }

type nopSink struct{}

func (nopSink) Publish(Event) {}
