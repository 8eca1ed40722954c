package eventbus

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a typed occurrence flowing through the bus.
// Events are immutable once emitted; producers build a fresh value
// for each emission.
type Event struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Type is the event type used as the dispatch key (e.g., "doc.saved").
	Type string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the module that produced the event.
	Source string

	// Metadata contains optional, open-ended event data.
	Metadata map[string]any
}

// NewEvent creates a new event with the given type and source.
// The metadata map is copied so later mutation by the caller does not
// leak into the emitted event.
func NewEvent(eventType, source string, metadata map[string]any) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    source,
		Metadata:  copyMetadata(metadata),
	}
}

// Clone returns a copy of the event with its own metadata map.
func (e *Event) Clone() *Event {
	clone := *e
	clone.Metadata = copyMetadata(e.Metadata)
	return &clone
}

// WithMeta returns a copy of the event with an additional metadata entry.
// The receiver is not modified.
func (e *Event) WithMeta(key string, value any) *Event {
	clone := e.Clone()
	if clone.Metadata == nil {
		clone.Metadata = make(map[string]any, 1)
	}
	clone.Metadata[key] = value
	return clone
}

// Meta returns the metadata value for key and whether it was present.
func (e *Event) Meta(key string) (any, bool) {
	v, ok := e.Metadata[key]
	return v, ok
}

// Validate performs the structural check every event must pass:
// a non-empty type, a non-zero timestamp, and a non-empty source.
// It returns a list of human-readable problems, empty when valid.
func (e *Event) Validate() []string {
	var problems []string
	if e.Type == "" {
		problems = append(problems, "event type is required")
	}
	if e.Timestamp.IsZero() {
		problems = append(problems, "event timestamp is required")
	}
	if e.Source == "" {
		problems = append(problems, "event source is required")
	}
	return problems
}

func copyMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
