package arena

import "github.com/wippyai/phpcore/value"

// EventType identifies a slot lifecycle event.
type EventType uint8

const (
	EventAllocated EventType = iota
	EventReplaced
	EventFreed
)

func (t EventType) String() string {
	switch t {
	case EventAllocated:
		return "allocated"
	case EventReplaced:
		return "replaced"
	case EventFreed:
		return "freed"
	}
	return "unknown"
}

// Event describes a change to one slot.
type Event struct {
	Value  value.Value
	Handle value.Handle
	Type   EventType
}

// Observer receives slot lifecycle events.
// Observers run synchronously on the goroutine that owns the arena.
type Observer interface {
	OnArenaEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnArenaEvent(e Event) { f(e) }

// Config configures a new Arena.
type Config struct {
	// Capacity pre-sizes the slot table. Zero uses the default.
	Capacity int
}
