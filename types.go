// Package weakevent provides named, in-process events whose listeners are held
// through weak references.
//
// A Source owns a fixed catalog of event names. Targets register for an event
// by name through a Handle, and the Source never keeps a registered target
// alive: once the rest of the program drops its last reference, the garbage
// collector may reclaim the target and the Source prunes the stale handle the
// next time it walks that event's listeners.
//
// Concrete sources embed *Source and raise events with Dispatch:
//
//	type Door struct {
//	    *weakevent.Source
//	}
//
//	func NewDoor() *Door {
//	    return &Door{Source: weakevent.New([]string{"opened", "closed"})}
//	}
//
//	func (d *Door) Open() {
//	    d.Dispatch(0, weakevent.NewPayload(d, "opened"))
//	}
//
//	door.Attach("Opened", weakevent.Ref(alarm))
//
// A failing listener (returned error or panic) never stops delivery to the
// remaining listeners and never reaches the code that raised the event.
package weakevent

// Target receives notifications from a Source.
// Implementations must be pointer types so they can be referenced weakly.
type Target interface {
	// Notify is called synchronously when an event the target listens for
	// is raised. A returned error is logged and otherwise ignored.
	Notify(src EventSource, event string, p *Payload) error

	// Label identifies the target in diagnostics only. It plays no part in
	// deduplication.
	Label() string
}

// EventSource is the capability shared by every source: listing its events
// and managing listeners for them.
type EventSource interface {
	Events() []string
	Attach(event string, h Handle)
	Detach(event string, h Handle)
}

// Level is the severity passed to a Sink. Lower is more severe.
type Level int

const (
	LevelError   Level = 1
	LevelWarn    Level = 2
	LevelNotice  Level = 3
	LevelInfo    Level = 4
	LevelVerbose Level = 5
)

// String returns the severity name.
func (l Level) String() string {
	switch {
	case l <= LevelError:
		return "ERROR"
	case l == LevelWarn:
		return "WARN"
	case l == LevelNotice:
		return "NOTICE"
	case l == LevelInfo:
		return "INFO"
	default:
		return "VERBOSE"
	}
}

// Sink receives pre-formatted diagnostic messages. It is advisory only and
// must not block. A panic in the sink is recovered and discarded.
type Sink func(level Level, msg string)

// Stats provides a point-in-time view of a Source's registry.
type Stats struct {
	// ID is the identity allocated to the source.
	ID uint64

	// Live maps each event name to the number of handles whose target is
	// still reachable.
	Live map[string]int

	// Stored maps each event name to the number of handles held, including
	// dead ones not yet pruned.
	Stored map[string]int
}
