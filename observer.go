package weakevent

import "fmt"

// TransitionKind identifies a registry or dispatch transition.
type TransitionKind string

const (
	TransitionAttached      TransitionKind = "attached"
	TransitionAttachIgnored TransitionKind = "attach_ignored"
	TransitionAttachFailed  TransitionKind = "attach_failed"
	TransitionDetached      TransitionKind = "detached"
	TransitionDetachFailed  TransitionKind = "detach_failed"
	TransitionNotifyFailed  TransitionKind = "notify_failed"
	TransitionPruned        TransitionKind = "pruned"
	TransitionDispatched    TransitionKind = "dispatched"
)

// Transition describes one significant change observed by a Source.
type Transition struct {
	Kind TransitionKind

	// SourceID is the identity of the source that reported the transition.
	SourceID uint64

	// Event is the event name as given by the caller (attach/detach) or as
	// stored in the catalog (dispatch).
	Event string

	// Target is the label of the target involved, if any.
	Target string

	// Count carries the number of handles removed (detached, pruned) or the
	// number of deliveries (dispatched).
	Count int

	// Failure is set for TransitionNotifyFailed.
	Failure *Failure
}

// Level returns the sink severity for the transition.
func (t Transition) Level() Level {
	switch t.Kind {
	case TransitionNotifyFailed:
		return LevelError
	case TransitionAttachFailed, TransitionDetachFailed:
		return LevelWarn
	case TransitionAttachIgnored, TransitionDetached:
		return LevelInfo
	default:
		return LevelVerbose
	}
}

// Message formats the transition for a Sink.
func (t Transition) Message() string {
	switch t.Kind {
	case TransitionAttached:
		return fmt.Sprintf("source %d: attach listener for event %s... OK [target added]; target = %s", t.SourceID, t.Event, t.Target)
	case TransitionAttachIgnored:
		return fmt.Sprintf("source %d: attach listener for event %s... IGNORED [target already listening]; target = %s", t.SourceID, t.Event, t.Target)
	case TransitionAttachFailed:
		return fmt.Sprintf("source %d: attach listener for event %s... FAILED [no such event]; target = %s", t.SourceID, t.Event, t.Target)
	case TransitionDetached:
		return fmt.Sprintf("source %d: detach listener for event %s... OK [target removed %d time(s)]; target = %s", t.SourceID, t.Event, t.Count, t.Target)
	case TransitionDetachFailed:
		return fmt.Sprintf("source %d: detach listener for event %s... FAILED [target did not exist or no such event]; target = %s", t.SourceID, t.Event, t.Target)
	case TransitionNotifyFailed:
		f := t.Failure
		if f == nil {
			f = &Failure{}
		}
		return fmt.Sprintf("source %d: error notifying target %s of event %s (%s) %s; stack: %s", t.SourceID, t.Target, t.Event, f.Category, f.Message, f.Trace())
	case TransitionPruned:
		return fmt.Sprintf("source %d: pruned %d dead listener(s) for event %s", t.SourceID, t.Count, t.Event)
	default:
		return fmt.Sprintf("source %d: dispatched event %s to %d listener(s)", t.SourceID, t.Event, t.Count)
	}
}

// Observer receives every transition as a structured record.
// OnTransition runs synchronously inside attach, detach and dispatch and
// must not block. A panic in OnTransition is recovered and discarded.
type Observer interface {
	OnTransition(Transition)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Transition)

// OnTransition calls f(t).
func (f ObserverFunc) OnTransition(t Transition) { f(t) }

// MultiObserver fans out transitions to multiple observers.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver creates a MultiObserver that forwards transitions to all
// non-nil observers.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}
	return &MultiObserver{observers: filtered}
}

func (m *MultiObserver) OnTransition(t Transition) {
	for _, obs := range m.observers {
		obs.OnTransition(t)
	}
}
