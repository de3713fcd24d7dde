package weakevent

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Failure records one listener that failed to handle a notification.
type Failure struct {
	// Target is the label of the failing target.
	Target string

	// Category is the dynamic type of the returned error, or "panic".
	Category string

	// Message is the error text or the formatted panic value.
	Message string

	// Stack is the goroutine stack captured when a panic was recovered.
	// Empty for returned errors.
	Stack string

	// Err is the returned error, or the panic value when it was an error.
	Err error
}

// Trace returns Stack flattened onto one line.
func (f Failure) Trace() string {
	if f.Stack == "" {
		return "-- stack trace not available --"
	}
	return strings.Join(strings.Fields(strings.NewReplacer("\r", "", "\n", " ").Replace(f.Stack)), " ")
}

// Report summarizes one Dispatch call.
type Report struct {
	// Event is the catalog name of the dispatched event.
	Event string

	// Delivered counts targets whose Notify was invoked, failed or not.
	Delivered int

	// Pruned counts dead handles removed during the dispatch.
	Pruned int

	// Failures lists targets whose Notify returned an error or panicked,
	// in delivery order.
	Failures []Failure
}

// OK reports whether every delivery succeeded.
func (r Report) OK() bool { return len(r.Failures) == 0 }

// Dispatch delivers p to every live listener of the event at index, newest
// registration first. It is meant to be called by the concrete source when
// the event occurs; index must be a valid catalog index.
//
// Listeners are snapshotted before delivery, so a listener may attach,
// detach or dispatch on the same source from inside Notify. A listener that
// returns an error or panics is recorded in the Report and delivery moves on.
func (s *Source) Dispatch(index int, p *Payload) Report {
	event := s.events[index]
	l := s.listeners[index]

	l.mu.Lock()
	targets, pruned := l.snapshot()
	l.mu.Unlock()

	report := Report{Event: event, Pruned: pruned}
	s.reportPruned(event, pruned)

	for _, t := range targets {
		report.Delivered++
		if f := s.notify(t, event, p); f != nil {
			report.Failures = append(report.Failures, *f)
			s.report(Transition{Kind: TransitionNotifyFailed, Event: event, Target: f.Target, Failure: f})
		}
	}

	s.observe(Transition{Kind: TransitionDispatched, SourceID: s.id, Event: event, Count: report.Delivered})
	return report
}

// DispatchName resolves name case-insensitively and dispatches it. It
// returns false when the catalog has no such event.
func (s *Source) DispatchName(name string, p *Payload) (Report, bool) {
	i, ok := s.Index(name)
	if !ok {
		return Report{}, false
	}
	return s.Dispatch(i, p), true
}

// notify invokes one target with panic recovery.
func (s *Source) notify(t Target, event string, p *Payload) (failure *Failure) {
	defer func() {
		if r := recover(); r != nil {
			failure = &Failure{
				Target:   safeLabel(t),
				Category: "panic",
				Message:  fmt.Sprint(r),
				Stack:    string(debug.Stack()),
			}
			if err, ok := r.(error); ok {
				failure.Err = err
			}
		}
	}()

	if err := t.Notify(s.self, event, p); err != nil {
		return &Failure{
			Target:   t.Label(),
			Category: fmt.Sprintf("%T", err),
			Message:  err.Error(),
			Err:      err,
		}
	}
	return nil
}

// safeLabel returns t.Label(), or a placeholder if Label itself panics.
func safeLabel(t Target) (label string) {
	defer func() {
		if recover() != nil {
			label = fmt.Sprintf("%T", t)
		}
	}()
	return t.Label()
}
