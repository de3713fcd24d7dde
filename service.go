package weakevent

import "strings"

// Source raises named events to weakly referenced targets.
// Concrete sources embed *Source and call Dispatch when an event occurs.
type Source struct {
	events    []string
	listeners []*listeners
	id        uint64
	seq       *Sequence
	sink      Sink
	observer  Observer
	self      EventSource
}

// New creates a Source supporting the given events, in order. The slice is
// copied. Event names are matched case-insensitively; if a name is repeated
// only the first occurrence is ever reached.
func New(events []string, opts ...Option) *Source {
	s := &Source{
		events:    append([]string(nil), events...),
		listeners: make([]*listeners, len(events)),
		seq:       &defaultSequence,
	}
	for i := range s.listeners {
		s.listeners[i] = &listeners{}
	}
	for _, opt := range opts {
		opt(s)
	}
	s.id = s.seq.Next()
	s.self = s
	return s
}

// Bind sets the EventSource passed to targets as the notifying source.
// Embedding types call it with themselves so listeners see the concrete
// source rather than the embedded *Source.
func (s *Source) Bind(self EventSource) {
	if self != nil {
		s.self = self
	}
}

// ID returns the identity allocated to the source.
func (s *Source) ID() uint64 { return s.id }

// Events returns a copy of the event catalog.
func (s *Source) Events() []string {
	return append([]string(nil), s.events...)
}

// Index returns the catalog index of the first event matching name
// case-insensitively.
func (s *Source) Index(name string) (int, bool) {
	for i, e := range s.events {
		if strings.EqualFold(name, e) {
			return i, true
		}
	}
	return -1, false
}

// Attach registers the target behind h for the named event. A nil handle is
// ignored. Attaching a target that is already listening has no effect.
func (s *Source) Attach(event string, h Handle) {
	if h == nil {
		return
	}
	target := h.Target()
	if target == nil {
		return
	}

	i, ok := s.Index(event)
	if !ok {
		s.report(Transition{Kind: TransitionAttachFailed, Event: event, Target: target.Label()})
		return
	}

	l := s.listeners[i]
	l.mu.Lock()
	found, pruned := l.find(target)
	if found < 0 {
		l.handles = append(l.handles, h)
	}
	l.mu.Unlock()

	s.reportPruned(s.events[i], pruned)
	if found >= 0 {
		s.report(Transition{Kind: TransitionAttachIgnored, Event: event, Target: target.Label()})
		return
	}
	s.report(Transition{Kind: TransitionAttached, Event: event, Target: target.Label()})
}

// Detach removes the target behind h from the named event. Every live
// handle for the target is removed, though normally there is only one.
func (s *Source) Detach(event string, h Handle) {
	if h == nil {
		return
	}
	// The target must stay reachable for the label; a reclaimed target has
	// no live handles left to remove anyway.
	target := h.Target()
	if target == nil {
		return
	}
	label := target.Label()

	removed := 0
	i, ok := s.Index(event)
	if ok {
		l := s.listeners[i]
		pruned := 0
		l.mu.Lock()
		for len(l.handles) > 0 {
			found, p := l.find(target)
			pruned += p
			if found < 0 {
				break
			}
			l.remove(found)
			removed++
		}
		l.mu.Unlock()
		s.reportPruned(s.events[i], pruned)
	}

	if removed == 0 {
		s.report(Transition{Kind: TransitionDetachFailed, Event: event, Target: label})
		return
	}
	s.report(Transition{Kind: TransitionDetached, Event: event, Target: label, Count: removed})
}

// Stats returns the live and stored listener counts for every event.
func (s *Source) Stats() Stats {
	stats := Stats{
		ID:     s.id,
		Live:   make(map[string]int, len(s.events)),
		Stored: make(map[string]int, len(s.events)),
	}
	for i, e := range s.events {
		if _, seen := stats.Stored[e]; seen {
			continue
		}
		l := s.listeners[i]
		l.mu.Lock()
		stats.Live[e], stats.Stored[e] = l.counts()
		l.mu.Unlock()
	}
	return stats
}

// report passes t to the sink and observer. Both are advisory: a panic in
// either is discarded so it cannot interrupt attach, detach or delivery.
func (s *Source) report(t Transition) {
	t.SourceID = s.id
	if s.sink != nil {
		func() {
			defer func() {
				_ = recover()
			}()
			s.sink(t.Level(), t.Message())
		}()
	}
	s.observe(t)
}

// reportPruned notifies the observer only; pruning is routine and never
// reaches the sink.
func (s *Source) reportPruned(event string, n int) {
	if n == 0 {
		return
	}
	s.observe(Transition{Kind: TransitionPruned, SourceID: s.id, Event: event, Count: n})
}

func (s *Source) observe(t Transition) {
	if s.observer == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	s.observer.OnTransition(t)
}
