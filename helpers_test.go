package weakevent

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// recorder is a Target that logs its label on every notification.
type recorder struct {
	label     string
	log       *[]string
	fail      error
	panicWith any

	mu     sync.Mutex
	calls  int
	src    EventSource
	event  string
	params *Payload
}

func newRecorder(label string, log *[]string) *recorder {
	return &recorder{label: label, log: log}
}

func (r *recorder) Notify(src EventSource, event string, p *Payload) error {
	r.mu.Lock()
	r.calls++
	r.src, r.event, r.params = src, event, p
	if r.log != nil {
		*r.log = append(*r.log, r.label)
	}
	r.mu.Unlock()

	if r.panicWith != nil {
		panic(r.panicWith)
	}
	return r.fail
}

func (r *recorder) Label() string { return r.label }

func (r *recorder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// capturedSink collects sink output.
type capturedSink struct {
	mu      sync.Mutex
	levels  []Level
	entries []string
}

func (c *capturedSink) sink(level Level, msg string) {
	c.mu.Lock()
	c.levels = append(c.levels, level)
	c.entries = append(c.entries, msg)
	c.mu.Unlock()
}

func (c *capturedSink) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *capturedSink) Last() (Level, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) == 0 {
		return 0, ""
	}
	return c.levels[len(c.levels)-1], c.entries[len(c.entries)-1]
}

// captureObserver collects transitions.
type captureObserver struct {
	mu          sync.Mutex
	transitions []Transition
}

func (c *captureObserver) OnTransition(t Transition) {
	c.mu.Lock()
	c.transitions = append(c.transitions, t)
	c.mu.Unlock()
}

func (c *captureObserver) Kinds() []TransitionKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	kinds := make([]TransitionKind, 0, len(c.transitions))
	for _, t := range c.transitions {
		kinds = append(kinds, t.Kind)
	}
	return kinds
}

// attachTransient attaches a target that nothing else references and
// returns its handle.
func attachTransient(src *Source, event, label string) Handle {
	r := newRecorder(label, nil)
	h := Ref(r)
	src.Attach(event, h)
	runtime.KeepAlive(r)
	return h
}

// reclaim runs the collector until the target behind h is gone.
func reclaim(t *testing.T, h Handle) {
	t.Helper()
	for i := 0; i < 20 && h.Target() != nil; i++ {
		runtime.GC()
	}
	require.Nil(t, h.Target(), "target was not reclaimed")
}
