package probe

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/zoobzio/weakevent"
)

// gcRounds bounds how many collections an OpGC step forces.
const gcRounds = 5

// Result records the outcome of one step.
type Result struct {
	Step Step

	// Report is set for raise steps that matched a catalog event.
	Report *weakevent.Report

	// Stats is set for stats steps.
	Stats *weakevent.Stats

	// Note is a short human-readable summary.
	Note string
}

// probeTarget is the Target created for each TargetSpec.
type probeTarget struct {
	name     string
	fail     string
	panics   bool
	received *[]string
}

func (t *probeTarget) Notify(_ weakevent.EventSource, event string, _ *weakevent.Payload) error {
	*t.received = append(*t.received, t.name+":"+event)
	if t.panics {
		panic(t.name + " panicked")
	}
	if t.fail != "" {
		return errors.New(t.fail)
	}
	return nil
}

func (t *probeTarget) Label() string { return t.name }

// Runner executes a Scenario against a fresh Source.
type Runner struct {
	src      *weakevent.Source
	targets  map[string]*probeTarget
	handles  map[string]weakevent.Handle
	received []string
}

// NewRunner builds the source and targets for sc. opts are passed to
// weakevent.New.
func NewRunner(sc Scenario, opts ...weakevent.Option) (*Runner, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{
		src:     weakevent.New(sc.Events, opts...),
		targets: make(map[string]*probeTarget, len(sc.Targets)),
		handles: make(map[string]weakevent.Handle, len(sc.Targets)),
	}
	for _, spec := range sc.Targets {
		t := &probeTarget{name: spec.Name, fail: spec.Fail, panics: spec.Panic, received: &r.received}
		r.targets[spec.Name] = t
		r.handles[spec.Name] = weakevent.Ref(t)
	}
	return r, nil
}

// Source returns the source under test.
func (r *Runner) Source() *weakevent.Source { return r.src }

// Received returns "target:event" entries in delivery order.
func (r *Runner) Received() []string {
	return append([]string(nil), r.received...)
}

// Run executes every step in order.
func (r *Runner) Run(steps []Step) []Result {
	results := make([]Result, 0, len(steps))
	for _, st := range steps {
		results = append(results, r.step(st))
	}
	return results
}

func (r *Runner) step(st Step) Result {
	res := Result{Step: st}
	switch st.Op {
	case OpAttach:
		r.src.Attach(st.Event, r.handles[st.Target])
		res.Note = fmt.Sprintf("attach %s to %s", st.Target, st.Event)
	case OpDetach:
		r.src.Detach(st.Event, r.handles[st.Target])
		res.Note = fmt.Sprintf("detach %s from %s", st.Target, st.Event)
	case OpDrop:
		delete(r.targets, st.Target)
		res.Note = fmt.Sprintf("dropped %s", st.Target)
	case OpGC:
		for range gcRounds {
			runtime.GC()
		}
		res.Note = "collected"
	case OpRaise:
		report, ok := r.src.DispatchName(st.Event, weakevent.NewPayload(r, st.Event))
		if !ok {
			res.Note = fmt.Sprintf("raise %s: no such event", st.Event)
			break
		}
		res.Report = &report
		res.Note = fmt.Sprintf("raise %s: delivered=%d pruned=%d failed=%d",
			report.Event, report.Delivered, report.Pruned, len(report.Failures))
	case OpStats:
		stats := r.src.Stats()
		res.Stats = &stats
		res.Note = fmt.Sprintf("stats: live=%v stored=%v", stats.Live, stats.Stored)
	}
	return res
}
