// Package metrics exports weakevent transitions as Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/zoobzio/weakevent"
)

// Collector is a weakevent.Observer that counts transitions. Register it
// with a prometheus.Registerer to expose the counters.
type Collector struct {
	attach     *prometheus.CounterVec
	detach     *prometheus.CounterVec
	detached   prometheus.Counter
	pruned     prometheus.Counter
	dispatch   *prometheus.CounterVec
	deliveries *prometheus.CounterVec
	failures   *prometheus.CounterVec
}

// New creates a Collector whose metrics live under namespace.
func New(namespace string) *Collector {
	return &Collector{
		attach: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "weakevent",
				Name:      "attach_total",
				Help:      "Attach attempts by outcome (added, ignored, failed)",
			},
			[]string{"outcome"},
		),
		detach: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "weakevent",
				Name:      "detach_total",
				Help:      "Detach attempts by outcome (removed, failed)",
			},
			[]string{"outcome"},
		),
		detached: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "weakevent",
			Name:      "detached_handles_total",
			Help:      "Listener handles removed by detach",
		}),
		pruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "weakevent",
			Name:      "pruned_handles_total",
			Help:      "Dead listener handles pruned",
		}),
		dispatch: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "weakevent",
				Name:      "dispatch_total",
				Help:      "Dispatch calls by event",
			},
			[]string{"event"},
		),
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "weakevent",
				Name:      "deliveries_total",
				Help:      "Listener notifications attempted by event",
			},
			[]string{"event"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "weakevent",
				Name:      "notify_failures_total",
				Help:      "Listener notifications that returned an error or panicked, by event",
			},
			[]string{"event"},
		),
	}
}

// OnTransition updates the counters for t.
func (c *Collector) OnTransition(t weakevent.Transition) {
	switch t.Kind {
	case weakevent.TransitionAttached:
		c.attach.WithLabelValues("added").Inc()
	case weakevent.TransitionAttachIgnored:
		c.attach.WithLabelValues("ignored").Inc()
	case weakevent.TransitionAttachFailed:
		c.attach.WithLabelValues("failed").Inc()
	case weakevent.TransitionDetached:
		c.detach.WithLabelValues("removed").Inc()
		c.detached.Add(float64(t.Count))
	case weakevent.TransitionDetachFailed:
		c.detach.WithLabelValues("failed").Inc()
	case weakevent.TransitionPruned:
		c.pruned.Add(float64(t.Count))
	case weakevent.TransitionDispatched:
		c.dispatch.WithLabelValues(t.Event).Inc()
		c.deliveries.WithLabelValues(t.Event).Add(float64(t.Count))
	case weakevent.TransitionNotifyFailed:
		c.failures.WithLabelValues(t.Event).Inc()
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.collectors() {
		m.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.collectors() {
		m.Collect(ch)
	}
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{c.attach, c.detach, c.detached, c.pruned, c.dispatch, c.deliveries, c.failures}
}
