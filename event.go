package weakevent

import (
	"time"

	"github.com/google/uuid"
)

// Payload describes one event occurrence. It is immutable once created.
type Payload struct {
	id        uuid.UUID
	origin    any
	event     string
	cause     *Payload
	timestamp time.Time
}

// NewPayload creates a Payload raised by origin for the named event.
func NewPayload(origin any, event string) *Payload {
	return newPayload(origin, event, nil)
}

// Republish creates a Payload for an event raised in response to cause.
// The resulting chain links back through every earlier cause.
func Republish(origin any, event string, cause *Payload) *Payload {
	return newPayload(origin, event, cause)
}

func newPayload(origin any, event string, cause *Payload) *Payload {
	return &Payload{
		id:        uuid.New(),
		origin:    origin,
		event:     event,
		cause:     cause,
		timestamp: time.Now(),
	}
}

// ID returns the correlation identifier assigned at creation.
func (p *Payload) ID() uuid.UUID { return p.id }

// Origin returns the object that originally raised the event. This may
// differ from the Source delivering it.
func (p *Payload) Origin() any { return p.origin }

// Event returns the event name.
func (p *Payload) Event() string { return p.event }

// Cause returns the payload that triggered this one, or nil.
func (p *Payload) Cause() *Payload { return p.cause }

// Timestamp records when the payload was created.
func (p *Payload) Timestamp() time.Time { return p.timestamp }

// Chain returns the causes of p, nearest first. p itself is not included.
// Returns a fresh slice; modifying it does not affect the chain.
func (p *Payload) Chain() []*Payload {
	var chain []*Payload
	for c := p.cause; c != nil; c = c.cause {
		chain = append(chain, c)
	}
	return chain
}

// Root returns the earliest payload in the chain, p itself when it has no
// cause.
func (p *Payload) Root() *Payload {
	r := p
	for r.cause != nil {
		r = r.cause
	}
	return r
}
