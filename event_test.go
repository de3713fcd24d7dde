package weakevent

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayload(t *testing.T) {
	origin := &struct{ name string }{name: "origin"}
	before := time.Now()
	p := NewPayload(origin, "saved")

	assert.Same(t, origin, p.Origin())
	assert.Equal(t, "saved", p.Event())
	assert.Nil(t, p.Cause())
	assert.Empty(t, p.Chain())
	assert.Same(t, p, p.Root())
	assert.NotEqual(t, uuid.Nil, p.ID())
	assert.False(t, p.Timestamp().Before(before))
}

func TestPayloadIDsUnique(t *testing.T) {
	a := NewPayload(nil, "e")
	b := NewPayload(nil, "e")
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestPayloadChainRoundTrip(t *testing.T) {
	const depth = 5

	links := make([]*Payload, 0, depth)
	cur := NewPayload("root", "e0")
	links = append(links, cur)
	for i := 1; i <= depth; i++ {
		cur = Republish(i, "relayed", cur)
		links = append(links, cur)
	}

	chain := cur.Chain()
	require.Len(t, chain, depth)
	for i, c := range chain {
		assert.Same(t, links[depth-1-i], c)
	}
	assert.Same(t, links[0], cur.Root())
	assert.Equal(t, "root", cur.Root().Origin())
	assert.Equal(t, depth, cur.Origin())
}

func TestPayloadChainIsCopy(t *testing.T) {
	root := NewPayload(nil, "a")
	p := Republish(nil, "b", root)

	chain := p.Chain()
	chain[0] = nil

	assert.Same(t, root, p.Cause())
	assert.Same(t, root, p.Chain()[0])
}

func TestPayloadRepublishThroughSources(t *testing.T) {
	upstream := New([]string{"changed"})
	downstream := New([]string{"changed"})
	r := newRecorder("sink", nil)
	downstream.Attach("changed", Ref(r))

	relay := &relayTarget{label: "relay", to: downstream}
	upstream.Attach("changed", Ref(relay))

	original := NewPayload(upstream, "changed")
	upstream.Dispatch(0, original)

	require.NotNil(t, r.params)
	assert.Same(t, original, r.params.Cause())
	assert.Same(t, relay, r.params.Origin())
}

// relayTarget re-raises every notification on another source.
type relayTarget struct {
	label string
	to    *Source
}

func (r *relayTarget) Notify(_ EventSource, event string, p *Payload) error {
	r.to.DispatchName(event, Republish(r, event, p))
	return nil
}

func (r *relayTarget) Label() string { return r.label }
