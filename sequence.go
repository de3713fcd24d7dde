package weakevent

import "sync/atomic"

// Sequence allocates source identities. The zero value is ready to use and
// its first identity is 1.
type Sequence struct {
	n atomic.Uint64
}

// defaultSequence backs sources created without WithSequence.
var defaultSequence Sequence

// Next returns an identity strictly greater than every identity previously
// returned by s. Safe for concurrent use.
func (s *Sequence) Next() uint64 {
	return s.n.Add(1)
}
