package weakevent

// Option configures a Source.
type Option func(*Source)

// WithSink sets the diagnostic sink. A nil sink disables diagnostic output.
func WithSink(sink Sink) Option {
	return func(s *Source) {
		s.sink = sink
	}
}

// WithObserver sets a structured transition observer.
// Use NewMultiObserver to install more than one.
func WithObserver(obs Observer) Option {
	return func(s *Source) {
		s.observer = obs
	}
}

// WithSequence draws the source identity from seq instead of the
// process-wide default. Tests use this for deterministic identities.
func WithSequence(seq *Sequence) Option {
	return func(s *Source) {
		if seq != nil {
			s.seq = seq
		}
	}
}
