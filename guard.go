package weakevent

// TryAttach attaches h to the named event on obj if obj is an EventSource.
// It reports whether the attempt was possible, not whether it succeeded.
func TryAttach(obj any, event string, h Handle) bool {
	src, ok := obj.(EventSource)
	if !ok {
		return false
	}
	src.Attach(event, h)
	return true
}

// TryDetach detaches h from the named event on obj if obj is an
// EventSource. It reports whether the attempt was possible, not whether it
// succeeded.
func TryDetach(obj any, event string, h Handle) bool {
	src, ok := obj.(EventSource)
	if !ok {
		return false
	}
	src.Detach(event, h)
	return true
}
