package weakevent

import (
	"reflect"
	"sync"
	"weak"
)

// Handle is a non-owning reference to a Target.
// Registrations are matched on the target a handle resolves to, never on the
// handle itself, so any number of handle types may refer to one target.
type Handle interface {
	// Target returns the referenced target, or nil once it has been
	// reclaimed.
	Target() Target
}

// targetPtr constrains P to a pointer to T that implements Target.
type targetPtr[T any] interface {
	*T
	Target
}

type ref[T any, P targetPtr[T]] struct {
	p weak.Pointer[T]
}

// Ref returns a weak Handle for target. A nil target yields a nil Handle,
// which Attach and Detach ignore.
//
// Very small pointer-free targets may share an allocation with other
// objects and so outlive their last reference.
func Ref[T any, P targetPtr[T]](target P) Handle {
	if (*T)(target) == nil {
		return nil
	}
	return ref[T, P]{p: weak.Make((*T)(target))}
}

// Target returns the referenced target or nil.
func (r ref[T, P]) Target() Target {
	v := r.p.Value()
	if v == nil {
		return nil
	}
	return P(v)
}

// listeners is the collection for one catalog index. The methods below
// expect mu to be held.
type listeners struct {
	mu      sync.Mutex
	handles []Handle
}

// find scans in reverse for a live handle referring to target, removing dead
// handles it passes. It returns the index of the match or -1, and the number
// of dead handles removed.
func (l *listeners) find(target Target) (int, int) {
	pruned := 0
	for i := len(l.handles) - 1; i >= 0; i-- {
		cur := l.handles[i].Target()
		if cur == nil {
			l.remove(i)
			pruned++
			continue
		}
		if sameTarget(cur, target) {
			return i, pruned
		}
	}
	return -1, pruned
}

// sameTarget reports whether a and b are the same target object. Values of
// uncomparable dynamic types compare by the address they refer to instead of
// panicking. For func targets that is the code pointer, so two closures of
// one function literal count as the same target.
func sameTarget(a, b Target) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Comparable() && vb.Comparable() {
		return a == b
	}
	switch va.Kind() {
	case reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	return false
}

// remove deletes the handle at i, keeping insertion order.
func (l *listeners) remove(i int) {
	l.handles = append(l.handles[:i], l.handles[i+1:]...)
}

// snapshot returns strong references to live targets in reverse insertion
// order, pruning dead handles as it goes.
func (l *listeners) snapshot() ([]Target, int) {
	targets := make([]Target, 0, len(l.handles))
	pruned := 0
	for i := len(l.handles) - 1; i >= 0; i-- {
		t := l.handles[i].Target()
		if t == nil {
			l.remove(i)
			pruned++
			continue
		}
		targets = append(targets, t)
	}
	return targets, pruned
}

// counts returns the number of live and stored handles without pruning.
func (l *listeners) counts() (int, int) {
	live := 0
	for _, h := range l.handles {
		if h.Target() != nil {
			live++
		}
	}
	return live, len(l.handles)
}
