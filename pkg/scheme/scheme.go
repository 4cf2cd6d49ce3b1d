// Package scheme defines named, mutable configuration objects (keymaps, color
// themes, code style profiles) and the per-kind processor contract a scheme
// manager uses to persist them and report their lifecycle.
package scheme

import "reflect"

// Scheme is the read-only identity of a scheme. Name is the sole identifier
// of a scheme within a manager. Implementations must be comparable, in
// practice pointer types: a manager tracks instances by identity and rejects
// schemes it cannot compare.
type Scheme interface {
	Name() string
}

// ExternalizableScheme is a scheme whose name can change and which can be
// written to storage.
type ExternalizableScheme interface {
	Scheme
	SetName(name string)
}

// State is the persistence status of a scheme. It is computed on demand by
// the processor and never stored in the scheme.
type State int

const (
	stateInvalid State = iota
	// StateUnchanged means the scheme equals its last persisted form.
	StateUnchanged
	// StateNonPersistent means the scheme must never be written.
	StateNonPersistent
	// StatePossiblyChanged means the scheme has to be written to be safe.
	StatePossiblyChanged
)

func (s State) String() string {
	switch s {
	case StateUnchanged:
		return "unchanged"
	case StateNonPersistent:
		return "non_persistent"
	case StatePossiblyChanged:
		return "possibly_changed"
	default:
		return "invalid"
	}
}

// NeedsSave reports whether a scheme in this state must be serialized.
// Invalid states are treated as possibly changed.
func (s State) NeedsSave() bool {
	return s != StateUnchanged && s != StateNonPersistent
}

// IsAbsent reports whether s is the zero value of its type, which stands for
// "no scheme" in current-scheme notifications.
func IsAbsent[S Scheme](s S) bool {
	v := any(s)
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Identifiable reports whether s has a comparable dynamic type, which Same
// needs to recognize the instance.
func Identifiable[S Scheme](s S) bool {
	v := any(s)
	return v != nil && reflect.TypeOf(v).Comparable()
}

// Same reports whether a and b are the same scheme instance. Values of non
// comparable types are never the same; see Identifiable.
func Same[S Scheme](a, b S) bool {
	va, vb := any(a), any(b)
	if va == nil || vb == nil {
		return va == nil && vb == nil
	}
	if !reflect.TypeOf(va).Comparable() || !reflect.TypeOf(vb).Comparable() {
		return false
	}
	return va == vb
}

// Narrow converts a scheme to its mutable view M.
func Narrow[M Scheme](s Scheme) (M, bool) {
	m, ok := s.(M)
	return m, ok
}
