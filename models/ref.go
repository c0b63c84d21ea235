package models

import "encoding/json"

type RefState int

const (
	RefMissing RefState = iota
	RefUnresolved
	RefResolved
)

// Ref is a reference to another document as seen from a read path: the
// id was empty or no longer resolves (Missing), the lookup was not or could
// not be performed (Unresolved), or the entity was loaded (Resolved).
type Ref[T any] struct {
	State RefState
	ID    string
	Value *T
}

func MissingRef[T any](id string) Ref[T] {
	return Ref[T]{State: RefMissing, ID: id}
}

func UnresolvedRef[T any](id string) Ref[T] {
	return Ref[T]{State: RefUnresolved, ID: id}
}

func ResolvedRef[T any](id string, v *T) Ref[T] {
	return Ref[T]{State: RefResolved, ID: id, Value: v}
}

// Get returns the entity when the reference is resolved.
func (r Ref[T]) Get() (*T, bool) {
	if r.State == RefResolved && r.Value != nil {
		return r.Value, true
	}
	return nil, false
}

// MarshalJSON keeps the wire shape clients already know: a populated
// object, a bare id, or null.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	switch r.State {
	case RefResolved:
		return json.Marshal(r.Value)
	case RefUnresolved:
		return json.Marshal(r.ID)
	default:
		return []byte("null"), nil
	}
}
