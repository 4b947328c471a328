package structs

import (
	"fmt"

	"github.com/latticeforge/ckks/utils/buffer"
)

// Vector wraps a slice of components of type T, giving a batch of
// homomorphic objects the same clone/equality/serialization surface as a
// single one. Methods that need a capability assert it at runtime, so a
// Vector of a type lacking it stays usable for plain iteration.
type Vector[T any] []T

// Size returns the number of components.
func (v Vector[T]) Size() int {
	return len(v)
}

// Clone returns a deep copy of the vector. T must implement Cloner.
func (v Vector[T]) Clone() Vector[T] {
	vcpy := make(Vector[T], len(v))
	for i := range v {
		c, ok := any(v[i]).(Cloner[T])
		if !ok {
			panic(fmt.Errorf("structs: vector component of type %T does not implement Cloner", v[i]))
		}
		vcpy[i] = c.Clone()
	}
	return vcpy
}

// Equal performs a componentwise deep equality test. T must implement
// Equatable.
func (v Vector[T]) Equal(other Vector[T]) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		e, ok := any(v[i]).(Equatable[T])
		if !ok {
			panic(fmt.Errorf("structs: vector component of type %T does not implement Equatable", v[i]))
		}
		if !e.Equal(other[i]) {
			return false
		}
	}
	return true
}

// Save serializes the vector to w as a count prefix followed by each
// component's own serialization. T must implement Saver.
func (v Vector[T]) Save(w buffer.Writer) (n int64, err error) {
	var inc int64
	if inc, err = buffer.WriteInt(w, len(v)); err != nil {
		return n + inc, err
	}
	n += inc
	for i := range v {
		s, ok := any(v[i]).(Saver)
		if !ok {
			return n, fmt.Errorf("structs: vector component of type %T does not implement Saver", v[i])
		}
		if inc, err = s.Save(w); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return n, nil
}

// LoadVector reads a vector written by Save, using newT to allocate each
// component before its Load is invoked. The component type must implement
// Loader.
func LoadVector[T any](r buffer.Reader, newT func() T) (Vector[T], int64, error) {
	var n int64
	var size int
	inc, err := buffer.ReadInt(r, &size)
	n += inc
	if err != nil {
		return nil, n, err
	}
	if size < 0 {
		return nil, n, fmt.Errorf("structs: negative vector size %d", size)
	}
	v := make(Vector[T], size)
	for i := range v {
		elem := newT()
		l, ok := any(elem).(Loader)
		if !ok {
			return nil, n, fmt.Errorf("structs: vector component of type %T does not implement Loader", elem)
		}
		if inc, err = l.Load(r); err != nil {
			return nil, n + inc, err
		}
		n += inc
		v[i] = elem
	}
	return v, n, nil
}
