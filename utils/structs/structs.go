// Package structs generalizes collections of the library's cloneable,
// serializable objects (ciphertexts, keys) behind a single slice wrapper.
package structs

import "github.com/latticeforge/ckks/utils/buffer"

// Equatable is implemented by components that support a deep equality test.
type Equatable[T any] interface {
	Equal(T) bool
}

// Cloner is implemented by components that support a deep copy.
type Cloner[T any] interface {
	Clone() T
}

// Saver is implemented by components that serialize themselves to a
// buffer.Writer, returning the number of bytes written.
type Saver interface {
	Save(buffer.Writer) (int64, error)
}

// Loader is the read-side counterpart of Saver.
type Loader interface {
	Load(buffer.Reader) (int64, error)
}
