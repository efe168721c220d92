// Package optional provides a JSON-aware optional value that distinguishes an
// omitted field from one explicitly set to null. Partial-update payloads need
// the distinction: omitted leaves the stored value unchanged, explicit null
// clears it.
package optional

import "encoding/json"

// Value holds a field from a partial-update payload.
type Value[T any] struct {
	val     *T
	present bool
}

// Of returns a present, non-null value. Useful in tests and internal callers.
func Of[T any](v T) Value[T] { return Value[T]{val: &v, present: true} }

// Null returns a present-but-null value.
func Null[T any]() Value[T] { return Value[T]{present: true} }

// Present reports whether the field appeared in the payload at all.
func (v Value[T]) Present() bool { return v.present }

// IsNull reports whether the field appeared as an explicit null.
func (v Value[T]) IsNull() bool { return v.present && v.val == nil }

// Get returns the value and whether it is present and non-null.
func (v Value[T]) Get() (T, bool) {
	if v.val == nil {
		var zero T
		return zero, false
	}
	return *v.val, true
}

// Ptr returns the underlying pointer (nil when null or absent).
func (v Value[T]) Ptr() *T { return v.val }

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.present = true
	if string(data) == "null" {
		v.val = nil
		return nil
	}
	var t T
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	v.val = &t
	return nil
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	if v.val == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*v.val)
}
