// Package types provides nullable type implementations for handling optional
// values. Remote services omit fields they do not know about; nullable types
// keep "absent" distinguishable from a zero value all the way to the JSON
// boundary.
package types

// Nullable defines the interface for types that can represent null/nil
// values. Types implementing this interface can distinguish between a zero
// value and a null value, which is useful for JSON serialization where null
// has semantic meaning.
type Nullable interface {
	// IsNil returns true if the value is null/nil, false otherwise.
	IsNil() bool
}
