package types

import "encoding/json"

// NullableInt64 represents a nullable 64-bit integer value. Quota limits use
// it so a limit the remote service never reported stays distinguishable from
// an explicit zero.
type NullableInt64 struct {
	Value int64
	Valid bool // Valid is true if Value is not nil
}

// Int64 returns the integer value if valid, or zero if null.
func (ni NullableInt64) Int64() int64 {
	if ni.Valid {
		return ni.Value
	}
	return 0
}

// IsNil returns true if the NullableInt64 is null/nil, false otherwise.
// Note: a zero value with Valid=true is not considered nil.
func (ni NullableInt64) IsNil() bool {
	return !ni.Valid
}

// Set assigns an integer value to the NullableInt64 and marks it as valid.
func (ni *NullableInt64) Set(value int64) {
	ni.Value = value
	ni.Valid = true
}

// MarshalJSON implements the json.Marshaler interface.
// Returns the integer value as JSON if valid, or null if the value is nil.
func (ni NullableInt64) MarshalJSON() ([]byte, error) {
	if ni.Valid {
		return json.Marshal(ni.Value)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Handles null values by setting Valid to false and Value to zero.
func (ni *NullableInt64) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		ni.Value = 0
		ni.Valid = false
		return nil
	}
	ni.Valid = true
	return json.Unmarshal(data, &ni.Value)
}

// NullableInt64From creates a valid NullableInt64 from an integer value.
func NullableInt64From(v int64) NullableInt64 {
	return NullableInt64{Value: v, Valid: true}
}

// NullInt64 creates a NullableInt64 that represents a null value.
func NullInt64() NullableInt64 {
	return NullableInt64{Value: 0, Valid: false}
}

var _ json.Marshaler = &NullableInt64{}
var _ json.Unmarshaler = &NullableInt64{}
var _ Nullable = &NullableInt64{}
