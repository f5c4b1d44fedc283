package types

import "encoding/json"

// NullableString represents a nullable string value.
// It can distinguish between an empty string and a null value.
type NullableString struct {
	Value string
	Valid bool // Valid is true if Value is not nil
}

// String returns the string value if valid, or an empty string if null.
// This implements the fmt.Stringer interface.
func (ns NullableString) String() string {
	if ns.Valid {
		return ns.Value
	}
	return ""
}

// IsNil returns true if the NullableString is null/nil, false otherwise.
// Note: An empty string with Valid=true is not considered nil.
func (ns NullableString) IsNil() bool {
	return !ns.Valid || ns.Value == ""
}

// Set assigns a string value to the NullableString and marks it as valid.
func (ns *NullableString) Set(value string) {
	ns.Value = value
	ns.Valid = true
}

// MarshalJSON implements the json.Marshaler interface.
// Returns the string value as JSON if valid, or null if the value is nil.
func (ns NullableString) MarshalJSON() ([]byte, error) {
	if ns.Valid {
		return json.Marshal(ns.Value)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Handles null values by setting Valid to false and Value to empty string.
func (ns *NullableString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		ns.Value = ""
		ns.Valid = false
		return nil
	}
	ns.Valid = true
	return json.Unmarshal(data, &ns.Value)
}

// NullableStringFrom creates a valid NullableString from a string value.
func NullableStringFrom(s string) NullableString {
	return NullableString{Value: s, Valid: true}
}

// NullString creates a NullableString that represents a null value.
func NullString() NullableString {
	return NullableString{Value: "", Valid: false}
}

var _ json.Marshaler = &NullableString{}
var _ json.Unmarshaler = &NullableString{}
var _ Nullable = &NullableString{}
