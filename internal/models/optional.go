package models

import (
	"bytes"
	"encoding/json"
)

// OptionalString is a JSON string that remembers whether the key was present
// and whether it held null. The zero value is an absent field.
type OptionalString struct {
	Value   string
	Valid   bool
	Present bool
}

func Some(v string) OptionalString {
	return OptionalString{Value: v, Valid: true, Present: true}
}

func Null() OptionalString {
	return OptionalString{Present: true}
}

// IsZero reports an absent field so that `omitzero` drops it from payloads.
func (o OptionalString) IsZero() bool {
	return !o.Present
}

func (o OptionalString) IsNull() bool {
	return o.Present && !o.Valid
}

// IsEmpty reports a present, non-null empty string.
func (o OptionalString) IsEmpty() bool {
	return o.Valid && o.Value == ""
}

func (o OptionalString) String() string {
	if !o.Valid {
		return ""
	}
	return o.Value
}

func (o OptionalString) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Valid = false
		o.Value = ""
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}
