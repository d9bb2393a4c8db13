package domain

import (
	"bytes"
	"encoding/json"
)

// Optional is a JSON field that distinguishes three states the standard
// pointer idiom collapses into two: absent from the payload, present as
// null, and present with a value.
//
//	Set == false              field absent, keep the stored value
//	Set == true, Valid false  field null, clear the column
//	Set == true, Valid true   field carries Value
//
// The zero Optional means "absent", so patch structs need no constructor.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// Some returns an Optional carrying v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

// Null returns an Optional representing an explicit JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

var jsonNull = []byte("null")

// UnmarshalJSON is only invoked for fields present in the payload, which is
// what makes the absent state observable.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, jsonNull) {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// MarshalJSON renders the value, or null when the field was cleared or never
// set. Patches are inputs, so this mostly matters for logging.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || !o.Valid {
		return jsonNull, nil
	}
	return json.Marshal(o.Value)
}
