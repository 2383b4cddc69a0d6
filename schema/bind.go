package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Parse validates raw against s and decodes the normalized value into a new
// T. Struct fields are matched by their json tag names. Validation failures
// are returned as *ValidationError.
func Parse[T any](s Schema, raw any) (*T, error) {
	res := Validate(s, raw)
	if !res.OK() {
		return nil, res.Err()
	}
	out := new(T)
	if err := Decode(res.Value(), out); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode copies a normalized value into the struct, slice, or map pointed to
// by out, using json tag names.
func Decode(v any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return fmt.Errorf("schema: build decoder: %w", err)
	}
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("schema: decode: %w", err)
	}
	return nil
}

// ToValue converts a Go value into its generic JSON form: maps, slices,
// strings, booleans, json.Number and nil.
func ToValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("schema: marshal: %w", err)
	}
	return DecodeJSON(b)
}

// DecodeJSON parses JSON keeping numbers as json.Number, so that integer
// checks see the literal digits.
func DecodeJSON(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return out, nil
}

// Check converts v with ToValue and validates it against s.
func Check(s Schema, v any) Result {
	raw, err := ToValue(v)
	if err != nil {
		return Result{issues: []Issue{{Code: CodeMalformed, Message: err.Error()}}}
	}
	return Validate(s, raw)
}
