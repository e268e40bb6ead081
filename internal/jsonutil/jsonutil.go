// Package jsonutil provides shared helpers for decoding loosely typed JSON
// payloads: error context, scalar conversion and array decoding.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message. Numbers decode as json.Number so
// long digit strings such as phone numbers keep their precision.
func UnmarshalWithContext(data []byte, v interface{}, context string) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// UnmarshalArrayAllowEmpty unmarshals JSON data into a slice.
// A JSON null decodes to an empty, non-nil slice.
func UnmarshalArrayAllowEmpty[T any](data []byte, context string) ([]T, error) {
	var entries []T
	if err := UnmarshalWithContext(data, &entries, context); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []T{}
	}
	return entries, nil
}

// ToString converts a decoded JSON scalar to its string form.
// Handles string, json.Number, float64 (formatted as integer when whole),
// bool and nil. Other types use fmt's default formatting.
func ToString(v interface{}) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// RawString decodes a raw JSON scalar and returns it via ToString.
// An empty or null raw value yields "".
func RawString(raw json.RawMessage) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", nil
	}
	var v interface{}
	if err := UnmarshalWithContext(raw, &v, "decode scalar"); err != nil {
		return "", err
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return "", fmt.Errorf("decode scalar: expected scalar, got %s", raw)
	}
	return ToString(v), nil
}
