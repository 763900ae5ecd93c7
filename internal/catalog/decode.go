package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxExactInt is the largest integer a JSON number carries without loss
const maxExactInt = 1 << 53

// UnmarshalJSON decodes a product body field by field. A field holding a
// value of the wrong type is skipped; only malformed JSON or a body that is
// not an object fails.
func (r *Record) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	if id, ok := intField(fields["id"]); ok {
		r.ID = id
	}
	if name, ok := stringField(fields["name"]); ok {
		r.Name = name
	}
	if price, ok := numberField(fields["price"]); ok {
		r.Price = price
	}
	return nil
}

// UnmarshalJSON decodes a partial update. Null, absent and mistyped fields
// all stay nil and leave the record unchanged.
func (p *Patch) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	if name, ok := stringField(fields["name"]); ok {
		p.Name = &name
	}
	if price, ok := numberField(fields["price"]); ok {
		p.Price = &price
	}
	return nil
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("product body must be a JSON object: %w", err)
	}
	return fields, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// numberField accepts a JSON number or a string holding one
func numberField(raw json.RawMessage) (float64, bool) {
	if isNull(raw) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// intField accepts whole numbers only
func intField(raw json.RawMessage) (int, bool) {
	f, ok := numberField(raw)
	if !ok || f != math.Trunc(f) || math.Abs(f) > maxExactInt {
		return 0, false
	}
	return int(f), true
}

// stringField accepts a JSON string, or the literal text of a number or bool
func stringField(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	trimmed := bytes.TrimSpace(raw)
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[':
		return "", false
	default:
		return string(trimmed), true
	}
}
