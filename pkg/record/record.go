// Package record holds schema-less entity records as returned by the API.
//
// Field order is kept exactly as the server sent it so that CSV columns
// follow the first record of a batch.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotObject is returned when a record is not a JSON object.
var ErrNotObject = errors.New("record is not a JSON object")

// Record is an ordered field name to value mapping. Values are kept in
// their rendered cell form.
type Record struct {
	keys   []string
	values map[string]string
}

// New builds a record from alternating key, value pairs. Used by tests and
// callers assembling records by hand.
func New(pairs ...string) Record {
	r := Record{values: make(map[string]string, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return r
}

// Set adds or replaces a field. New fields are appended to the key order.
func (r *Record) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Keys returns field names in server order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Get returns a field value and whether the field was present.
func (r Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.keys)
}

// Decode parses a single JSON object into a Record.
//
// Cell rendering: strings verbatim, numbers as sent, booleans as
// true/false, null as empty, nested objects and arrays as compact JSON.
func Decode(raw []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return Record{}, fmt.Errorf("read record: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Record{}, ErrNotObject
	}

	r := Record{values: make(map[string]string)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Record{}, fmt.Errorf("read field name: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return Record{}, fmt.Errorf("unexpected field name token %v", keyTok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return Record{}, fmt.Errorf("read field %q: %w", key, err)
		}

		cell, err := renderCell(value)
		if err != nil {
			return Record{}, fmt.Errorf("render field %q: %w", key, err)
		}
		r.Set(key, cell)
	}

	if _, err := dec.Token(); err != nil {
		return Record{}, fmt.Errorf("read record end: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Record{}, fmt.Errorf("trailing data after record")
	}

	return r, nil
}

// DecodeAll decodes each raw object in order.
func DecodeAll(raws []json.RawMessage) ([]Record, error) {
	out := make([]Record, 0, len(raws))
	for i, raw := range raws {
		r, err := Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func renderCell(value json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 {
		return "", nil
	}

	switch trimmed[0] {
	case 'n':
		return "", nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		// numbers and booleans keep their literal text
		return string(trimmed), nil
	}
}
