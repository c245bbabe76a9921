package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Row is one record of tabular data. Unlike a plain map it remembers the
// order in which keys appeared in the JSON object, because the rendered
// column order must follow the first row's key order.
type Row struct {
	keys   []string
	values map[string]string
}

// Keys returns the column names in their original insertion order.
func (r Row) Keys() []string {
	return r.keys
}

// Get returns the display value for key, or "" when the key is absent
// or its value was null.
func (r Row) Get(key string) string {
	return r.values[key]
}

// Has reports whether the row carries the given key at all.
func (r Row) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Set appends or overwrites a cell. Mostly useful in tests.
func (r *Row) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// UnmarshalJSON decodes a JSON object token by token so the key order
// survives. encoding/json's map decoding would lose it.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("table: row must be a JSON object, got %v", tok)
	}

	r.keys = nil
	r.values = make(map[string]string)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}

		if _, seen := r.values[key]; !seen {
			r.keys = append(r.keys, key)
		}
		r.values[key] = displayValue(raw)
	}

	// consume the closing '}'
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// displayValue converts one JSON value into the string the cell shows.
// null becomes "", numbers keep their literal form ("1", not "1.000000").
func displayValue(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		// nested arrays/objects are not part of the contract; show raw JSON
		return string(raw)
	}
}
