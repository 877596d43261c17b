package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrInvalidRow is returned when a tableData entry is not a JSON object
var ErrInvalidRow = errors.New("table row must be a JSON object")

// TableRow is one tableData entry: string values keyed by column name, with
// the keys in the order they appeared in the document.
type TableRow struct {
	Keys   []string
	Values map[string]string
}

// NewTableRow builds a row from alternating key, value pairs
func NewTableRow(pairs ...string) TableRow {
	var row TableRow
	for i := 0; i+1 < len(pairs); i += 2 {
		row.Set(pairs[i], pairs[i+1])
	}
	return row
}

// Set stores value under key, appending key on first use
func (r *TableRow) Set(key, value string) {
	if r.Values == nil {
		r.Values = make(map[string]string)
	}
	if _, exists := r.Values[key]; !exists {
		r.Keys = append(r.Keys, key)
	}
	r.Values[key] = value
}

// UnmarshalJSON decodes an object while keeping key order. Scalar values are
// kept as their text, null becomes "", and nested values keep their raw JSON.
func (r *TableRow) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: invalid JSON", ErrInvalidRow)
	}
	obj := gjson.ParseBytes(data)
	if !obj.IsObject() {
		return fmt.Errorf("%w: got %s", ErrInvalidRow, obj.Type)
	}

	*r = TableRow{Values: make(map[string]string)}
	obj.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.Null {
			r.Set(key.String(), "")
		} else {
			r.Set(key.String(), value.String())
		}
		return true
	})
	return nil
}

// MarshalJSON encodes the row as an object in key order
func (r TableRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.Values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
