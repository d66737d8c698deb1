package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MapRows rewrites result rows from physical column names to friendly names.
// data must be []map[string]any, []Row, []any holding maps, or a JSON array of
// objects ([]byte or json.RawMessage). Keys the table does not know pass
// through unchanged.
func MapRows(t *Table, data any) ([]Row, error) {
	var src []map[string]any

	switch d := data.(type) {
	case []map[string]any:
		src = d
	case []Row:
		src = make([]map[string]any, len(d))
		for i, r := range d {
			src[i] = r
		}
	case []any:
		src = make([]map[string]any, len(d))
		for i, e := range d {
			switch m := e.(type) {
			case map[string]any:
				src[i] = m
			case Row:
				src[i] = m
			default:
				return nil, fmt.Errorf("%w: element %d is %T", ErrNotRowSequence, i, e)
			}
		}
	case json.RawMessage:
		return MapRows(t, []byte(d))
	case []byte:
		rows, err := decodeJSONRows(d)
		if err != nil {
			return nil, err
		}
		src = rows
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotRowSequence, data)
	}

	out := make([]Row, len(src))
	for i, r := range src {
		mapped := make(Row, len(r))
		for k, v := range r {
			mapped[t.FriendlyName(k)] = v
		}
		out[i] = mapped
	}
	return out, nil
}

func decodeJSONRows(data []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotRowSequence, err)
	}
	if rows == nil {
		return nil, fmt.Errorf("%w: payload is not an array", ErrNotRowSequence)
	}
	return rows, nil
}
