package schema

import (
	"fmt"
	"reflect"
)

// RowsFrom converts caller data to rows keyed by friendly name. It accepts a
// struct, a pointer to one, a slice or array of either, a Row, a
// map[string]any, or slices of those.
//
// A struct field is left absent, so the column default applies, when it holds
// its zero value and either carries the omitempty option or maps to a column
// with a default. A nil pointer field is otherwise an explicit null.
func RowsFrom(data any) ([]Row, error) {
	switch d := data.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrNotRowSequence)
	case []Row:
		rows := make([]Row, len(d))
		for i, r := range d {
			rows[i] = cloneRow(r)
		}
		return rows, nil
	case []map[string]any:
		rows := make([]Row, len(d))
		for i, r := range d {
			rows[i] = cloneRow(r)
		}
		return rows, nil
	case Row:
		return []Row{cloneRow(d)}, nil
	case map[string]any:
		return []Row{cloneRow(d)}, nil
	}

	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("%w: nil %s", ErrNotRowSequence, v.Type())
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		row, err := structRow(v)
		if err != nil {
			return nil, err
		}
		return []Row{row}, nil
	case reflect.Slice, reflect.Array:
		rows := make([]Row, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			row, err := elemRow(v.Index(i))
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			rows = append(rows, row)
		}
		return rows, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrNotRowSequence, data)
}

func elemRow(v reflect.Value) (Row, error) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, fmt.Errorf("%w: nil element", ErrNotRowSequence)
		}
		v = v.Elem()
	}
	switch {
	case v.Kind() == reflect.Struct:
		return structRow(v)
	case v.Type() == rowType:
		return cloneRow(v.Interface().(Row)), nil
	case v.Type() == anyMapType:
		return cloneRow(v.Interface().(map[string]any)), nil
	}
	return nil, fmt.Errorf("%w: element of type %s", ErrNotRowSequence, v.Type())
}

func structRow(v reflect.Value) (Row, error) {
	meta, err := Introspect(v.Type())
	if err != nil {
		return nil, err
	}

	row := make(Row, len(meta.Fields))
	for _, fm := range meta.Fields {
		fv := v.FieldByIndex(fm.Index)
		if fv.IsZero() && (fm.Tag.OmitEmpty || fm.Column.HasDefault()) {
			continue
		}
		if fv.Kind() == reflect.Pointer && fm.Type != bigIntType {
			if fv.IsNil() {
				row[fm.Name] = nil
				continue
			}
			fv = fv.Elem()
		}
		row[fm.Name] = fv.Interface()
	}
	return row, nil
}

func cloneRow[M ~map[string]any](m M) Row {
	row := make(Row, len(m))
	for k, v := range m {
		row[k] = v
	}
	return row
}
