package schema

import (
	"fmt"
	"reflect"
)

// Decode copies rows keyed by friendly name into dest, which must point to a
// slice of structs or struct pointers. Row keys without a matching field are
// ignored.
func Decode(rows []Row, dest any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() || dv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("%w: decode target must be a pointer to a slice, got %T", ErrUnsupportedType, dest)
	}

	slice := dv.Elem()
	elemType := slice.Type().Elem()
	isPtr := elemType.Kind() == reflect.Pointer
	structType := elemType
	if isPtr {
		structType = elemType.Elem()
	}

	meta, err := Introspect(structType)
	if err != nil {
		return err
	}

	out := reflect.MakeSlice(slice.Type(), 0, len(rows))
	for i, row := range rows {
		item := reflect.New(structType)
		if err := decodeRow(meta, row, item.Elem()); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if isPtr {
			out = reflect.Append(out, item)
		} else {
			out = reflect.Append(out, item.Elem())
		}
	}
	slice.Set(out)
	return nil
}

func decodeRow(meta *EntityMeta, row Row, dst reflect.Value) error {
	for _, fm := range meta.Fields {
		v, ok := row[fm.Name]
		if !ok {
			continue
		}
		if err := assign(dst.FieldByIndex(fm.Index), v); err != nil {
			return fmt.Errorf("field %s: %w", fm.Name, err)
		}
	}
	return nil
}
