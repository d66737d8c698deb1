package schema

import (
	"fmt"
	"reflect"
)

// TableNamer lets a struct choose its table identifier.
type TableNamer interface {
	TableName() string
}

// FieldMeta describes one mapped struct field.
type FieldMeta struct {
	Name   string // Go field name, also the friendly name
	Index  []int
	Type   reflect.Type
	Tag    *ParsedTag
	Column Column
}

// EntityMeta is the cached mapping of a struct type to a table.
type EntityMeta struct {
	Type   reflect.Type
	Fields []*FieldMeta
	Table  *Table
}

func buildMeta(t reflect.Type, o *options) (*EntityMeta, error) {
	parser := NewTagParser(o.naming)
	meta := &EntityMeta{Type: t}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}

		tag, err := parser.ParseTag(f.Name, f.Tag)
		if err != nil {
			return nil, err
		}
		if tag.Skip {
			continue
		}

		col, err := fieldColumn(f, tag)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.Name(), f.Name, err)
		}

		meta.Fields = append(meta.Fields, &FieldMeta{
			Name:   f.Name,
			Index:  f.Index,
			Type:   f.Type,
			Tag:    tag,
			Column: col,
		})
	}

	name := o.tableName
	if name == "" {
		if tn, ok := reflect.New(t).Interface().(TableNamer); ok {
			name = tn.TableName()
		} else {
			name = o.naming.TableName(t.Name())
		}
	}

	defs := make([]FieldDef, len(meta.Fields))
	for i, fm := range meta.Fields {
		defs[i] = Field(fm.Name, fm.Column)
	}
	table, err := NewTable(name, defs...)
	if err != nil {
		return nil, err
	}
	meta.Table = table
	return meta, nil
}

func fieldColumn(f reflect.StructField, tag *ParsedTag) (Column, error) {
	var (
		col Column
		err error
	)
	switch {
	case tag.Type != "":
		col, err = ParseColumn(tag.Type, tag.Size, tag.Timezone, tag.Enum)
		if err == nil && (tag.Nullable || f.Type.Kind() == reflect.Pointer && f.Type != bigIntType) {
			col = col.Nullable()
		}
	case len(tag.Enum) > 0:
		col = Enum(tag.Enum...)
		err = col.Err()
	default:
		col, err = InferColumn(f.Type, tag.Timezone)
		if err == nil && tag.Nullable {
			col = col.Nullable()
		}
	}
	if err != nil {
		return Column{}, err
	}

	switch {
	case tag.Generator != "":
		fn, err := NamedGenerator(tag.Generator)
		if err != nil {
			return Column{}, err
		}
		col = col.DefaultFunc(fn)
	case tag.HasDefault:
		v, err := ParseDefault(col, tag.Default)
		if err != nil {
			return Column{}, err
		}
		col = col.Default(v)
	}

	if tag.ColumnName != f.Name {
		col = col.Identifier(tag.ColumnName)
	}
	return col, nil
}
