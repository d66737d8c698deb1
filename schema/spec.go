package schema

import (
	"fmt"
)

// ColumnSpec is the serializable form of a column, as written in schema
// files.
type ColumnSpec struct {
	Name       string      `mapstructure:"name" json:"name" yaml:"name"`
	Identifier string      `mapstructure:"identifier" json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Type       string      `mapstructure:"type" json:"type" yaml:"type"`
	Size       int         `mapstructure:"size" json:"size,omitempty" yaml:"size,omitempty"`
	Nullable   bool        `mapstructure:"nullable" json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Default    any         `mapstructure:"default" json:"default,omitempty" yaml:"default,omitempty"`
	Generator  string      `mapstructure:"generator" json:"generator,omitempty" yaml:"generator,omitempty"`
	Values     []string    `mapstructure:"values" json:"values,omitempty" yaml:"values,omitempty"`
	Codes      []EnumValue `mapstructure:"codes" json:"codes,omitempty" yaml:"codes,omitempty"`
	Timezone   string      `mapstructure:"timezone" json:"timezone,omitempty" yaml:"timezone,omitempty"`
}

// TableSpec is the serializable form of a table.
type TableSpec struct {
	Name    string       `mapstructure:"name" json:"name" yaml:"name"`
	Columns []ColumnSpec `mapstructure:"columns" json:"columns" yaml:"columns"`
}

// Build constructs the table through the regular constructors, so a spec is
// validated exactly like a table declared in code.
func (s TableSpec) Build() (*Table, error) {
	fields := make([]FieldDef, 0, len(s.Columns))
	for _, cs := range s.Columns {
		col, err := cs.Column()
		if err != nil {
			return nil, fmt.Errorf("table %s: field %s: %w", s.Name, cs.Name, err)
		}
		fields = append(fields, Field(cs.Name, col))
	}
	return NewTable(s.Name, fields...)
}

// Column builds the column described by the spec.
func (cs ColumnSpec) Column() (Column, error) {
	var (
		col Column
		err error
	)
	if len(cs.Codes) > 0 {
		bits, werr := ParseColumn(cs.Type, cs.Size, "", cs.Labels())
		if werr != nil {
			return Column{}, werr
		}
		col = EnumValues(bits.Type().Size, cs.Codes...)
		err = col.Err()
	} else {
		col, err = ParseColumn(cs.Type, cs.Size, cs.Timezone, cs.Values)
	}
	if err != nil {
		return Column{}, err
	}

	if cs.Nullable {
		col = col.Nullable()
	}
	if cs.Identifier != "" {
		col = col.Identifier(cs.Identifier)
	}

	switch {
	case cs.Generator != "":
		fn, err := NamedGenerator(cs.Generator)
		if err != nil {
			return Column{}, err
		}
		col = col.DefaultFunc(fn)
	case cs.Default != nil:
		def := cs.Default
		if text, ok := def.(string); ok {
			if def, err = ParseDefault(col, text); err != nil {
				return Column{}, err
			}
		}
		col = col.Default(def)
	}
	return col, nil
}

// Labels returns the enum labels named by Codes.
func (cs ColumnSpec) Labels() []string {
	labels := make([]string, len(cs.Codes))
	for i, c := range cs.Codes {
		labels[i] = c.Label
	}
	return labels
}

// Spec describes the table in serializable form. Generator defaults cannot be
// named back and are omitted.
func (t *Table) Spec() TableSpec {
	spec := TableSpec{Name: t.identifier, Columns: make([]ColumnSpec, len(t.fields))}
	for i, f := range t.fields {
		typ := f.Column.Type()
		cs := ColumnSpec{
			Name:       f.Name,
			Identifier: f.Column.DeclaredIdentifier(),
			Type:       typ.Name(),
			Nullable:   f.Column.IsNullable(),
			Timezone:   typ.Timezone,
		}
		if typ.Kind == KindFixedString {
			cs.Size = typ.Size
		}
		if typ.Kind == KindEnum {
			cs.Codes = append([]EnumValue(nil), typ.Values...)
		}
		if def, ok := f.Column.StaticDefault(); ok {
			cs.Default = def
		}
		spec.Columns[i] = cs
	}
	return spec
}
