package schema

import (
	"fmt"
	"slices"
)

// Row is one record keyed by friendly field name. A missing key means the
// value is absent; a present nil is an explicit null.
type Row map[string]any

// FieldDef pairs a friendly field name with its column definition.
type FieldDef struct {
	Name   string
	Column Column
}

// Field is shorthand for FieldDef{name, col}.
func Field(name string, col Column) FieldDef {
	return FieldDef{Name: name, Column: col}
}

// Table is an immutable table definition. Field order is the declaration
// order and drives column order in generated statements.
type Table struct {
	identifier string
	fields     []FieldDef
	byName     map[string]int
	byPhysical map[string]string
}

// NewTable validates every column and builds a table. A table without fields
// is allowed; statements against it fail later with ErrNoColumns.
func NewTable(identifier string, fields ...FieldDef) (*Table, error) {
	if identifier == "" {
		return nil, fmt.Errorf("%w: empty table identifier", ErrInvalidIdentifier)
	}

	t := &Table{
		identifier: identifier,
		fields:     slices.Clone(fields),
		byName:     make(map[string]int, len(fields)),
		byPhysical: make(map[string]string, len(fields)),
	}

	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: table %s: field %d has no name", ErrInvalidIdentifier, identifier, i)
		}
		if err := f.Column.Err(); err != nil {
			return nil, fmt.Errorf("table %s: field %s: %w", identifier, f.Name, err)
		}
		if _, dup := t.byName[f.Name]; dup {
			return nil, fmt.Errorf("%w: table %s: field %s", ErrDuplicateColumn, identifier, f.Name)
		}
		physical := f.Column.DeclaredIdentifier()
		if physical == "" {
			physical = f.Name
		}
		if other, dup := t.byPhysical[physical]; dup {
			return nil, fmt.Errorf("%w: table %s: fields %s and %s both map to %s",
				ErrDuplicateColumn, identifier, other, f.Name, physical)
		}
		t.byName[f.Name] = i
		t.byPhysical[physical] = f.Name
	}

	return t, nil
}

// MustTable is NewTable that panics on error. Intended for package-level
// schema declarations.
func MustTable(identifier string, fields ...FieldDef) *Table {
	t, err := NewTable(identifier, fields...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Identifier() string { return t.identifier }

// Len returns the number of fields.
func (t *Table) Len() int { return len(t.fields) }

// Fields returns the field definitions in declaration order.
func (t *Table) Fields() []FieldDef { return slices.Clone(t.fields) }

// Names returns the friendly field names in declaration order.
func (t *Table) Names() []string {
	names := make([]string, len(t.fields))
	for i, f := range t.fields {
		names[i] = f.Name
	}
	return names
}

// Column looks up a field's column by friendly name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Column{}, false
	}
	return t.fields[i].Column, true
}

// DatabaseIdentifier resolves a friendly name to the physical column name.
// Unknown names are returned unchanged.
func (t *Table) DatabaseIdentifier(name string) string {
	i, ok := t.byName[name]
	if !ok {
		return name
	}
	if id := t.fields[i].Column.DeclaredIdentifier(); id != "" {
		return id
	}
	return name
}

// FriendlyName resolves a physical column name to its friendly name. Unknown
// names are returned unchanged.
func (t *Table) FriendlyName(physical string) string {
	if name, ok := t.byPhysical[physical]; ok {
		return name
	}
	return physical
}
