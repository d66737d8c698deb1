package engine

import (
	"errors"
	"fmt"

	"github.com/Konsultn-Engineering/chorm/ast"
	"github.com/Konsultn-Engineering/chorm/query"
	"github.com/Konsultn-Engineering/chorm/schema"
)

var (
	ErrEmptyBatch = errors.New("insert batch is empty")
	ErrNilTable   = errors.New("table is nil")
)

// InsertStatement builds
//
//	INSERT INTO `table` (`c1`, `c2`) VALUES ({param0:T1}, {param1:T2}), ...
//
// covering every declared column in declaration order. For each cell a value
// present in the row wins, even an explicit nil. Otherwise a static default
// renders DEFAULT, a generator default is invoked for that row, and anything
// else binds null.
func InsertStatement(t *schema.Table, rows []schema.Row) (query.Statement, error) {
	if t == nil {
		return query.Statement{}, ErrNilTable
	}
	if t.Len() == 0 {
		return query.Statement{}, fmt.Errorf("insert into %s: %w", t.Identifier(), schema.ErrNoColumns)
	}
	if len(rows) == 0 {
		return query.Statement{}, fmt.Errorf("insert into %s: %w", t.Identifier(), ErrEmptyBatch)
	}

	fields := t.Fields()
	types := make([]string, len(fields))

	b := query.NewBuilder().Text("INSERT INTO ").Ident(t.Identifier()).Text(" (")
	for i, f := range fields {
		if i > 0 {
			b.Text(", ")
		}
		b.Ident(t.DatabaseIdentifier(f.Name))
		types[i] = f.Column.BindType()
	}
	b.Text(") VALUES ")

	grid := make([][]any, len(rows))
	for r, row := range rows {
		cells := make([]any, len(fields))
		for i, f := range fields {
			v, err := cellValue(f, row)
			if err != nil {
				return query.Statement{}, fmt.Errorf("insert into %s: row %d: field %s: %w", t.Identifier(), r, f.Name, err)
			}
			cells[i] = v
		}
		grid[r] = cells
	}

	return b.Values(grid, types).Statement(), nil
}

func cellValue(f schema.FieldDef, row schema.Row) (any, error) {
	if v, ok := row[f.Name]; ok {
		return v, nil
	}
	if fn := f.Column.Generator(); fn != nil {
		return fn()
	}
	if f.Column.HasDefault() {
		return ast.DefaultValue, nil
	}
	return nil, nil
}

// InsertSQL compiles InsertStatement with the ClickHouse dialect.
func InsertSQL(t *schema.Table, rows []schema.Row) (query.Compiled, error) {
	stmt, err := InsertStatement(t, rows)
	if err != nil {
		return query.Compiled{}, err
	}
	return stmt.Compile()
}
