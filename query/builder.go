package query

import "github.com/Konsultn-Engineering/chorm/ast"

// Builder assembles a Statement fragment by fragment.
//
//	stmt := query.NewBuilder().
//		Text("SELECT * FROM ").Ident("events").
//		Text(" WHERE ").Ident("id").Text(" = ").Param(42).
//		Statement()
type Builder struct {
	nodes []ast.Node
}

func NewBuilder() *Builder {
	return &Builder{nodes: make([]ast.Node, 0, 8)}
}

func (b *Builder) Text(text string) *Builder {
	b.nodes = append(b.nodes, ast.NewLiteral(text))
	return b
}

func (b *Builder) Ident(name string) *Builder {
	b.nodes = append(b.nodes, ast.NewIdentifier(name))
	return b
}

// Raw appends trusted text verbatim. Never pass user input.
func (b *Builder) Raw(text string) *Builder {
	b.nodes = append(b.nodes, ast.NewRaw(text))
	return b
}

func (b *Builder) Default() *Builder {
	b.nodes = append(b.nodes, ast.DefaultValue)
	return b
}

func (b *Builder) Param(val any) *Builder {
	b.nodes = append(b.nodes, ast.NewParam(val))
	return b
}

func (b *Builder) TypedParam(val any, wireType string) *Builder {
	b.nodes = append(b.nodes, ast.NewTypedParam(val, wireType))
	return b
}

// Values appends a parameter grid, one placeholder per cell.
func (b *Builder) Values(rows [][]any, types []string) *Builder {
	b.nodes = append(b.nodes, ast.NewParamGrid(rows, types))
	return b
}

// Append splices an existing statement into the builder.
func (b *Builder) Append(s Statement) *Builder {
	b.nodes = append(b.nodes, s.nodes...)
	return b
}

// Statement returns the built statement. The builder may keep being used;
// later calls do not affect statements already returned.
func (b *Builder) Statement() Statement {
	return New(b.nodes...)
}
