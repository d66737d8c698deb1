package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Konsultn-Engineering/chorm/ast"
	"github.com/Konsultn-Engineering/chorm/query"
	"github.com/Konsultn-Engineering/chorm/schema"
)

var ErrNotOrderable = errors.New("range operator on a column that is not orderable")

// ErrIncompleteRange is returned for a BETWEEN range missing either bound.
var ErrIncompleteRange = errors.New("between range needs both bounds")

// limitType binds LIMIT and OFFSET values.
const limitType = "UInt64"

// Range is an inclusive BETWEEN bound pair.
type Range struct {
	Low  any `json:"low"`
	High any `json:"high"`
}

// Condition holds the operators applied to one field. A nil operand is
// absent; any other value, including 0, false and "", is applied. A nil In
// slice is absent while an empty one matches nothing.
type Condition struct {
	Equals    any    `json:"equals,omitempty"`
	NotEquals any    `json:"not_equals,omitempty"`
	In        []any  `json:"in,omitempty"`
	NotIn     []any  `json:"not_in,omitempty"`
	Gt        any    `json:"gt,omitempty"`
	Gte       any    `json:"gte,omitempty"`
	Lt        any    `json:"lt,omitempty"`
	Lte       any    `json:"lte,omitempty"`
	Between   *Range `json:"between,omitempty"`
}

// FindQuery describes a filtered, sorted, paginated read. A non-nil Filter,
// even an empty one, adds a WHERE clause.
type FindQuery struct {
	Filter map[string]Condition `json:"filter,omitempty"`
	Sort   string               `json:"sort,omitempty"`
	// Order is "asc" (any case) for ascending. Anything else sorts descending.
	Order string `json:"order,omitempty"`
	// Limit and Offset are applied only when non-zero.
	Limit  uint64 `json:"limit,omitempty"`
	Offset uint64 `json:"offset,omitempty"`
}

// FindStatement builds
//
//	SELECT * FROM `table` WHERE 1=1 AND `c` = {param0:T} ... ORDER BY `c` DESC LIMIT ... OFFSET ...
//
// Filter fields are emitted in declaration order followed by fields the table
// does not declare, sorted. Unknown field names are used verbatim as column
// identifiers.
func FindStatement(t *schema.Table, q *FindQuery) (query.Statement, error) {
	if t == nil {
		return query.Statement{}, ErrNilTable
	}

	b := query.NewBuilder().Text("SELECT * FROM ").Ident(t.Identifier())
	if q == nil {
		return b.Statement(), nil
	}

	if q.Filter != nil {
		b.Text(" WHERE 1=1")
		for _, name := range filterOrder(t, q.Filter) {
			if err := appendCondition(b, t, name, q.Filter[name]); err != nil {
				return query.Statement{}, err
			}
		}
	}

	if q.Sort != "" {
		b.Text(" ORDER BY ").Ident(t.DatabaseIdentifier(q.Sort)).Text(" ").Raw(sortDirection(q.Order))
	}
	if q.Limit != 0 {
		b.Text(" LIMIT ").TypedParam(q.Limit, limitType)
	}
	if q.Offset != 0 {
		b.Text(" OFFSET ").TypedParam(q.Offset, limitType)
	}
	return b.Statement(), nil
}

// FindSQL compiles FindStatement with the ClickHouse dialect.
func FindSQL(t *schema.Table, q *FindQuery) (query.Compiled, error) {
	stmt, err := FindStatement(t, q)
	if err != nil {
		return query.Compiled{}, err
	}
	return stmt.Compile()
}

func sortDirection(order string) string {
	if strings.EqualFold(order, "asc") {
		return "ASC"
	}
	return "DESC"
}

func filterOrder(t *schema.Table, filter map[string]Condition) []string {
	names := make([]string, 0, len(filter))
	for _, name := range t.Names() {
		if _, ok := filter[name]; ok {
			names = append(names, name)
		}
	}
	if len(names) == len(filter) {
		return names
	}

	var unknown []string
	for name := range filter {
		if _, ok := t.Column(name); !ok {
			unknown = append(unknown, name)
		}
	}
	slices.Sort(unknown)
	return append(names, unknown...)
}

func appendCondition(b *query.Builder, t *schema.Table, name string, c Condition) error {
	bindType := ast.DefaultWireType
	orderable := true
	if col, ok := t.Column(name); ok {
		bindType = col.BindType()
		orderable = col.Type().Orderable()
	}
	ident := t.DatabaseIdentifier(name)

	compare := func(op ast.Operator, v any) {
		b.Text(" AND ").Ident(ident).Text(" " + string(op) + " ").TypedParam(v, bindType)
	}
	list := func(op ast.Operator, vs []any) {
		types := make([]string, len(vs))
		for i := range types {
			types[i] = bindType
		}
		b.Text(" AND ").Ident(ident).Text(" " + string(op) + " ").Values([][]any{vs}, types)
	}

	ops := []struct {
		op      ast.Operator
		present bool
		emit    func()
	}{
		{ast.OpEqual, c.Equals != nil, func() { compare(ast.OpEqual, c.Equals) }},
		{ast.OpNotEqual, c.NotEquals != nil, func() { compare(ast.OpNotEqual, c.NotEquals) }},
		{ast.OpIn, c.In != nil, func() {
			if len(c.In) == 0 {
				b.Text(" AND 0")
				return
			}
			list(ast.OpIn, c.In)
		}},
		{ast.OpNotIn, len(c.NotIn) > 0, func() { list(ast.OpNotIn, c.NotIn) }},
		{ast.OpGreaterThan, c.Gt != nil, func() { compare(ast.OpGreaterThan, c.Gt) }},
		{ast.OpGreaterThanOrEqual, c.Gte != nil, func() { compare(ast.OpGreaterThanOrEqual, c.Gte) }},
		{ast.OpLessThan, c.Lt != nil, func() { compare(ast.OpLessThan, c.Lt) }},
		{ast.OpLessThanOrEqual, c.Lte != nil, func() { compare(ast.OpLessThanOrEqual, c.Lte) }},
		{ast.OpBetween, c.Between != nil, func() {
			b.Text(" AND ").Ident(ident).Text(" " + string(ast.OpBetween) + " ").
				TypedParam(c.Between.Low, bindType).
				Text(" " + ast.OpAnd + " ").
				TypedParam(c.Between.High, bindType)
		}},
	}

	for _, o := range ops {
		if !o.present {
			continue
		}
		if o.op.OrderingOnly() && !orderable {
			return fmt.Errorf("field %s of %s: %w", name, t.Identifier(), ErrNotOrderable)
		}
		if o.op == ast.OpBetween && (c.Between.Low == nil || c.Between.High == nil) {
			return fmt.Errorf("field %s of %s: %w", name, t.Identifier(), ErrIncompleteRange)
		}
	}
	for _, o := range ops {
		if o.present {
			o.emit()
		}
	}
	return nil
}
