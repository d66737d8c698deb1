package visitor

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Konsultn-Engineering/chorm/ast"
	"github.com/Konsultn-Engineering/chorm/dialect"
)

// ErrMalformed marks fragment sequences that cannot be compiled. It is always
// a programming error in the caller.
var ErrMalformed = errors.New("malformed statement")

var visitorPool = sync.Pool{
	New: func() any {
		return &SQLVisitor{}
	},
}

// SQLVisitor renders a fragment sequence into SQL text and a parameter map.
// A visitor is single-use per Build and must not be shared between goroutines.
type SQLVisitor struct {
	sb       strings.Builder
	params   map[string]any
	next     int
	dialect  dialect.Dialect
	bindOnly bool
}

func NewSQLVisitor(d dialect.Dialect) *SQLVisitor {
	v := visitorPool.Get().(*SQLVisitor)
	v.dialect = d
	v.Reset()
	return v
}

func (v *SQLVisitor) Release() {
	v.dialect = nil
	v.Reset()
	visitorPool.Put(v)
}

func (v *SQLVisitor) Reset() {
	v.sb.Reset()
	v.params = nil
	v.next = 0
	v.bindOnly = false
}

// Build walks nodes in order. Placeholder ids start at 0 and follow traversal
// order, so identical inputs always yield identical output.
func (v *SQLVisitor) Build(nodes []ast.Node) (string, map[string]any, error) {
	v.Reset()
	if err := v.walk(nodes); err != nil {
		return "", nil, err
	}

	params := v.params
	v.params = nil
	return v.sb.String(), params, nil
}

// Bind assigns parameter ids exactly as Build does but skips rendering. It
// pairs with SQL cached for a statement of the same shape.
func (v *SQLVisitor) Bind(nodes []ast.Node) (map[string]any, error) {
	v.Reset()
	v.bindOnly = true
	if err := v.walk(nodes); err != nil {
		return nil, err
	}

	params := v.params
	v.params = nil
	return params, nil
}

func (v *SQLVisitor) walk(nodes []ast.Node) error {
	v.params = make(map[string]any)
	for i, n := range nodes {
		if n == nil {
			return fmt.Errorf("%w: nil fragment at position %d", ErrMalformed, i)
		}
		if err := n.Accept(v); err != nil {
			return err
		}
	}
	return nil
}

func (v *SQLVisitor) write(s string) {
	if !v.bindOnly {
		v.sb.WriteString(s)
	}
}

func (v *SQLVisitor) bind(val any, wireType string) {
	v.write(v.dialect.Placeholder(v.next, wireType))
	v.params[v.dialect.ParamName(v.next)] = val
	v.next++
}

func (v *SQLVisitor) VisitLiteral(l *ast.Literal) error {
	v.write(l.Text)
	return nil
}

func (v *SQLVisitor) VisitIdentifier(i *ast.Identifier) error {
	v.write(v.dialect.QuoteIdentifier(i.Name))
	return nil
}

func (v *SQLVisitor) VisitRaw(r *ast.Raw) error {
	v.write(r.Text)
	return nil
}

func (v *SQLVisitor) VisitDefault(*ast.Default) error {
	v.write(v.dialect.DefaultKeyword())
	return nil
}

func (v *SQLVisitor) VisitParam(p *ast.Param) error {
	wireType := p.WireType
	if wireType == "" {
		wireType = ast.DefaultWireType
	}
	v.bind(p.Val, wireType)
	return nil
}

func (v *SQLVisitor) VisitParamGrid(g *ast.ParamGrid) error {
	if len(g.Rows) == 0 {
		return fmt.Errorf("%w: value grid has no rows", ErrMalformed)
	}

	width := len(g.Rows[0])
	if len(g.Types) > 0 {
		width = len(g.Types)
	}

	for i, row := range g.Rows {
		if len(row) != width {
			return fmt.Errorf("%w: grid row %d has %d cells, want %d", ErrMalformed, i, len(row), width)
		}
		if i > 0 {
			v.write(", ")
		}
		v.write("(")
		for j, cell := range row {
			if j > 0 {
				v.write(", ")
			}
			if ast.IsDefault(cell) {
				v.write(v.dialect.DefaultKeyword())
				continue
			}
			v.bind(cell, g.WireType(j))
		}
		v.write(")")
	}
	return nil
}

var _ ast.Visitor = (*SQLVisitor)(nil)
