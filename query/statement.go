package query

import (
	"github.com/Konsultn-Engineering/chorm/ast"
	"github.com/Konsultn-Engineering/chorm/utils"
	"github.com/Konsultn-Engineering/chorm/visitor"
)

// ErrMalformed is returned when a statement cannot be compiled.
var ErrMalformed = visitor.ErrMalformed

// Statement is an immutable, ordered sequence of SQL fragments. The zero value
// is an empty statement.
type Statement struct {
	nodes []ast.Node
}

// New builds a statement from nodes, merging adjacent literals.
func New(nodes ...ast.Node) Statement {
	return Statement{}.appendNodes(nodes)
}

// Text is shorthand for a statement holding a single literal.
func Text(text string) Statement {
	return New(ast.NewLiteral(text))
}

// Append returns a new statement holding s followed by other. The literal at
// the end of s and the literal at the start of other are merged into one run.
// Neither operand is modified.
func (s Statement) Append(other Statement) Statement {
	return s.appendNodes(other.nodes)
}

func (s Statement) appendNodes(nodes []ast.Node) Statement {
	out := make([]ast.Node, len(s.nodes), len(s.nodes)+len(nodes))
	copy(out, s.nodes)

	for _, n := range nodes {
		lit, ok := n.(*ast.Literal)
		if !ok {
			out = append(out, n)
			continue
		}
		if lit.Text == "" {
			continue
		}
		if last := len(out) - 1; last >= 0 {
			if prev, ok := out[last].(*ast.Literal); ok {
				out[last] = ast.NewLiteral(prev.Text + lit.Text)
				continue
			}
		}
		out = append(out, lit)
	}
	return Statement{nodes: out}
}

// Nodes returns a copy of the fragment sequence.
func (s Statement) Nodes() []ast.Node {
	return append([]ast.Node(nil), s.nodes...)
}

func (s Statement) Len() int {
	return len(s.nodes)
}

func (s Statement) IsEmpty() bool {
	return len(s.nodes) == 0
}

// Fingerprint identifies the statement's shape: its text fragments, wire
// types and grid layout. Bound values are excluded, so statements that differ
// only in values share one fingerprint.
func (s Statement) Fingerprint() uint64 {
	fp := utils.FingerprintString("stmt")
	for _, n := range s.nodes {
		if n == nil {
			fp = utils.Mix64(fp, 0)
			continue
		}
		fp = utils.Mix64(fp, n.Fingerprint())
	}
	return fp
}
