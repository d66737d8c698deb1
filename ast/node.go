package ast

type NodeType int

const (
	NodeLiteral NodeType = iota
	NodeIdentifier
	NodeRaw
	NodeDefault
	NodeParam
	NodeParamGrid
)

func (t NodeType) String() string {
	switch t {
	case NodeLiteral:
		return "literal"
	case NodeIdentifier:
		return "identifier"
	case NodeRaw:
		return "raw"
	case NodeDefault:
		return "default"
	case NodeParam:
		return "param"
	case NodeParamGrid:
		return "param_grid"
	default:
		return "unknown"
	}
}

// Node is one SQL fragment. Nodes are immutable once constructed and may be
// shared between statements.
type Node interface {
	Type() NodeType
	Accept(v Visitor) error
	Fingerprint() uint64
}

// IsText reports whether n renders to plain SQL text without introducing a
// placeholder.
func IsText(n Node) bool {
	switch n.Type() {
	case NodeLiteral, NodeIdentifier, NodeRaw, NodeDefault:
		return true
	default:
		return false
	}
}
