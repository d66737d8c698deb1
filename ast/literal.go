package ast

import "github.com/Konsultn-Engineering/chorm/utils"

// Literal is trusted SQL text written by the statement generators.
type Literal struct {
	Text string
}

func NewLiteral(text string) *Literal {
	return &Literal{Text: text}
}

func (l *Literal) Type() NodeType         { return NodeLiteral }
func (l *Literal) Accept(v Visitor) error { return v.VisitLiteral(l) }
func (l *Literal) Fingerprint() uint64 {
	return utils.FingerprintString("lit:" + l.Text)
}

// Raw is injected verbatim. Never build one from user input.
type Raw struct {
	Text string
}

func NewRaw(text string) *Raw {
	return &Raw{Text: text}
}

func (r *Raw) Type() NodeType         { return NodeRaw }
func (r *Raw) Accept(v Visitor) error { return v.VisitRaw(r) }
func (r *Raw) Fingerprint() uint64 {
	return utils.FingerprintString("raw:" + r.Text)
}

// Default renders the dialect's "use the column default" keyword. It is also
// accepted as a ParamGrid cell.
type Default struct{}

// DefaultValue is the shared Default marker.
var DefaultValue = &Default{}

func (d *Default) Type() NodeType         { return NodeDefault }
func (d *Default) Accept(v Visitor) error { return v.VisitDefault(d) }
func (d *Default) Fingerprint() uint64 {
	return utils.FingerprintString("default")
}

// IsDefault reports whether a grid cell is the Default marker.
func IsDefault(v any) bool {
	switch v.(type) {
	case *Default, Default:
		return true
	default:
		return false
	}
}
