package ast

import "github.com/Konsultn-Engineering/chorm/utils"

// Identifier is a table or column name. The dialect quotes it at compile time.
type Identifier struct {
	Name string
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{Name: name}
}

func (i *Identifier) Type() NodeType         { return NodeIdentifier }
func (i *Identifier) Accept(v Visitor) error { return v.VisitIdentifier(i) }
func (i *Identifier) Fingerprint() uint64 {
	return utils.FingerprintString("ident:" + i.Name)
}
