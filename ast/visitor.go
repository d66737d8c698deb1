package ast

type Visitor interface {
	VisitLiteral(*Literal) error
	VisitIdentifier(*Identifier) error
	VisitRaw(*Raw) error
	VisitDefault(*Default) error
	VisitParam(*Param) error
	VisitParamGrid(*ParamGrid) error
}
