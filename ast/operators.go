package ast

// Operator is a comparison keyword used by the find generator.
type Operator string

const (
	OpEqual              Operator = "="
	OpNotEqual           Operator = "!="
	OpLessThan           Operator = "<"
	OpLessThanOrEqual    Operator = "<="
	OpGreaterThan        Operator = ">"
	OpGreaterThanOrEqual Operator = ">="
)

// Set Operations
const (
	OpIn    Operator = "IN"
	OpNotIn Operator = "NOT IN"
)

// Range Operations
const (
	OpBetween Operator = "BETWEEN"
)

// Logical Operators
const (
	OpAnd = "AND"
)

// Ordering-only operators may only be applied to orderable columns.
func (o Operator) OrderingOnly() bool {
	switch o {
	case OpLessThan, OpLessThanOrEqual, OpGreaterThan, OpGreaterThanOrEqual, OpBetween:
		return true
	default:
		return false
	}
}
