package schema

import "errors"

// Schema-definition errors. They are returned when a table is constructed and
// never deferred to statement time.
var (
	ErrInvalidWidth      = errors.New("invalid bit width")
	ErrInvalidEnum       = errors.New("invalid enum definition")
	ErrInvalidLength     = errors.New("invalid fixed string length")
	ErrInvalidTimezone   = errors.New("invalid timezone")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrDuplicateColumn   = errors.New("duplicate column")
	ErrUnsupportedType   = errors.New("unsupported column type")
	ErrUnknownGenerator  = errors.New("unknown default generator")
)

// Statement and data contract errors.
var (
	ErrNoColumns      = errors.New("table has no columns")
	ErrNotRowSequence = errors.New("data is not a sequence of rows")
	ErrInvalidValue   = errors.New("invalid value for column")
	ErrUnknownField   = errors.New("unknown field")
)
