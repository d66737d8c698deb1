package dialect

type Dialect interface {
	QuoteIdentifier(name string) string
	// Placeholder renders the token for the n-th (0-based) parameter.
	Placeholder(n int, wireType string) string
	// ParamName is the key under which the n-th parameter is bound.
	ParamName(n int) string
	DefaultKeyword() string
	// RenderValue inlines a value for logging. Never execute its output.
	RenderValue(v any) string
}
