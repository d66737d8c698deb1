package query

import (
	"maps"
	"regexp"
	"strconv"

	"github.com/Konsultn-Engineering/chorm/dialect"
)

// Compiled is final SQL text plus the values bound to its placeholders.
type Compiled struct {
	SQL    string         `json:"sql"`
	Params map[string]any `json:"params"`
}

// Clone returns a copy whose Params map can be modified freely.
func (c Compiled) Clone() Compiled {
	return Compiled{SQL: c.SQL, Params: maps.Clone(c.Params)}
}

var placeholderPattern = regexp.MustCompile(`\{(param[0-9]+):[^{}]*\}`)

// Interpolate inlines every parameter into the SQL text for logging and
// debugging. The result is not safe to execute.
func (c Compiled) Interpolate(d dialect.Dialect) string {
	return placeholderPattern.ReplaceAllStringFunc(c.SQL, func(token string) string {
		name := placeholderPattern.FindStringSubmatch(token)[1]
		val, ok := c.Params[name]
		if !ok {
			return token
		}
		return d.RenderValue(val)
	})
}

// Placeholders returns the number of parameters bound by the statement.
func (c Compiled) Placeholders() int {
	return len(c.Params)
}

// ParamNames returns the bound parameter names in id order.
func (c Compiled) ParamNames(d dialect.Dialect) []string {
	names := make([]string, 0, len(c.Params))
	for i := 0; ; i++ {
		name := d.ParamName(i)
		if _, ok := c.Params[name]; !ok {
			return names
		}
		names = append(names, name)
	}
}

func (c Compiled) String() string {
	return c.SQL + " [" + strconv.Itoa(len(c.Params)) + " params]"
}
