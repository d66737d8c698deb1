package database

import (
	"fmt"
	"math/big"
	"net"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/Konsultn-Engineering/chorm/ast"
)

// Parameters renders bound values as ClickHouse query parameters.
func Parameters(params map[string]any) clickhouse.Parameters {
	out := make(clickhouse.Parameters, len(params))
	for name, v := range params {
		out[name] = FormatParam(v)
	}
	return out
}

// nullMarker is how a null is written in TSV-escaped parameter text.
const nullMarker = `\N`

// tsvEscaper applies the escaping the server undoes when it parses a query
// parameter, so backslashes and control characters arrive unchanged.
var tsvEscaper = strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`)

// FormatParam renders one value in the TSV-escaped text form ClickHouse parses
// for a typed query parameter. Only a real nil becomes the null marker; times
// are sent as Unix seconds so the column timezone decides their wall-clock
// reading.
func FormatParam(v any) string {
	if isNull(v) {
		return nullMarker
	}
	return tsvEscaper.Replace(paramText(v))
}

func isNull(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case *time.Time:
		return val == nil
	case *big.Int:
		return val == nil
	}
	return false
}

// paramText renders v before escaping.
func paramText(v any) string {
	if s, ok := ast.Stringify(v); ok {
		return s.(string)
	}

	switch val := v.(type) {
	case time.Time:
		return strconv.FormatInt(val.Unix(), 10)
	case *time.Time:
		return strconv.FormatInt(val.Unix(), 10)
	case net.IP:
		return val.String()
	case netip.Addr:
		return val.String()
	case []byte:
		return string(val)
	case []any:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = quoteArrayElem(e)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case fmt.Stringer:
		return val.String()
	}
	return fmt.Sprint(v)
}

var arrayEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteArrayElem(v any) string {
	if isNull(v) {
		return "NULL"
	}
	switch v.(type) {
	case string, []byte, net.IP, netip.Addr:
		return "'" + arrayEscaper.Replace(paramText(v)) + "'"
	}
	if _, ok := ast.Stringify(v); ok {
		return paramText(v)
	}
	if _, ok := v.(fmt.Stringer); ok {
		return "'" + arrayEscaper.Replace(paramText(v)) + "'"
	}
	return paramText(v)
}
