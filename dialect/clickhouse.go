package dialect

import (
	"fmt"
	"math/big"
	"net"
	"reflect"
	"strconv"
	"strings"
	"time"
)

type ClickHouse struct{}

func NewClickHouseDialect() Dialect {
	return &ClickHouse{}
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// QuoteIdentifier wraps name in backticks, doubling any backtick inside it so
// the name cannot leave the quoted context.
func (c ClickHouse) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (c ClickHouse) Placeholder(n int, wireType string) string {
	return "{" + c.ParamName(n) + ":" + wireType + "}"
}

func (c ClickHouse) ParamName(n int) string {
	return "param" + strconv.Itoa(n)
}

func (c ClickHouse) DefaultKeyword() string {
	return "DEFAULT"
}

func (ClickHouse) RenderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + stringEscaper.Replace(val) + "'"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", val)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(val).Float(), 'f', -1, 64)
	case *big.Int:
		return val.String()
	case time.Time:
		return "'" + val.Format(time.DateTime) + "'"
	case net.IP:
		return "'" + val.String() + "'"
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = ClickHouse{}.RenderValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "'" + stringEscaper.Replace(fmt.Sprint(val)) + "'"
	}
}
