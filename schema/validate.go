package schema

import (
	"fmt"
	"math/big"
	"net"
	"net/netip"
	"reflect"
	"slices"
	"strconv"
	"time"

	"github.com/Konsultn-Engineering/chorm/ast"
)

// DateTimeLayout is the text form ClickHouse accepts for DateTime values.
const DateTimeLayout = time.DateTime

// Validate checks a Go value against the column's type. nil is accepted only
// for nullable columns. String values are parsed the way ClickHouse would
// parse a bound parameter.
func (c Column) Validate(v any) error {
	if v == nil {
		if c.nullable {
			return nil
		}
		return fmt.Errorf("%w: null for non-nullable %s", ErrInvalidValue, c.typ.Name())
	}
	if ast.IsDefault(v) {
		return nil
	}

	var ok bool
	switch c.typ.Kind {
	case KindString:
		ok = isStringish(v)
	case KindFixedString:
		ok = validFixedString(v, c.typ.Size)
	case KindUInt:
		ok = validUInt(v, c.typ.Size)
	case KindFloat:
		ok = validFloat(v)
	case KindIPv6:
		ok = validIP(v)
	case KindDateTime:
		ok = validDateTime(v)
	case KindEnum:
		s, isStr := v.(string)
		ok = isStr && slices.Contains(c.typ.Labels(), s)
	}
	if !ok {
		return fmt.Errorf("%w: %T(%v) for %s", ErrInvalidValue, v, v, c.WireType())
	}
	return nil
}

// ValidateRow validates every present field of row and rejects fields the
// table does not declare.
func (t *Table) ValidateRow(row Row) error {
	for name, v := range row {
		col, ok := t.Column(name)
		if !ok {
			return fmt.Errorf("%w: %s.%s", ErrUnknownField, t.identifier, name)
		}
		if err := col.Validate(v); err != nil {
			return fmt.Errorf("%s.%s: %w", t.identifier, name, err)
		}
	}
	return nil
}

func isStringish(v any) bool {
	switch v.(type) {
	case string, []byte:
		return true
	}
	return reflect.ValueOf(v).Kind() == reflect.String
}

func validFixedString(v any, n int) bool {
	switch s := v.(type) {
	case string:
		return len(s) <= n
	case []byte:
		return len(s) <= n
	}
	return false
}

func validUInt(v any, bits int) bool {
	switch n := v.(type) {
	case *big.Int:
		return n != nil && n.Sign() >= 0 && n.BitLen() <= bits
	case string:
		b, ok := new(big.Int).SetString(n, 10)
		return ok && b.Sign() >= 0 && b.BitLen() <= bits
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		return i >= 0 && (bits >= 64 || uint64(i) < 1<<bits)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return bits >= 64 || rv.Uint() < 1<<bits
	}
	return false
}

func validFloat(v any) bool {
	if s, ok := v.(string); ok {
		_, err := strconv.ParseFloat(s, 64)
		return err == nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func validIP(v any) bool {
	switch ip := v.(type) {
	case net.IP:
		return len(ip) == net.IPv4len || len(ip) == net.IPv6len
	case netip.Addr:
		return ip.IsValid()
	case string:
		_, err := netip.ParseAddr(ip)
		return err == nil
	}
	return false
}

func validDateTime(v any) bool {
	switch t := v.(type) {
	case time.Time:
		return !t.IsZero()
	case string:
		if _, err := time.Parse(DateTimeLayout, t); err == nil {
			return true
		}
		_, err := time.Parse(time.RFC3339, t)
		return err == nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
