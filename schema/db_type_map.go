package schema

import (
	"fmt"
	"math/big"
	"net"
	"net/netip"
	"reflect"
	"time"
)

var (
	timeType   = reflect.TypeOf(time.Time{})
	netIPType  = reflect.TypeOf(net.IP{})
	addrType   = reflect.TypeOf(netip.Addr{})
	bigIntType = reflect.TypeOf(&big.Int{})
	bytesType  = reflect.TypeOf([]byte(nil))
	rowType    = reflect.TypeOf(Row{})
	anyMapType = reflect.TypeOf(map[string]any{})
)

// goTypeColumns maps Go kinds with a single natural ClickHouse type.
var goTypeColumns = map[reflect.Kind]func() Column{
	reflect.String:  String,
	reflect.Uint8:   func() Column { return UInt(8) },
	reflect.Uint16:  func() Column { return UInt(16) },
	reflect.Uint32:  func() Column { return UInt(32) },
	reflect.Uint64:  func() Column { return UInt(64) },
	reflect.Uint:    func() Column { return UInt(64) },
	reflect.Float32: func() Column { return Float(32) },
	reflect.Float64: func() Column { return Float(64) },
}

// InferColumn picks a column type for a Go type. Pointer types become
// nullable columns. Signed integers have no unsigned counterpart that keeps
// their range and need an explicit type.
func InferColumn(t reflect.Type, timezone string) (Column, error) {
	nullable := false
	if t.Kind() == reflect.Pointer && t != bigIntType {
		t = t.Elem()
		nullable = true
	}

	var col Column
	switch {
	case t == timeType:
		col = DateTime(timezone)
	case t == netIPType || t == addrType:
		col = IPv6()
	case t == bigIntType:
		col = UInt(256)
	case t == bytesType:
		col = String()
	default:
		ctor, ok := goTypeColumns[t.Kind()]
		if !ok {
			return Column{}, fmt.Errorf("%w: Go type %s needs an explicit type option", ErrUnsupportedType, t)
		}
		col = ctor()
	}

	if nullable {
		col = col.Nullable()
	}
	return col, col.Err()
}
