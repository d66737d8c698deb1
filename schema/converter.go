package schema

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net"
	"net/netip"
	"reflect"
	"strconv"
	"time"
)

// assign stores v into dst, converting between the representations a
// ClickHouse client returns (typed natives, strings from JSON formats,
// json.Number) and the field's Go type.
func assign(dst reflect.Value, v any) error {
	if v == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}

	if dst.Kind() == reflect.Pointer && dst.Type() != bigIntType {
		elem := reflect.New(dst.Type().Elem())
		if err := assign(elem.Elem(), v); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}

	src := reflect.ValueOf(v)
	for src.Kind() == reflect.Pointer && src.Type() != bigIntType {
		if src.IsNil() {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		src = src.Elem()
	}

	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return nil
	}

	switch dst.Type() {
	case timeType:
		return assignTime(dst, src.Interface())
	case netIPType:
		return assignIP(dst, src.Interface(), false)
	case addrType:
		return assignIP(dst, src.Interface(), true)
	case bigIntType:
		b, ok := new(big.Int).SetString(fmt.Sprint(src.Interface()), 10)
		if !ok {
			return convertError(v, dst.Type())
		}
		dst.Set(reflect.ValueOf(b))
		return nil
	}

	if sameFamily(src.Kind(), dst.Kind()) {
		dst.Set(src.Convert(dst.Type()))
		return nil
	}

	text, ok := textOf(src)
	if !ok {
		return convertError(v, dst.Type())
	}
	return assignText(dst, text)
}

func sameFamily(a, b reflect.Kind) bool {
	fa, fb := kindFamily(a), kindFamily(b)
	return fa != 0 && fa == fb || fa == 'n' && fb == 'f' || fa == 'f' && fb == 'n'
}

func kindFamily(k reflect.Kind) byte {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return 'n'
	case reflect.Float32, reflect.Float64:
		return 'f'
	case reflect.String:
		return 's'
	case reflect.Bool:
		return 'b'
	}
	return 0
}

func textOf(src reflect.Value) (string, bool) {
	switch s := src.Interface().(type) {
	case json.Number:
		return s.String(), true
	case []byte:
		return string(s), true
	case fmt.Stringer:
		return s.String(), true
	}
	if src.Kind() == reflect.String {
		return src.String(), true
	}
	return "", false
}

func assignText(dst reflect.Value, text string) error {
	switch kindFamily(dst.Kind()) {
	case 's':
		dst.SetString(text)
	case 'b':
		b, err := strconv.ParseBool(text)
		if err != nil {
			return convertError(text, dst.Type())
		}
		dst.SetBool(b)
	case 'f':
		f, err := strconv.ParseFloat(text, dst.Type().Bits())
		if err != nil {
			return convertError(text, dst.Type())
		}
		dst.SetFloat(f)
	case 'n':
		if dst.CanUint() {
			n, err := strconv.ParseUint(text, 10, dst.Type().Bits())
			if err != nil {
				return convertError(text, dst.Type())
			}
			dst.SetUint(n)
			return nil
		}
		n, err := strconv.ParseInt(text, 10, dst.Type().Bits())
		if err != nil {
			return convertError(text, dst.Type())
		}
		dst.SetInt(n)
	default:
		if dst.Type() == bytesType {
			dst.SetBytes([]byte(text))
			return nil
		}
		return convertError(text, dst.Type())
	}
	return nil
}

func assignTime(dst reflect.Value, v any) error {
	var t time.Time
	switch s := v.(type) {
	case string:
		var err error
		if t, err = time.Parse(DateTimeLayout, s); err != nil {
			if t, err = time.Parse(time.RFC3339, s); err != nil {
				return convertError(v, timeType)
			}
		}
	case json.Number:
		n, err := s.Int64()
		if err != nil {
			return convertError(v, timeType)
		}
		t = time.Unix(n, 0).UTC()
	case int64:
		t = time.Unix(s, 0).UTC()
	case uint32:
		t = time.Unix(int64(s), 0).UTC()
	default:
		return convertError(v, timeType)
	}
	dst.Set(reflect.ValueOf(t))
	return nil
}

func assignIP(dst reflect.Value, v any, addr bool) error {
	var ip netip.Addr
	switch s := v.(type) {
	case string:
		var err error
		if ip, err = netip.ParseAddr(s); err != nil {
			return convertError(v, dst.Type())
		}
	case net.IP:
		var ok bool
		if ip, ok = netip.AddrFromSlice(s); !ok {
			return convertError(v, dst.Type())
		}
	case netip.Addr:
		ip = s
	default:
		return convertError(v, dst.Type())
	}
	if addr {
		dst.Set(reflect.ValueOf(ip))
	} else {
		dst.Set(reflect.ValueOf(net.IP(ip.AsSlice())))
	}
	return nil
}

func convertError(v any, to reflect.Type) error {
	return fmt.Errorf("%w: cannot convert %T(%v) to %s", ErrInvalidValue, v, v, to)
}
