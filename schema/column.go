package schema

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// DefaultFunc produces a column default for one row. It is invoked once per
// inserted row that leaves the column absent.
type DefaultFunc func() (any, error)

// Column is a column definition. Columns are values: every modifier returns a
// new Column and leaves the receiver untouched.
//
// Constructor argument errors are recorded on the column and reported by
// NewTable, so definitions can be chained without intermediate checks.
type Column struct {
	typ        DataType
	identifier string
	nullable   bool
	hasDefault bool
	staticDef  any
	genDef     DefaultFunc
	err        error
}

// String declares a variable-length string column.
func String() Column {
	return Column{typ: DataType{Kind: KindString}}
}

// FixedString declares a fixed-length string column of n bytes.
func FixedString(n int) Column {
	c := Column{typ: DataType{Kind: KindFixedString, Size: n}}
	if n <= 0 {
		c.err = fmt.Errorf("%w: FixedString(%d)", ErrInvalidLength, n)
	}
	return c
}

// UInt declares an unsigned integer column. A zero width selects
// DefaultUIntSize.
func UInt(bits int) Column {
	if bits == 0 {
		bits = DefaultUIntSize
	}
	c := Column{typ: DataType{Kind: KindUInt, Size: bits}}
	if !slices.Contains(UIntSizes, bits) {
		c.err = fmt.Errorf("%w: UInt%d", ErrInvalidWidth, bits)
	}
	return c
}

// Float declares a floating point column. A zero width selects
// DefaultFloatSize.
func Float(bits int) Column {
	if bits == 0 {
		bits = DefaultFloatSize
	}
	c := Column{typ: DataType{Kind: KindFloat, Size: bits}}
	if !slices.Contains(FloatSizes, bits) {
		c.err = fmt.Errorf("%w: Float%d", ErrInvalidWidth, bits)
	}
	return c
}

// IPv6 declares an IPv6 address column.
func IPv6() Column {
	return Column{typ: DataType{Kind: KindIPv6}}
}

// DateTime declares a second-precision timestamp column. An empty timezone
// leaves the server default in effect.
func DateTime(timezone string) Column {
	c := Column{typ: DataType{Kind: KindDateTime, Timezone: timezone}}
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			c.err = fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, timezone, err)
		}
	}
	return c
}

// Enum declares an Enum8 column. Labels get codes 1..n in declaration order.
func Enum(labels ...string) Column {
	return EnumSized(DefaultEnumSize, labels...)
}

// EnumSized declares an enum column of the given width (8 or 16, zero means
// DefaultEnumSize) with implicit codes 1..n.
func EnumSized(bits int, labels ...string) Column {
	values := make([]EnumValue, len(labels))
	for i, l := range labels {
		values[i] = EnumValue{Label: l, Code: i + 1}
	}
	return EnumValues(bits, values...)
}

// EnumValues declares an enum column with explicit codes.
func EnumValues(bits int, values ...EnumValue) Column {
	if bits == 0 {
		bits = DefaultEnumSize
	}
	c := Column{typ: DataType{Kind: KindEnum, Size: bits, Values: slices.Clone(values)}}
	c.err = validateEnum(bits, values)
	return c
}

func validateEnum(bits int, values []EnumValue) error {
	if !slices.Contains(EnumSizes, bits) {
		return fmt.Errorf("%w: Enum%d", ErrInvalidWidth, bits)
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: no labels", ErrInvalidEnum)
	}
	lo, hi := math.MinInt8, math.MaxInt8
	if bits == 16 {
		lo, hi = math.MinInt16, math.MaxInt16
	}
	if len(values) > hi-lo+1 {
		return fmt.Errorf("%w: %d labels exceed Enum%d", ErrInvalidEnum, len(values), bits)
	}
	labels := make(map[string]struct{}, len(values))
	codes := make(map[int]struct{}, len(values))
	for _, v := range values {
		if _, dup := labels[v.Label]; dup {
			return fmt.Errorf("%w: duplicate label %q", ErrInvalidEnum, v.Label)
		}
		if _, dup := codes[v.Code]; dup {
			return fmt.Errorf("%w: duplicate code %d", ErrInvalidEnum, v.Code)
		}
		if v.Code < lo || v.Code > hi {
			return fmt.Errorf("%w: code %d out of Enum%d range", ErrInvalidEnum, v.Code, bits)
		}
		labels[v.Label] = struct{}{}
		codes[v.Code] = struct{}{}
	}
	return nil
}

// Nullable returns a copy of the column that accepts null.
func (c Column) Nullable() Column {
	c.nullable = true
	return c
}

// Default returns a copy of the column with a server-side static default.
// Inserts that leave the column absent emit DEFAULT.
func (c Column) Default(v any) Column {
	c.hasDefault = true
	c.staticDef = v
	c.genDef = nil
	return c
}

// DefaultFunc returns a copy of the column whose absent values are produced by
// fn, once per row.
func (c Column) DefaultFunc(fn DefaultFunc) Column {
	c.hasDefault = fn != nil
	c.staticDef = nil
	c.genDef = fn
	return c
}

// Identifier returns a copy of the column stored under a different physical
// name.
func (c Column) Identifier(name string) Column {
	c.identifier = name
	return c
}

func (c Column) Type() DataType { return c.typ }
func (c Column) DeclaredIdentifier() string { return c.identifier }
func (c Column) IsNullable() bool { return c.nullable }
func (c Column) HasDefault() bool { return c.hasDefault }
func (c Column) Generator() DefaultFunc { return c.genDef }
func (c Column) Err() error { return c.err }

// StaticDefault returns the static default, if the column has one.
func (c Column) StaticDefault() (any, bool) {
	return c.staticDef, c.hasDefault && c.genDef == nil
}

// WireType is the full ClickHouse column type, wrapped in Nullable when the
// column accepts null.
func (c Column) WireType() string {
	return c.wrap(c.typ.WireType())
}

// BindType is the type used for placeholders bound to this column. Enums bind
// by label.
func (c Column) BindType() string {
	if c.typ.Kind == KindEnum {
		return c.wrap("String")
	}
	return c.wrap(c.typ.WireType())
}

func (c Column) wrap(t string) string {
	if c.nullable {
		return "Nullable(" + t + ")"
	}
	return t
}
