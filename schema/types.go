package schema

import (
	"strconv"
	"strings"
)

// Kind is the family of a column's data type.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindFixedString
	KindUInt
	KindFloat
	KindIPv6
	KindDateTime
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindFixedString:
		return "FixedString"
	case KindUInt:
		return "UInt"
	case KindFloat:
		return "Float"
	case KindIPv6:
		return "IPv6"
	case KindDateTime:
		return "DateTime"
	case KindEnum:
		return "Enum"
	default:
		return "Unknown"
	}
}

// Supported widths. The first entry of each list is not the default; see
// DefaultUIntSize, DefaultFloatSize and DefaultEnumSize.
var (
	UIntSizes  = []int{8, 16, 32, 64, 128, 256}
	FloatSizes = []int{32, 64}
	EnumSizes  = []int{8, 16}
)

const (
	DefaultUIntSize  = 32
	DefaultFloatSize = 32
	DefaultEnumSize  = 8
)

// EnumValue is one label of an enum column and its stored code.
type EnumValue struct {
	Label string `json:"label" yaml:"label" mapstructure:"label"`
	Code  int    `json:"code" yaml:"code" mapstructure:"code"`
}

// DataType describes a column's ClickHouse type.
type DataType struct {
	Kind Kind
	// Size is the bit width for UInt, Float and Enum, and the byte length for
	// FixedString.
	Size     int
	Timezone string
	Values   []EnumValue
}

// Name is the short type tag, e.g. "UInt64", "Enum8", "DateTime".
func (t DataType) Name() string {
	switch t.Kind {
	case KindUInt, KindFloat, KindEnum:
		return t.Kind.String() + strconv.Itoa(t.Size)
	default:
		return t.Kind.String()
	}
}

// WireType is the full ClickHouse type, including length, timezone or enum
// labels.
func (t DataType) WireType() string {
	switch t.Kind {
	case KindFixedString:
		return "FixedString(" + strconv.Itoa(t.Size) + ")"
	case KindDateTime:
		if t.Timezone == "" {
			return "DateTime"
		}
		return "DateTime(" + quoteString(t.Timezone) + ")"
	case KindEnum:
		var sb strings.Builder
		sb.WriteString(t.Name())
		sb.WriteByte('(')
		for i, v := range t.Values {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(quoteString(v.Label))
			sb.WriteString(" = ")
			sb.WriteString(strconv.Itoa(v.Code))
		}
		sb.WriteByte(')')
		return sb.String()
	default:
		return t.Name()
	}
}

// Orderable reports whether range operators (gt, gte, lt, lte, between) apply.
func (t DataType) Orderable() bool {
	switch t.Kind {
	case KindUInt, KindFloat, KindDateTime:
		return true
	default:
		return false
	}
}

// Labels returns the enum labels in declaration order.
func (t DataType) Labels() []string {
	labels := make([]string, len(t.Values))
	for i, v := range t.Values {
		labels[i] = v.Label
	}
	return labels
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteString(s string) string {
	return "'" + quoteEscaper.Replace(s) + "'"
}
