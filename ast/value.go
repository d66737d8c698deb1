package ast

import (
	"math/big"
	"strconv"

	"github.com/Konsultn-Engineering/chorm/utils"
)

// DefaultWireType is used for any parameter without an explicit wire type.
const DefaultWireType = "String"

// Param binds a single value behind one placeholder.
type Param struct {
	Val      any
	WireType string
}

func NewParam(val any) *Param {
	return &Param{Val: val, WireType: DefaultWireType}
}

func NewTypedParam(val any, wireType string) *Param {
	if wireType == "" {
		wireType = DefaultWireType
	}
	return &Param{Val: val, WireType: wireType}
}

func (p *Param) Type() NodeType         { return NodeParam }
func (p *Param) Accept(v Visitor) error { return v.VisitParam(p) }

// Fingerprint covers the wire type only. Values are rebound per compile.
func (p *Param) Fingerprint() uint64 {
	return utils.FingerprintString("param:" + p.WireType)
}

// Stringify converts primitive scalars to their parameter text. nil stays nil
// so a null is never confused with a string. The second result is false for
// anything that is not a primitive; such values are returned unchanged.
func Stringify(v any) (any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, true
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.FormatInt(int64(val), 10), true
	case int8:
		return strconv.FormatInt(int64(val), 10), true
	case int16:
		return strconv.FormatInt(int64(val), 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint:
		return strconv.FormatUint(uint64(val), 10), true
	case uint8:
		return strconv.FormatUint(uint64(val), 10), true
	case uint16:
		return strconv.FormatUint(uint64(val), 10), true
	case uint32:
		return strconv.FormatUint(uint64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case *big.Int:
		if val == nil {
			return nil, true
		}
		return val.String(), true
	default:
		return v, false
	}
}
