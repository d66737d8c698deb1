package database

import (
	"math/big"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFormatParam(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"Nil", nil, `\N`},
		{"NullLookalike", `\N`, `\\N`},
		{"String", "it's", "it's"},
		{"Backslash", `C:\new`, `C:\\new`},
		{"ControlChars", "a\tb\nc\r", `a\tb\nc\r`},
		{"Bool", true, "true"},
		{"Int", -42, "-42"},
		{"Uint64", uint64(18446744073709551615), "18446744073709551615"},
		{"Float", 1.25, "1.25"},
		{"BigInt", new(big.Int).Lsh(big.NewInt(1), 100), "1267650600228229401496703205376"},
		{"Time", ts, "1714564800"},
		{"NilTimePtr", (*time.Time)(nil), `\N`},
		{"NilBigInt", (*big.Int)(nil), `\N`},
		{"NetIP", net.ParseIP("10.0.0.1"), "10.0.0.1"},
		{"Addr", netip.MustParseAddr("::1"), "::1"},
		{"Bytes", []byte("raw\\"), `raw\\`},
		{"Stringer", id, "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{"Array", []any{"a'b", 1, nil, true}, `['a\\'b',1,NULL,true]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatParam(tt.in))
		})
	}
}

func TestParameters(t *testing.T) {
	params := Parameters(map[string]any{"param0": uint64(7), "param1": nil, "param2": "x"})
	assert.Equal(t, "7", params["param0"])
	assert.Equal(t, `\N`, params["param1"])
	assert.Equal(t, "x", params["param2"])
	assert.Len(t, params, 3)
}

// unescapeTSV mirrors the server's parsing of escaped parameter text.
func unescapeTSV(s string) (string, bool) {
	if s == `\N` {
		return "", true
	}
	var out []byte
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			out = append(out, s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		default:
			out = append(out, s[i])
		}
	}
	return string(out), false
}

func TestFormatParamRoundTrip(t *testing.T) {
	for _, in := range []string{`C:\new`, `\N`, "tab\there", `\\`, "line\nbreak", ""} {
		got, isNull := unescapeTSV(FormatParam(in))
		assert.False(t, isNull, in)
		assert.Equal(t, in, got)
	}

	_, isNull := unescapeTSV(FormatParam(nil))
	assert.True(t, isNull)
}
