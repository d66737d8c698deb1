package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// TagName is the struct tag key read by FromStruct and RowsFrom.
const TagName = "ch"

// ParsedTag is the decoded form of a `ch` struct tag.
type ParsedTag struct {
	ColumnName string // physical column name
	Skip       bool   // ch:"-"
	Type       string // ClickHouse type override, e.g. UInt64, Enum8
	Size       int    // width or FixedString length
	Timezone   string
	Enum       []string
	Nullable   bool
	OmitEmpty  bool // zero values are left absent so defaults apply

	Default    string
	HasDefault bool
	Generator  string
}

// TagParser parses and caches `ch` struct tags.
type TagParser struct {
	namingStrategy NamingStrategy
	cache          map[string]*ParsedTag
	cacheMu        sync.RWMutex
}

func NewTagParser(namingStrategy NamingStrategy) *TagParser {
	if namingStrategy == nil {
		namingStrategy = DefaultNamingStrategy()
	}
	return &TagParser{
		namingStrategy: namingStrategy,
		cache:          make(map[string]*ParsedTag, 64),
	}
}

// ParseTag parses the `ch` tag of a field.
//
// Supported syntax:
//
//	`ch:"user_id"`                              // column name
//	`ch:"user_id;type:UInt64;default:0"`        // name followed by options
//	`ch:"column:ip;type:IPv6;nullable"`         // explicit column option
//	`ch:"type:Enum8;enum:web|mobile;omitempty"` // enum labels
//	`ch:"generator:uuid"`                       // per-row default
//	`ch:"-"`                                    // skip field
func (p *TagParser) ParseTag(fieldName string, tag reflect.StructTag) (*ParsedTag, error) {
	value, ok := tag.Lookup(TagName)
	if !ok || value == "" {
		return &ParsedTag{ColumnName: p.namingStrategy.ColumnName(fieldName)}, nil
	}

	key := fieldName + ":" + value
	p.cacheMu.RLock()
	cached, ok := p.cache[key]
	p.cacheMu.RUnlock()
	if ok {
		return cached, nil
	}

	parsed, err := p.parseTagValue(fieldName, value)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", fieldName, err)
	}

	p.cacheMu.Lock()
	p.cache[key] = parsed
	p.cacheMu.Unlock()
	return parsed, nil
}

func (p *TagParser) parseTagValue(fieldName, value string) (*ParsedTag, error) {
	if value == "-" {
		return &ParsedTag{Skip: true}, nil
	}

	parsed := &ParsedTag{ColumnName: p.namingStrategy.ColumnName(fieldName)}
	for i, option := range strings.Split(value, ";") {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}
		if k, v, found := strings.Cut(option, ":"); found {
			if err := parseKeyValue(parsed, strings.TrimSpace(k), strings.TrimSpace(v)); err != nil {
				return nil, err
			}
			continue
		}
		if !parseFlag(parsed, option) && i == 0 {
			parsed.ColumnName = option
		}
	}
	return parsed, nil
}

func parseFlag(tag *ParsedTag, flag string) bool {
	switch flag {
	case "nullable", "null":
		tag.Nullable = true
	case "omitempty":
		tag.OmitEmpty = true
	default:
		return false
	}
	return true
}

func parseKeyValue(tag *ParsedTag, key, value string) error {
	switch key {
	case "column", "name":
		tag.ColumnName = value
	case "type":
		tag.Type = value
	case "size", "length":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid %s value %q: must be a non-negative integer", key, value)
		}
		tag.Size = n
	case "tz", "timezone":
		tag.Timezone = value
	case "default":
		tag.Default = value
		tag.HasDefault = true
	case "generator", "gen":
		tag.Generator = value
	case "enum":
		sep := ","
		if strings.Contains(value, "|") {
			sep = "|"
		}
		tag.Enum = strings.Split(value, sep)
		for i, v := range tag.Enum {
			tag.Enum[i] = strings.TrimSpace(v)
		}
	}
	return nil
}

// ParseColumn builds a column from a type name as written in tags and table
// specs. The width may be embedded in the name (UInt64, Enum16) or passed as
// size (UInt with size 64). FixedString takes its length from size.
func ParseColumn(typeName string, size int, timezone string, labels []string) (Column, error) {
	name := strings.ToLower(strings.TrimSpace(typeName))
	width := func(prefix string) (int, error) {
		rest := strings.TrimPrefix(name, prefix)
		if rest == "" {
			return size, nil
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrUnsupportedType, typeName)
		}
		return n, nil
	}

	var col Column
	switch {
	case name == "string":
		col = String()
	case name == "fixedstring":
		col = FixedString(size)
	case name == "ipv6":
		col = IPv6()
	case name == "datetime":
		col = DateTime(timezone)
	case strings.HasPrefix(name, "uint"):
		bits, err := width("uint")
		if err != nil {
			return Column{}, err
		}
		col = UInt(bits)
	case strings.HasPrefix(name, "float"):
		bits, err := width("float")
		if err != nil {
			return Column{}, err
		}
		col = Float(bits)
	case strings.HasPrefix(name, "enum"):
		bits, err := width("enum")
		if err != nil {
			return Column{}, err
		}
		col = EnumSized(bits, labels...)
	default:
		return Column{}, fmt.Errorf("%w: %q", ErrUnsupportedType, typeName)
	}
	return col, col.Err()
}

// ParseDefault converts a default written as text into a value of the
// column's Go representation.
func ParseDefault(col Column, text string) (any, error) {
	switch col.Type().Kind {
	case KindUInt:
		if col.Type().Size <= 64 {
			n, err := strconv.ParseUint(text, 10, col.Type().Size)
			if err != nil {
				return nil, fmt.Errorf("%w: default %q: %v", ErrInvalidValue, text, err)
			}
			return n, nil
		}
	case KindFloat:
		f, err := strconv.ParseFloat(text, col.Type().Size)
		if err != nil {
			return nil, fmt.Errorf("%w: default %q: %v", ErrInvalidValue, text, err)
		}
		return f, nil
	}
	if err := col.Validate(text); err != nil {
		return nil, fmt.Errorf("default %q: %w", text, err)
	}
	return text, nil
}

func (p *TagParser) ClearCache() {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	clear(p.cache)
}
