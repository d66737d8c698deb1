package schema

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

var pluralizeClient = pluralizer.NewClient()

// NamingStrategy derives physical names for struct-backed tables.
type NamingStrategy interface {
	// ColumnName converts a Go field name to a column identifier.
	ColumnName(fieldName string) string
	// TableName converts a Go struct name to a table identifier.
	TableName(structName string) string
}

// Case is an identifier casing convention.
type Case int

const (
	SnakeCase  Case = iota // user_id, created_at
	CamelCase              // userId, createdAt
	PascalCase             // UserId, CreatedAt
)

type namingStrategy struct {
	columns Case
	tables  Case
	plural  bool
}

// NewNamingStrategy combines a column case, a table case and table
// cardinality.
func NewNamingStrategy(columns, tables Case, pluralTables bool) NamingStrategy {
	return namingStrategy{columns: columns, tables: tables, plural: pluralTables}
}

// DefaultNamingStrategy is snake_case columns and plural snake_case tables.
func DefaultNamingStrategy() NamingStrategy {
	return NewNamingStrategy(SnakeCase, SnakeCase, true)
}

func (s namingStrategy) ColumnName(fieldName string) string {
	return applyCase(fieldName, s.columns)
}

func (s namingStrategy) TableName(structName string) string {
	name := applyCase(structName, s.tables)
	if s.plural {
		name = pluralize(name)
	}
	return name
}

func applyCase(name string, c Case) string {
	switch c {
	case CamelCase:
		return toCamelCase(name)
	case PascalCase:
		return toPascalCase(name)
	default:
		return toSnakeCase(name)
	}
}

// toSnakeCase splits on case changes, keeping acronyms together:
// UserID -> user_id, HTTPRequest -> http_request, OAuth2Token -> o_auth2_token.
func toSnakeCase(name string) string {
	if !hasUpperCase(name) {
		return name
	}

	runes := []rune(name)
	var sb strings.Builder
	sb.Grow(len(name) + 4)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

func toPascalCase(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, part := range strings.Split(toSnakeCase(name), "_") {
		if part == "" {
			continue
		}
		r := []rune(part)
		sb.WriteRune(unicode.ToUpper(r[0]))
		sb.WriteString(string(r[1:]))
	}
	return sb.String()
}

func toCamelCase(name string) string {
	pascal := []rune(toPascalCase(name))
	if len(pascal) == 0 {
		return ""
	}
	pascal[0] = unicode.ToLower(pascal[0])
	return string(pascal)
}

// pluralize pluralizes the last word of an identifier.
func pluralize(name string) string {
	if name == "" {
		return ""
	}

	head, last := splitLastWord(name)
	plural := pluralizeClient.Pluralize(last, 2, false)
	return head + preserveCase(last, plural)
}

func splitLastWord(name string) (string, string) {
	if i := strings.LastIndexByte(name, '_'); i >= 0 {
		return name[:i+1], name[i+1:]
	}
	runes := []rune(name)
	for i := len(runes) - 1; i > 0; i-- {
		if unicode.IsUpper(runes[i]) && unicode.IsLower(runes[i-1]) {
			return string(runes[:i]), string(runes[i:])
		}
	}
	return "", name
}

func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// preserveCase copies the leading letter case of original onto result.
func preserveCase(original, result string) string {
	if original == "" || result == "" {
		return result
	}
	if strings.ToUpper(original) == original && len(original) > 1 {
		return strings.ToUpper(result)
	}
	r := []rune(result)
	if unicode.IsUpper([]rune(original)[0]) {
		r[0] = unicode.ToUpper(r[0])
	} else {
		r[0] = unicode.ToLower(r[0])
	}
	return string(r)
}
