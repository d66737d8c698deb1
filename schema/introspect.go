package schema

import (
	"fmt"
	"reflect"
	"sync"
)

var entityCache sync.Map // map[reflect.Type]*EntityMeta, default options only

type options struct {
	naming    NamingStrategy
	tableName string
}

// Option customizes struct introspection.
type Option func(*options)

// WithNamingStrategy sets how field and struct names become identifiers.
func WithNamingStrategy(strategy NamingStrategy) Option {
	return func(o *options) { o.naming = strategy }
}

// WithTableName overrides the table identifier.
func WithTableName(name string) Option {
	return func(o *options) { o.tableName = name }
}

// Introspect returns the mapping metadata for a struct type. Results built
// with default options are cached.
func Introspect(t reflect.Type, opts ...Option) (*EntityMeta, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrUnsupportedType, t)
	}

	if len(opts) == 0 {
		if meta, ok := entityCache.Load(t); ok {
			return meta.(*EntityMeta), nil
		}
	}

	o := &options{naming: DefaultNamingStrategy()}
	for _, opt := range opts {
		opt(o)
	}

	meta, err := buildMeta(t, o)
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		actual, _ := entityCache.LoadOrStore(t, meta)
		meta = actual.(*EntityMeta)
	}
	return meta, nil
}

// FromStruct builds a table from a tagged struct. v may be a struct value, a
// pointer to one, or a reflect.Type.
func FromStruct(v any, opts ...Option) (*Table, error) {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedType)
	}
	meta, err := Introspect(t, opts...)
	if err != nil {
		return nil, err
	}
	return meta.Table, nil
}

// MustFromStruct is FromStruct that panics on error.
func MustFromStruct(v any, opts ...Option) *Table {
	t, err := FromStruct(v, opts...)
	if err != nil {
		panic(err)
	}
	return t
}
