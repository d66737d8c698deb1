package database

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

var ErrClosed = errors.New("client is closed")

// Client executes compiled statements. params maps placeholder names
// (param0, param1, ...) to values; adapters render them into ClickHouse
// query parameters.
type Client interface {
	// Query runs a statement that returns rows, each keyed by physical column
	// name.
	Query(ctx context.Context, sql string, params map[string]any) ([]map[string]any, error)
	// Command runs a statement that returns no rows.
	Command(ctx context.Context, sql string, params map[string]any) error
	Ping(ctx context.Context) error
	Close() error
}

// Rows is the cursor shape shared by the native and database/sql drivers.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// collect drains rows into maps. scanTypes holds one Go type per column; a nil
// entry scans into any. Nullable columns scan into pointers, which are
// flattened to nil or the pointed-to value.
func collect(rows Rows, columns []string, scanTypes []reflect.Type) ([]map[string]any, error) {
	defer rows.Close()

	out := make([]map[string]any, 0, 16)
	dest := make([]any, len(columns))
	for rows.Next() {
		for i, t := range scanTypes {
			if t == nil {
				t = anyType
			}
			dest[i] = reflect.New(t).Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(out), err)
		}

		row := make(map[string]any, len(columns))
		for i, name := range columns {
			row[name] = flatten(reflect.ValueOf(dest[i]).Elem())
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(v reflect.Value) any {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}
