package database

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// NativeClient runs statements over a clickhouse-go native connection.
type NativeClient struct {
	conn   driver.Conn
	closed atomic.Bool
}

func NewNativeClient(conn driver.Conn) *NativeClient {
	return &NativeClient{conn: conn}
}

func withParams(ctx context.Context, params map[string]any) context.Context {
	if len(params) == 0 {
		return ctx
	}
	return clickhouse.Context(ctx, clickhouse.WithParameters(Parameters(params)))
}

func (c *NativeClient) Query(ctx context.Context, sql string, params map[string]any) ([]map[string]any, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	rows, err := c.conn.Query(withParams(ctx, params), sql)
	if err != nil {
		return nil, fmt.Errorf("clickhouse query: %w", err)
	}

	types := rows.ColumnTypes()
	columns := make([]string, len(types))
	scanTypes := make([]reflect.Type, len(types))
	for i, ct := range types {
		columns[i] = ct.Name()
		scanTypes[i] = ct.ScanType()
	}
	return collect(rows, columns, scanTypes)
}

func (c *NativeClient) Command(ctx context.Context, sql string, params map[string]any) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if err := c.conn.Exec(withParams(ctx, params), sql); err != nil {
		return fmt.Errorf("clickhouse exec: %w", err)
	}
	return nil
}

func (c *NativeClient) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Stats reports the driver's connection pool usage.
func (c *NativeClient) Stats() driver.Stats {
	return c.conn.Stats()
}

// ServerVersion reports the connected server's version string.
func (c *NativeClient) ServerVersion() (string, error) {
	v, err := c.conn.ServerVersion()
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func (c *NativeClient) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.conn.Close()
}

var _ Client = (*NativeClient)(nil)
