package database

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"time"
)

// SQLClient runs statements over a database/sql pool opened with
// clickhouse.OpenDB.
type SQLClient struct {
	db *sql.DB
}

func NewSQLClient(db *sql.DB) *SQLClient {
	return &SQLClient{db: db}
}

func (c *SQLClient) Query(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	rows, err := c.db.QueryContext(withParams(ctx, params), query)
	if err != nil {
		return nil, fmt.Errorf("clickhouse query: %w", err)
	}

	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		rows.Close()
		return nil, err
	}
	scanTypes := make([]reflect.Type, len(types))
	for i, ct := range types {
		scanTypes[i] = ct.ScanType()
	}
	return collect(rows, columns, scanTypes)
}

func (c *SQLClient) Command(ctx context.Context, query string, params map[string]any) error {
	if _, err := c.db.ExecContext(withParams(ctx, params), query); err != nil {
		return fmt.Errorf("clickhouse exec: %w", err)
	}
	return nil
}

func (c *SQLClient) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }

func (c *SQLClient) Close() error { return c.db.Close() }

// SetPool applies pool limits. Zero values keep the database/sql defaults.
func (c *SQLClient) SetPool(maxOpen, maxIdle int, maxLifetime time.Duration) {
	if maxOpen > 0 {
		c.db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		c.db.SetMaxIdleConns(maxIdle)
	}
	if maxLifetime > 0 {
		c.db.SetConnMaxLifetime(maxLifetime)
	}
}

func (c *SQLClient) Stats() sql.DBStats { return c.db.Stats() }

var _ Client = (*SQLClient)(nil)
