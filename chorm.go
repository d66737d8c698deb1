// Package chorm is a typed data-access layer for ClickHouse. It renders
// parameterized INSERT and SELECT statements from declared table schemas and
// runs them over clickhouse-go.
package chorm

import (
	"context"
	"fmt"

	"github.com/Konsultn-Engineering/chorm/connector"
	"github.com/Konsultn-Engineering/chorm/engine"
	"github.com/Konsultn-Engineering/chorm/schema"
)

type (
	Config    = connector.Config
	Engine    = engine.Engine
	Row       = schema.Row
	Table     = schema.Table
	Condition = engine.Condition
	FindQuery = engine.FindQuery
	Range     = engine.Range
)

const (
	Native = connector.ProtocolNative
	HTTP   = connector.ProtocolHTTP
)

// Connect opens a connection described by cfg and wraps it in an Engine.
// Closing the engine closes the connection.
func Connect(ctx context.Context, cfg Config, opts ...engine.Option) (*Engine, error) {
	conn, err := connector.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return engine.New(conn.Client(), opts...), nil
}

// ConnectFile loads a connection config from path, with CHORM_* environment
// overrides, and connects.
func ConnectFile(ctx context.Context, path string, opts ...engine.Option) (*Engine, error) {
	cfg, err := connector.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return Connect(ctx, cfg, opts...)
}
