package connector

import (
	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/Konsultn-Engineering/chorm/database"
)

// Provider opens a Connection for one wire protocol.
type Provider interface {
	Connect(opts *clickhouse.Options) (*Connection, error)
}

type nativeProvider struct{}

func (nativeProvider) Connect(opts *clickhouse.Options) (*Connection, error) {
	opts.Protocol = clickhouse.Native
	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, err
	}
	client := database.NewNativeClient(conn)
	return newConnection(client, func() ConnectionStats {
		s := client.Stats()
		return ConnectionStats{
			OpenConnections: s.Open,
			InUse:           s.Open - s.Idle,
			Idle:            s.Idle,
			MaxOpen:         s.MaxOpenConns,
		}
	}), nil
}

type httpProvider struct{}

func (httpProvider) Connect(opts *clickhouse.Options) (*Connection, error) {
	opts.Protocol = clickhouse.HTTP
	client := database.NewSQLClient(clickhouse.OpenDB(opts))
	client.SetPool(opts.MaxOpenConns, opts.MaxIdleConns, opts.ConnMaxLifetime)
	return newConnection(client, func() ConnectionStats {
		s := client.Stats()
		return ConnectionStats{
			OpenConnections: s.OpenConnections,
			InUse:           s.InUse,
			Idle:            s.Idle,
			MaxOpen:         s.MaxOpenConnections,
		}
	}), nil
}
