package connector

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/Konsultn-Engineering/chorm/database"
	"github.com/Konsultn-Engineering/chorm/dialect"
)

// Connection is an opened client plus the metadata needed to drive it.
type Connection struct {
	client  database.Client
	dialect dialect.Dialect
	stats   func() ConnectionStats
}

func newConnection(client database.Client, stats func() ConnectionStats) *Connection {
	return &Connection{
		client:  client,
		dialect: dialect.NewClickHouseDialect(),
		stats:   stats,
	}
}

func (c *Connection) Client() database.Client { return c.client }

func (c *Connection) Dialect() dialect.Dialect { return c.dialect }

func (c *Connection) Health(ctx context.Context) error {
	return c.client.Ping(ctx)
}

func (c *Connection) Stats() ConnectionStats {
	if c.stats == nil {
		return ConnectionStats{}
	}
	return c.stats()
}

func (c *Connection) Close() error {
	return c.client.Close()
}

type options struct {
	logger *slog.Logger
}

type Option func(*options)

// WithLogger receives retry warnings while connecting.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// ClientOptions converts cfg into clickhouse-go options.
func ClientOptions(cfg Config) (*clickhouse.Options, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// net/url rejects a bracketed IPv6 host followed by more addresses, so
	// the DSN is parsed for the primary only and the full list set after.
	primary := cfg
	primary.Replicas = nil
	opts, err := clickhouse.ParseDSN(primary.DSN())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	opts.Addr = cfg.Addrs()
	if cfg.Secure && opts.TLS == nil {
		opts.TLS = &tls.Config{}
	}
	if cfg.Pool.MaxOpen > 0 {
		opts.MaxOpenConns = cfg.Pool.MaxOpen
	}
	if cfg.Pool.MaxIdle > 0 {
		opts.MaxIdleConns = cfg.Pool.MaxIdle
	}
	if cfg.Pool.MaxLifetime > 0 {
		opts.ConnMaxLifetime = cfg.Pool.MaxLifetime
	}
	return opts, nil
}

// Open validates cfg, opens a connection with the provider registered for
// its protocol and pings it, retrying per cfg.Retry.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Connection, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	chOpts, err := ClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	provider, err := lookup(cfg.protocol())
	if err != nil {
		return nil, err
	}

	conn, err := provider.Connect(chOpts)
	if err != nil {
		return nil, fmt.Errorf("open %s connection: %w", cfg.protocol(), err)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := retryConnect(ctx, cfg.Retry, o.logger, conn.Health); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connect to %s:%d: %w", cfg.Host, cfg.port(), err)
	}

	o.logger.LogAttrs(ctx, slog.LevelDebug, "connected",
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.port()),
		slog.String("protocol", cfg.protocol()),
	)
	return conn, nil
}
