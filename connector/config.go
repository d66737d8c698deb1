package connector

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

var ErrInvalidConfig = errors.New("invalid connection config")

const (
	ProtocolNative = "native"
	ProtocolHTTP   = "http"
)

// Config represents ClickHouse connection configuration.
type Config struct {
	Host           string            `mapstructure:"host" json:"host" yaml:"host"`
	Port           int               `mapstructure:"port" json:"port" yaml:"port"`
	Replicas       []string          `mapstructure:"replicas" json:"replicas,omitempty" yaml:"replicas,omitempty"`
	OpenStrategy   string            `mapstructure:"open_strategy" json:"open_strategy,omitempty" yaml:"open_strategy,omitempty"`
	Protocol       string            `mapstructure:"protocol" json:"protocol" yaml:"protocol"`
	Secure         bool              `mapstructure:"secure" json:"secure" yaml:"secure"`
	Database       string            `mapstructure:"database" json:"database" yaml:"database"`
	Username       string            `mapstructure:"username" json:"username" yaml:"username"`
	Password       string            `mapstructure:"password" json:"password" yaml:"password"`
	Params         map[string]string `mapstructure:"params" json:"params,omitempty" yaml:"params,omitempty"`
	Pool           PoolConfig        `mapstructure:"pool" json:"pool" yaml:"pool"`
	ConnectTimeout time.Duration     `mapstructure:"connect_timeout" json:"connect_timeout" yaml:"connect_timeout"`
	QueryTimeout   time.Duration     `mapstructure:"query_timeout" json:"query_timeout" yaml:"query_timeout"`
	Retry          *RetryConfig      `mapstructure:"retry" json:"retry,omitempty" yaml:"retry,omitempty"`
}

// PoolConfig defines connection pool settings.
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" json:"max_open" yaml:"max_open"`
	MaxIdle     int           `mapstructure:"max_idle" json:"max_idle" yaml:"max_idle"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime" json:"max_lifetime" yaml:"max_lifetime"`
}

// RetryConfig defines connection retry behavior.
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries" json:"max_retries" yaml:"max_retries"`
	BaseDelay  time.Duration `mapstructure:"base_delay" json:"base_delay" yaml:"base_delay"`
	MaxDelay   time.Duration `mapstructure:"max_delay" json:"max_delay" yaml:"max_delay"`
	Backoff    float64       `mapstructure:"backoff" json:"backoff" yaml:"backoff"`
}

var openStrategies = map[string]bool{
	"in_order":    true,
	"round_robin": true,
	"random":      true,
}

// DefaultPort returns the server port for a protocol, switching to the TLS
// port when secure is set.
func DefaultPort(protocol string, secure bool) int {
	switch {
	case protocol == ProtocolHTTP && secure:
		return 8443
	case protocol == ProtocolHTTP:
		return 8123
	case secure:
		return 9440
	default:
		return 9000
	}
}

// Validate checks the fields a connection cannot be opened without.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidConfig)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: invalid port: %d", ErrInvalidConfig, c.Port)
	}
	switch c.Protocol {
	case "", ProtocolNative, ProtocolHTTP:
	default:
		return fmt.Errorf("%w: unknown protocol %q", ErrInvalidConfig, c.Protocol)
	}
	if c.OpenStrategy != "" && !openStrategies[c.OpenStrategy] {
		return fmt.Errorf("%w: invalid open strategy: %s", ErrInvalidConfig, c.OpenStrategy)
	}
	if c.Pool.MaxOpen < 0 || c.Pool.MaxIdle < 0 {
		return fmt.Errorf("%w: pool sizes must not be negative", ErrInvalidConfig)
	}
	if c.Retry != nil && c.Retry.Backoff != 0 && c.Retry.Backoff < 1 {
		return fmt.Errorf("%w: retry backoff must be at least 1", ErrInvalidConfig)
	}
	return nil
}

func (c Config) protocol() string {
	if c.Protocol == "" {
		return ProtocolNative
	}
	return c.Protocol
}

func (c Config) port() int {
	if c.Port == 0 {
		return DefaultPort(c.protocol(), c.Secure)
	}
	return c.Port
}

// Addrs lists the primary address followed by the replicas.
func (c Config) Addrs() []string {
	return append([]string{net.JoinHostPort(bareHost(c.Host), strconv.Itoa(c.port()))}, c.Replicas...)
}

// Single returns a copy of c that targets only addr.
func (c Config) Single(addr string) (Config, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return Config{}, fmt.Errorf("%w: invalid port in %q", ErrInvalidConfig, addr)
	}
	c.Host, c.Port, c.Replicas, c.OpenStrategy = host, n, nil, ""
	return c, nil
}

// DSN renders the configuration as a clickhouse-go DSN.
func (c Config) DSN() string {
	scheme := "clickhouse"
	if c.protocol() == ProtocolHTTP {
		scheme = "http"
		if c.Secure {
			scheme = "https"
		}
	}
	b := NewDSNBuilder(scheme).
		Auth(c.Username, c.Password).
		Host(c.Host, c.port()).
		Replicas(c.Replicas...).
		Database(c.Database).
		Params(c.Params).
		Param("connection_open_strategy", c.OpenStrategy)
	if c.Secure && scheme == "clickhouse" {
		b.Param("secure", "true")
	}
	if c.ConnectTimeout > 0 {
		b.Param("dial_timeout", c.ConnectTimeout.String())
	}
	if c.QueryTimeout > 0 {
		b.Param("read_timeout", c.QueryTimeout.String())
	}
	return b.Build()
}
