package connector

import (
	"fmt"
	"maps"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// DSNBuilder provides a fluent interface for building ClickHouse connection strings.
type DSNBuilder struct {
	scheme   string
	username string
	password string
	host     string
	port     int
	replicas []string
	database string
	params   map[string]string
}

func NewDSNBuilder(scheme string) *DSNBuilder {
	return &DSNBuilder{
		scheme: scheme,
		params: make(map[string]string),
	}
}

// Auth sets username and password
func (b *DSNBuilder) Auth(username, password string) *DSNBuilder {
	b.username = username
	b.password = password
	return b
}

// Host sets the primary address. IPv6 hosts may be given with or without
// brackets.
func (b *DSNBuilder) Host(host string, port int) *DSNBuilder {
	b.host = bareHost(host)
	b.port = port
	return b
}

// Replicas appends extra host:port addresses tried after the primary host.
func (b *DSNBuilder) Replicas(addrs ...string) *DSNBuilder {
	b.replicas = append(b.replicas, addrs...)
	return b
}

func (b *DSNBuilder) Database(name string) *DSNBuilder {
	b.database = name
	return b
}

// Param adds a single parameter; empty values are ignored.
func (b *DSNBuilder) Param(key, value string) *DSNBuilder {
	if value != "" {
		b.params[key] = value
	}
	return b
}

func (b *DSNBuilder) Params(params map[string]string) *DSNBuilder {
	for k, v := range params {
		b.Param(k, v)
	}
	return b
}

func (b *DSNBuilder) Validate() error {
	if b.host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidConfig)
	}
	if b.port <= 0 || b.port > 65535 {
		return fmt.Errorf("%w: invalid port: %d", ErrInvalidConfig, b.port)
	}
	for _, addr := range b.replicas {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return fmt.Errorf("%w: replica %q: %v", ErrInvalidConfig, addr, err)
		}
	}
	return nil
}

// Build constructs the DSN. Parameters are emitted in key order.
func (b *DSNBuilder) Build() string {
	var dsn strings.Builder

	dsn.WriteString(b.scheme)
	dsn.WriteString("://")

	if b.username != "" {
		user := url.User(b.username)
		if b.password != "" {
			user = url.UserPassword(b.username, b.password)
		}
		dsn.WriteString(user.String())
		dsn.WriteString("@")
	}

	if b.port > 0 {
		dsn.WriteString(net.JoinHostPort(b.host, strconv.Itoa(b.port)))
	} else if strings.Contains(b.host, ":") {
		dsn.WriteString("[" + b.host + "]")
	} else {
		dsn.WriteString(b.host)
	}
	for _, addr := range b.replicas {
		dsn.WriteString(",")
		dsn.WriteString(addr)
	}

	if b.database != "" {
		dsn.WriteString("/")
		dsn.WriteString(url.PathEscape(b.database))
	}

	for i, key := range slices.Sorted(maps.Keys(b.params)) {
		if i == 0 {
			dsn.WriteString("?")
		} else {
			dsn.WriteString("&")
		}
		dsn.WriteString(url.QueryEscape(key))
		dsn.WriteString("=")
		dsn.WriteString(url.QueryEscape(b.params[key]))
	}

	return dsn.String()
}

// bareHost strips the brackets around an IPv6 literal.
func bareHost(host string) string {
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		return host[1 : len(host)-1]
	}
	return host
}
