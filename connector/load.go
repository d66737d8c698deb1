package connector

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. CHORM_HOST or CHORM_POOL_MAX_OPEN.
const EnvPrefix = "CHORM"

// SetDefaults registers the connection defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 0)
	v.SetDefault("protocol", ProtocolNative)
	v.SetDefault("secure", false)
	v.SetDefault("database", "default")
	v.SetDefault("username", "default")
	v.SetDefault("password", "")
	v.SetDefault("pool.max_open", 10)
	v.SetDefault("pool.max_idle", 5)
	v.SetDefault("pool.max_lifetime", time.Hour)
	v.SetDefault("connect_timeout", 10*time.Second)
	v.SetDefault("query_timeout", 30*time.Second)
}

// NewViper returns a viper instance with defaults and CHORM_* environment
// overrides installed.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads a connection config from path (yaml, json or toml) with
// environment overrides. An empty path uses defaults and environment only.
func LoadConfig(path string) (Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates the config held by v.
func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
