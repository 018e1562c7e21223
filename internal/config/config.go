// Package config provides configuration for the debate server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Transports the server can run.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds the server configuration.
type Config struct {
	// Server settings
	Transport string // stdio (MCP) or http (echo + RPC)
	HTTPPort  int
	RPCPort   int

	// Archive settings
	DatabaseURL    string
	ArchiveEnabled bool

	// Policy
	PolicyFile string

	// Presentation
	RenderEnabled bool
	RenderColor   bool

	// WebSocket settings
	PingInterval   time.Duration
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	MaxMessageSize int64

	ShutdownTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("transport", TransportStdio)
	v.SetDefault("http_port", 8080)
	v.SetDefault("rpc_port", 8081)
	v.SetDefault("database_url", ":memory:")
	v.SetDefault("archive_enabled", true)
	v.SetDefault("policy_file", "")
	v.SetDefault("render_enabled", true)
	v.SetDefault("render_color", true)
	v.SetDefault("ws_ping_interval_ms", 30000)
	v.SetDefault("ws_write_timeout_ms", 10000)
	v.SetDefault("ws_read_timeout_ms", 60000)
	v.SetDefault("ws_max_message_size", 65536)
	v.SetDefault("shutdown_timeout_ms", 10000)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load reads configuration from environment variables and, when path is
// set, from that config file. Environment variables win over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Transport:       strings.ToLower(v.GetString("transport")),
		HTTPPort:        v.GetInt("http_port"),
		RPCPort:         v.GetInt("rpc_port"),
		DatabaseURL:     v.GetString("database_url"),
		ArchiveEnabled:  v.GetBool("archive_enabled"),
		PolicyFile:      v.GetString("policy_file"),
		RenderEnabled:   v.GetBool("render_enabled"),
		RenderColor:     v.GetBool("render_color"),
		PingInterval:    time.Duration(v.GetInt("ws_ping_interval_ms")) * time.Millisecond,
		WriteTimeout:    time.Duration(v.GetInt("ws_write_timeout_ms")) * time.Millisecond,
		ReadTimeout:     time.Duration(v.GetInt("ws_read_timeout_ms")) * time.Millisecond,
		MaxMessageSize:  v.GetInt64("ws_max_message_size"),
		ShutdownTimeout: time.Duration(v.GetInt("shutdown_timeout_ms")) * time.Millisecond,
		LogLevel:        v.GetString("log_level"),
		LogFormat:       strings.ToLower(v.GetString("log_format")),
	}
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid transport %q: must be %s or %s", c.Transport, TransportStdio, TransportHTTP)
	}
	if c.Transport == TransportHTTP {
		if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
			return fmt.Errorf("invalid http_port %d", c.HTTPPort)
		}
		if c.RPCPort <= 0 || c.RPCPort > 65535 {
			return fmt.Errorf("invalid rpc_port %d", c.RPCPort)
		}
	}
	if c.PingInterval <= 0 || c.WriteTimeout <= 0 || c.ReadTimeout <= 0 {
		return fmt.Errorf("websocket timeouts must be positive")
	}
	return nil
}
