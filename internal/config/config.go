package config

import "time"

// Config holds client configuration values.
type Config struct {
	ServerURL      string        `mapstructure:"server_url" yaml:"server_url"`
	ConnectDelay   time.Duration `mapstructure:"connect_delay" yaml:"connect_delay"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	PingInterval   time.Duration `mapstructure:"ping_interval" yaml:"ping_interval"`
	CopyAckWindow  time.Duration `mapstructure:"copy_ack_window" yaml:"copy_ack_window"`
	// SessionFile is where the current room is remembered. Empty means a
	// file scoped to the launching terminal.
	SessionFile string `mapstructure:"session_file" yaml:"session_file"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		ServerURL:      "ws://localhost:8080/ws",
		ConnectDelay:   2 * time.Second,
		RequestTimeout: 15 * time.Second,
		PingInterval:   25 * time.Second,
		CopyAckWindow:  1500 * time.Millisecond,
		LogLevel:       "info",
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.ServerURL != "" {
		c.ServerURL = other.ServerURL
	}
	if other.ConnectDelay != 0 {
		c.ConnectDelay = other.ConnectDelay
	}
	if other.RequestTimeout != 0 {
		c.RequestTimeout = other.RequestTimeout
	}
	if other.PingInterval != 0 {
		c.PingInterval = other.PingInterval
	}
	if other.CopyAckWindow != 0 {
		c.CopyAckWindow = other.CopyAckWindow
	}
	if other.SessionFile != "" {
		c.SessionFile = other.SessionFile
	}
	if other.LogFile != "" {
		c.LogFile = other.LogFile
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}
