package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultHTTPAddr        = ":8080"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultStorageDriver   = "postgres"
	DefaultPushInterval    = 4 * time.Second
	DefaultPushWriteWait   = 5 * time.Second
	DefaultRefreshInterval = 5 * time.Second
	DefaultLogLevel        = "info"
)

func (c *ServerConfig) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = DefaultReadTimeout
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = DefaultWriteTimeout
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = DefaultShutdownTimeout
	}

	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = DefaultStorageDriver
	}

	if c.Push.Interval == 0 {
		c.Push.Interval = DefaultPushInterval
	}
	if c.Push.WriteTimeout == 0 {
		c.Push.WriteTimeout = DefaultPushWriteWait
	}

	if c.Refresher.Interval == 0 {
		c.Refresher.Interval = DefaultRefreshInterval
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}
