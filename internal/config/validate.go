package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *ServerConfig) Validate() error {
	switch c.Storage.Driver {
	case "postgres":
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	case "memory":
		// No database required.
	default:
		return fmt.Errorf("storage.driver must be \"postgres\" or \"memory\", got %q", c.Storage.Driver)
	}

	if c.Push.Interval <= 0 {
		return errors.New("push.interval must be positive")
	}
	if c.Push.MaxClients < 0 {
		return errors.New("push.max_clients must be >= 0")
	}
	if c.Refresher.Enabled && c.Refresher.Interval <= 0 {
		return errors.New("refresher.interval must be positive")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Port < 1 || db.Port > 65535 {
		return fmt.Errorf("%s.port must be in 1-65535", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns must not exceed max_conns", prefix)
	}
	return nil
}
