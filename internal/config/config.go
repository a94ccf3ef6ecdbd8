package config

import "time"

// ServerConfig is the root configuration for the FinanceHub backend.
type ServerConfig struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DBConfig        `yaml:"database"`
	Storage   StorageConfig   `yaml:"storage"`
	Push      PushConfig      `yaml:"push"`
	Refresher RefresherConfig `yaml:"refresher"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// HTTPConfig holds the HTTP listener settings.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DBConfig holds the PostgreSQL connection settings.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// StorageConfig selects the persistence driver.
type StorageConfig struct {
	// Driver is "postgres" or "memory". The memory driver runs the server
	// without a database (demo mode).
	Driver string `yaml:"driver"`
	// Seed loads the sample dataset at startup when the store is empty.
	Seed bool `yaml:"seed"`
}

// PushConfig holds the WebSocket push channel settings.
type PushConfig struct {
	Interval     time.Duration `yaml:"interval"`      // Snapshot cadence per connection
	WriteTimeout time.Duration `yaml:"write_timeout"` // Per-frame write deadline
	MaxClients   int           `yaml:"max_clients"`   // 0 = unlimited
}

// RefresherConfig holds the synthetic market-data refresher settings.
type RefresherConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
