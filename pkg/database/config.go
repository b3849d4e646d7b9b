package database

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxOpenConns           int `yaml:"max_open_conns"`
	MaxIdleConns           int `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int `yaml:"conn_max_lifetime_minutes"`
}

// Config holds database connection settings.
type Config struct {
	Type     string     `yaml:"type"`           // Database type (e.g., "mysql", "postgres", "sqlite").
	Host     string     `yaml:"host"`           // Database host address.
	Port     int        `yaml:"port"`           // Database port number.
	Database string     `yaml:"database"`       // Database name.
	User     string     `yaml:"user"`           // Database user.
	Password string     `yaml:"password"`       // Database password.
	Sslmode  string     `yaml:"sslmode"`        // SSL mode for the connection (postgres).
	Path     string     `yaml:"path,omitempty"` // File path for SQLite databases.
	Pool     PoolConfig `yaml:"pool"`           // Connection pool settings.
}
