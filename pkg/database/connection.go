// Package database provides the GORM-backed connection and transaction layer
// used by every generator. Dialector factories are registered per database
// type, so the application selects the backend purely through configuration.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shopseed/shopseed/pkg/support/logger"
)

// DialectorFactory generates a gorm.Dialector from a database Config.
type DialectorFactory func(cfg Config) (gorm.Dialector, error)

var (
	dialectorRegistry = make(map[string]DialectorFactory)
	dialectorMutex    sync.RWMutex
)

// RegisterDialector registers a DialectorFactory for the given database type.
func RegisterDialector(dbType string, factory DialectorFactory) {
	dialectorMutex.Lock()
	defer dialectorMutex.Unlock()
	if _, exists := dialectorRegistry[dbType]; exists {
		logger.Warnf("Dialector for type '%s' already registered. Overwriting.", dbType)
	}
	dialectorRegistry[dbType] = factory
}

// GetDialectorFactory retrieves the DialectorFactory corresponding to the specified DB type.
func GetDialectorFactory(dbType string) (DialectorFactory, error) {
	dialectorMutex.RLock()
	defer dialectorMutex.RUnlock()
	factory, ok := dialectorRegistry[dbType]
	if !ok {
		return nil, fmt.Errorf("no dialector registered for database type: %s", dbType)
	}
	return factory, nil
}

// Connection wraps a *gorm.DB together with its configuration.
type Connection struct {
	db  *gorm.DB
	cfg Config
}

// Open establishes a database connection for the configured type and applies
// the pool settings. The registered dialector factory for cfg.Type builds the
// DSN; unknown types fail.
func Open(cfg Config) (*Connection, error) {
	factory, err := GetDialectorFactory(cfg.Type)
	if err != nil {
		return nil, err
	}
	dialector, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build dialector for type '%s': %w", cfg.Type, err)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Type, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying sql.DB: %w", err)
	}
	if cfg.Pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpenConns)
	}
	if cfg.Pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdleConns)
	}
	if cfg.Pool.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.Pool.ConnMaxLifetimeMinutes) * time.Minute)
	}

	logger.Infof("Database connection established (type: %s, database: %s).", cfg.Type, cfg.Database)
	return &Connection{db: gormDB, cfg: cfg}, nil
}

// NewConnection wraps an already opened *gorm.DB. Used by tests that drive
// GORM over a sqlmock connection.
func NewConnection(db *gorm.DB, cfg Config) *Connection {
	return &Connection{db: db, cfg: cfg}
}

// GORM returns the underlying *gorm.DB.
func (c *Connection) GORM() *gorm.DB {
	return c.db
}

// SQLDB returns the underlying *sql.DB, as required by the migration driver.
func (c *Connection) SQLDB() (*sql.DB, error) {
	return c.db.DB()
}

// Type returns the configured database type.
func (c *Connection) Type() string {
	return c.cfg.Type
}

// Begin starts a new transaction on this connection.
func (c *Connection) Begin(ctx context.Context) (Tx, error) {
	gormTx := c.db.WithContext(ctx).Begin()
	if gormTx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", gormTx.Error)
	}
	return &gormTxAdapter{db: gormTx}, nil
}

// Close closes the underlying connection pool.
func (c *Connection) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
