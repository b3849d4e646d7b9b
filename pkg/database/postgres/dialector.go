// Package postgres registers the PostgreSQL dialector factory with the database layer.
package postgres

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shopseed/shopseed/pkg/database"
)

// init registers the PostgreSQL dialector factory.
func init() {
	database.RegisterDialector("postgres", func(cfg database.Config) (gorm.Dialector, error) {
		sslmode := cfg.Sslmode
		if sslmode == "" {
			sslmode = "disable"
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, sslmode)
		return postgres.Open(dsn), nil
	})
}
