// Package sqlite registers the SQLite dialector factory with the database layer.
package sqlite

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopseed/shopseed/pkg/database"
)

// init registers the SQLite dialector factory.
func init() {
	database.RegisterDialector("sqlite", func(cfg database.Config) (gorm.Dialector, error) {
		path := cfg.Path
		if path == "" {
			path = cfg.Database
		}
		return sqlite.Open(path), nil
	})
}
