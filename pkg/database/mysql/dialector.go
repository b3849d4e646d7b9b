// Package mysql registers the MySQL dialector factory with the database layer.
package mysql

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/shopseed/shopseed/pkg/database"
)

// init registers the MySQL dialector factory.
func init() {
	database.RegisterDialector("mysql", func(cfg database.Config) (gorm.Dialector, error) {
		// multiStatements is required for the embedded migration files.
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&multiStatements=true",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
		return mysql.Open(dsn), nil
	})
}
