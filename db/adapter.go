package db

import (
	"fmt"

	"github.com/volumetricpixels/questy/config"
	dbmysql "github.com/volumetricpixels/questy/db/mysql"
	dbsqlite "github.com/volumetricpixels/questy/db/sqlite"
	"gorm.io/gorm"
)

const (
	ModeMemory = "memory"
	ModeSQLite = "sqlite"
	ModeMySQL  = "mysql"
)

// Open returns a *gorm.DB for the configured database mode. Memory mode is
// an in-process SQLite database, mainly for tests.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Mode {
	case ModeMemory:
		return dbsqlite.Open(":memory:")
	case ModeSQLite:
		return dbsqlite.Open(cfg.SQLitePath)
	case ModeMySQL:
		return dbmysql.Open(cfg.MySQLDSN, cfg.MySQLMaxOpen, cfg.MySQLMaxIdle, cfg.MySQLMaxLife)
	default:
		return nil, fmt.Errorf("db: unknown mode %q", cfg.Mode)
	}
}
