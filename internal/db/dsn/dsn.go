// Package dsn builds database connection strings from the application
// configuration for every supported engine.
package dsn

import (
	"fmt"

	"github.com/AlphaAutos/AlphaAutos/internal/config"
)

// Build returns the DSN for the configured database engine.
func Build(cfg *config.DB) (string, error) {
	switch cfg.Engine {
	case config.EngineMySQL:
		return mysql(cfg), nil
	case config.EnginePostgres:
		return postgres(cfg), nil
	case config.EngineSQLite:
		return sqlite(cfg), nil
	}

	return "", config.ErrUnknownDBEngine
}

func mysql(cfg *config.DB) string {
	extras := cfg.Extras
	if extras == "" {
		extras = "charset=utf8mb4&parseTime=True&loc=Local"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		extras,
	)
}

func postgres(cfg *config.DB) string {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d",
		cfg.Host,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.Port,
	)

	if cfg.Extras != "" {
		dsn += " " + cfg.Extras
	}

	return dsn
}

func sqlite(cfg *config.DB) string {
	path := cfg.Path
	if path == "" {
		path = cfg.Name
	}

	// SQLite ships with foreign key enforcement off, which would turn the
	// ON DELETE CASCADE constraints into no-ops.
	return path + "?_pragma=foreign_keys(1)"
}
