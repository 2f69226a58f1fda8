package config

// Engine selects the relational backend the daemon opens with GORM.
type Engine string

const (
	// EngineMySQL uses the MySQL driver.
	EngineMySQL Engine = "mysql"
	// EnginePostgres uses the PostgreSQL driver.
	EnginePostgres Engine = "postgres"
	// EngineSQLite uses the pure-Go SQLite driver (dev and tests).
	EngineSQLite Engine = "sqlite"
)

// Valid reports whether the engine is one of the supported backends.
func (e Engine) Valid() bool {
	switch e {
	case EngineMySQL, EnginePostgres, EngineSQLite:
		return true
	}

	return false
}

// DB holds the database configuration settings.
type DB struct {
	Engine   Engine
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	// Path is the database file location when Engine is sqlite.
	Path string
}
