// Package daemon owns the process lifecycle: database setup, seeding and
// running the web server until a shutdown signal arrives.
package daemon

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/storage"
	"github.com/gofiber/storage/memory"
	storagemysql "github.com/gofiber/storage/mysql"
	storagepostgres "github.com/gofiber/storage/postgres"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/AlphaAutos/AlphaAutos/internal/config"
	"github.com/AlphaAutos/AlphaAutos/internal/db/dsn"
	"github.com/AlphaAutos/AlphaAutos/internal/db/models"
	"github.com/AlphaAutos/AlphaAutos/internal/logger"
	"github.com/AlphaAutos/AlphaAutos/internal/web"
)

// Daemon bundles everything the running service needs.
type Daemon struct {
	cfg *config.Config
}

// New returns a daemon for the given configuration.
func New(cfg *config.Config) *Daemon {
	return &Daemon{cfg: cfg}
}

// Start brings up logging, the database and the web server, then blocks
// until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	err := logger.Init(withLogDefaults(d.cfg.Log))
	if err != nil {
		return errors.Wrap(err, "initializing logger")
	}

	db, err := OpenDB(&d.cfg.DB)
	if err != nil {
		return err
	}

	err = Migrate(db)
	if err != nil {
		return err
	}

	err = Seed(db)
	if err != nil {
		return err
	}

	store, err := newSessionStorage(d.cfg)
	if err != nil {
		return err
	}

	server := web.New(d.cfg, db, store)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-shutdown

		log.Info().Str("signal", sig.String()).Msg("shutting down")

		err := server.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("shutting down web server")
		}
	}()

	err = server.Start()
	if err != nil {
		return errors.Wrap(err, "running web server")
	}

	return nil
}

// withLogDefaults fills in the identifiers and level the logger refuses to
// start without.
func withLogDefaults(cfg logger.Log) logger.Log {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if cfg.AppName == "" {
		cfg.AppName = "alphaautos"
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "alphaautos"
	}

	return cfg
}

// OpenDB connects to the configured database engine.
func OpenDB(cfg *config.DB) (*gorm.DB, error) {
	connection, err := dsn.Build(cfg)
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector

	switch cfg.Engine {
	case config.EngineMySQL:
		dialector = gormmysql.Open(connection)
	case config.EnginePostgres:
		dialector = gormpostgres.Open(connection)
	case config.EngineSQLite:
		dialector = sqlite.Open(connection)
	default:
		return nil, config.ErrUnknownDBEngine
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}

	log.Info().Str("engine", string(cfg.Engine)).Msg("database connected")

	return db, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.User{},
		&models.Dealership{},
		&models.Employee{},
		&models.Brand{},
		&models.Vehicle{},
		&models.Buyer{},
		&models.Sale{},
		&models.Insurer{},
		&models.Policy{},
		&models.Maintenance{},
	)
	if err != nil {
		return errors.Wrap(err, "migrating schema")
	}

	return nil
}

// newSessionStorage picks the session backend matching the database engine.
// The sqlite engine keeps sessions in memory; they do not survive a restart.
func newSessionStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.DB.Engine {
	case config.EngineMySQL:
		return storagemysql.New(storagemysql.Config{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			Username: cfg.DB.User,
			Password: cfg.DB.Password,
			Database: cfg.DB.Name,
			Table:    "sessions",
		}), nil
	case config.EnginePostgres:
		return storagepostgres.New(storagepostgres.Config{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			Username: cfg.DB.User,
			Password: cfg.DB.Password,
			Database: cfg.DB.Name,
			Table:    "sessions",
		}), nil
	case config.EngineSQLite:
		return memory.New(memory.Config{GCInterval: 10 * time.Minute}), nil
	}

	return nil, config.ErrUnknownDBEngine
}
