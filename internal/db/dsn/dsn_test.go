package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlphaAutos/AlphaAutos/internal/config"
)

func TestBuildMySQL(t *testing.T) {
	got, err := Build(&config.DB{
		Engine:   config.EngineMySQL,
		Host:     "db.local",
		Port:     3306,
		User:     "alpha",
		Password: "secret",
		Name:     "alphaautos",
	})

	require.NoError(t, err)
	assert.Equal(t, "alpha:secret@tcp(db.local:3306)/alphaautos?charset=utf8mb4&parseTime=True&loc=Local", got)
}

func TestBuildMySQLExtras(t *testing.T) {
	got, err := Build(&config.DB{
		Engine:   config.EngineMySQL,
		Host:     "db.local",
		Port:     3306,
		User:     "alpha",
		Password: "secret",
		Name:     "alphaautos",
		Extras:   "parseTime=True",
	})

	require.NoError(t, err)
	assert.Equal(t, "alpha:secret@tcp(db.local:3306)/alphaautos?parseTime=True", got)
}

func TestBuildPostgres(t *testing.T) {
	got, err := Build(&config.DB{
		Engine:   config.EnginePostgres,
		Host:     "db.local",
		Port:     5432,
		User:     "alpha",
		Password: "secret",
		Name:     "alphaautos",
		Extras:   "sslmode=disable",
	})

	require.NoError(t, err)
	assert.Equal(t, "host=db.local user=alpha password=secret dbname=alphaautos port=5432 sslmode=disable", got)
}

func TestBuildSQLite(t *testing.T) {
	got, err := Build(&config.DB{
		Engine: config.EngineSQLite,
		Path:   "/var/lib/alphaautos/app.db",
	})

	require.NoError(t, err)
	assert.Equal(t, "/var/lib/alphaautos/app.db?_pragma=foreign_keys(1)", got)
}

func TestBuildSQLiteNameFallback(t *testing.T) {
	got, err := Build(&config.DB{
		Engine: config.EngineSQLite,
		Name:   "alphaautos.db",
	})

	require.NoError(t, err)
	assert.Equal(t, "alphaautos.db?_pragma=foreign_keys(1)", got)
}

func TestBuildUnknownEngine(t *testing.T) {
	_, err := Build(&config.DB{Engine: "oracle"})

	assert.ErrorIs(t, err, config.ErrUnknownDBEngine)
}
