package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/johnquangdev/oncovoice/pkg/config"
)

func TestMigrations_Embedded(t *testing.T) {
	migrations, err := Migrations().FindMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	first := migrations[0]
	assert.Equal(t, "0001_create_team_results.sql", first.Id)
	require.NotEmpty(t, first.Up)
	assert.Contains(t, first.Up[0], "team_results")
	require.NotEmpty(t, first.Down)
}

// lazyDB opens a pool without dialing the server
func lazyDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=oncovoice dbname=oncovoice sslmode=disable",
	}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestCloseDB_LogsThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	require.NoError(t, CloseDB(lazyDB(t), zap.New(core)))

	entries := logs.FilterMessage("✅ Database connection closed").All()
	assert.Len(t, entries, 1)
}

func TestCloseDB_NilLogger(t *testing.T) {
	assert.NoError(t, CloseDB(lazyDB(t), nil))
}

func TestNewPostgresDB_Unreachable(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cfg := &config.Config{}
	cfg.Database = config.DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     "1",
		User:     "oncovoice",
		Password: "oncovoice",
		Name:     "oncovoice",
		SSLMode:  "disable",
		MaxConns: 1,
		MinConns: 1,
	}

	db, err := NewPostgresDB(cfg, zap.New(core))
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "failed to connect to database")
	assert.Zero(t, logs.FilterMessage("✅ Database connected successfully").Len())
}
