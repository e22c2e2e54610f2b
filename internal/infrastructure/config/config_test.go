package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "awqaf-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "SAR", cfg.Closing.Currency)
	assert.InDelta(t, 0.01, cfg.Closing.ImbalanceEpsilon, 1e-9)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NotZero(t, cfg.Escalation.SweepInterval)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("AWQAF_DATABASE_HOST", "db.internal")
	t.Setenv("AWQAF_CLOSING_CURRENCY", "KWD")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "KWD", cfg.Closing.Currency)
}

func TestValidate(t *testing.T) {
	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Database.MaxIdleConns = 100

		assert.Error(t, cfg.validate())
	})

	t.Run("rejects a malformed currency code", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Closing.Currency = "RIYAL"

		assert.Error(t, cfg.validate())
	})

	t.Run("requires ssl and a password in production", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.App.Env = "production"

		assert.Error(t, cfg.validate())

		cfg.Database.Password = "s3cret"
		cfg.Database.SSLMode = "require"
		assert.NoError(t, cfg.validate())
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "awqaf",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "p%40ss%2Fword")
	assert.Contains(t, dsn, "sslmode=disable")
}
