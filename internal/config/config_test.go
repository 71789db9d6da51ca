package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  address: ":9090"
database:
  driver: mongo
  name: planner_test
jwt:
  secret: from-file
  expiration: 30m
cors:
  allowed_origins: ["http://localhost:3000"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "planner_test", cfg.Database.Name)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiration)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Catalog.SeedOnStart)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "strength-planner.db", cfg.Database.Path)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.S3.BucketName)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := LoadConfig(t.TempDir())
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_DRIVER", "postgres")

	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
