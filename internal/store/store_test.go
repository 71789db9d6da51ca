package store

import (
	"context"
	"path/filepath"
	"testing"

	"alcyxob/strength-planner/internal/config"
	"alcyxob/strength-planner/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "planner.db")}
	s, err := Open(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	defer s.Close()

	assert.NotNil(t, s.Users)
	assert.NotNil(t, s.Tx)
	assert.NotNil(t, s.DailyMetrics)

	groups, err := s.Catalog.ListMuscleGroups(context.Background())
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "postgres"}, logger.NewNop())
	assert.ErrorContains(t, err, "unsupported database driver")
}
