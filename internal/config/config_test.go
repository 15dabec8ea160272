package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
jwt:
  secret: short
storage:
  type: minio
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 50, cfg.Enrollment.DefaultMaxStudents)
	assert.Equal(t, 72*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "@daily", cfg.Jobs.ReconcileCron)
	assert.False(t, cfg.Grading.IncludeAssignmentsInFinal)
	assert.Equal(t, int64(20), cfg.Storage.MaxUploadMB)
}

func TestLoadConfig_ReleaseRequiresStrongSecret(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
jwt:
  secret: too-short
`)

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestLoadConfig_RejectsZeroCapacity(t *testing.T) {
	dir := writeConfig(t, `
enrollment:
  default_max_students: 0
storage:
  type: minio
`)

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: mysql
storage:
  type: minio
`)
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("LMS_GRADING_INCLUDE_ASSIGNMENTS_IN_FINAL", "true")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Grading.IncludeAssignmentsInFinal)
}
