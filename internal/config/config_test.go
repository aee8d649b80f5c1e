package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigFillsEveryField(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "cryptrend", cfg.Postgres.DBName)
	assert.Equal(t, "advanced", cfg.Analysis.Mode)
	assert.Equal(t, 180, cfg.Analysis.BarLookbackDays)
	assert.Equal(t, ":8080", cfg.API.Port)
	assert.Equal(t, []string{"*"}, cfg.API.CORSOrigins)
	assert.Equal(t, 14, cfg.Indicators.RSIPeriod)
}

func TestToIndicatorsConfigMapsFieldByField(t *testing.T) {
	cfg := DefaultConfig()
	ind := cfg.Indicators.ToIndicatorsConfig()
	assert.Equal(t, cfg.Indicators.RSIPeriod, ind.RSIPeriod)
	assert.Equal(t, cfg.Indicators.MACDSlow, ind.MACDSlow)
	assert.Equal(t, cfg.Indicators.ATRHighVolThreshold, ind.ATRHighVolThreshold)
}

func TestLoadAppliesDefaultsForMissingYAMLFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("postgres:\n  host: db.internal\n"), 0644))

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port, "unset fields should still get their default")
}

func TestLoadReturnsErrorForMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesWinOverYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("postgres:\n  host: db.internal\n  dbname: yamlname\n"), 0644))

	t.Setenv("CRYPTREND_DB_HOST", "env-host")
	t.Setenv("CRYPTREND_DB_NAME", "env-name")
	t.Setenv("CRYPTREND_ANALYSIS_MODE", "legacy")

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "env-host", cfg.Postgres.Host)
	assert.Equal(t, "env-name", cfg.Postgres.DBName)
	assert.Equal(t, "legacy", cfg.Analysis.Mode)
}

func TestEnvPortOverrideIgnoresInvalidValue(t *testing.T) {
	cfg := DefaultConfig()
	t.Setenv("CRYPTREND_DB_PORT", "not-a-number")
	applyEnvOverrides(cfg)
	assert.Equal(t, 5432, cfg.Postgres.Port)
}

func TestSaveWritesReadableYAML(t *testing.T) {
	cfg := DefaultConfig()
	path := filepath.Join(t.TempDir(), "out.yaml")
	assert.NoError(t, cfg.Save(path))

	reloaded, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, cfg.Postgres.DBName, reloaded.Postgres.DBName)
}
