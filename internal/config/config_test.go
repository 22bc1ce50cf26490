package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paveg/tabular/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DefaultValues(t *testing.T) {
	config := config.NewConfig()

	assert.Equal(t, 1000, config.ParallelThreshold)
	assert.Equal(t, 0, config.WorkerPoolSize) // 0 means auto-detect
	assert.Equal(t, 0, config.ChunkSize)      // 0 means auto-calculate
	assert.Equal(t, 16, config.MaxParallelism)
	assert.Equal(t, "compat", config.OuterJoinMode)
	assert.Equal(t, "auto", config.NullOrder)
	assert.Equal(t, "strict", config.ConvertMode)
	assert.False(t, config.VerboseLogging)
	assert.False(t, config.MetricsCollection)
	assert.NoError(t, config.Validate())
}

func TestConfig_Validation(t *testing.T) {
	valid := config.NewConfig()

	tests := []struct {
		name          string
		mutate        func(c *config.Config)
		expectedError string
	}{
		{
			name:          "valid config",
			mutate:        func(*config.Config) {},
			expectedError: "",
		},
		{
			name:          "negative parallel threshold",
			mutate:        func(c *config.Config) { c.ParallelThreshold = -1 },
			expectedError: "ParallelThreshold must be positive, got -1",
		},
		{
			name:          "negative worker pool size",
			mutate:        func(c *config.Config) { c.WorkerPoolSize = -1 },
			expectedError: "WorkerPoolSize must be non-negative, got -1",
		},
		{
			name:          "negative chunk size",
			mutate:        func(c *config.Config) { c.ChunkSize = -1 },
			expectedError: "ChunkSize must be non-negative, got -1",
		},
		{
			name:          "unknown outer join mode",
			mutate:        func(c *config.Config) { c.OuterJoinMode = "full" },
			expectedError: `OuterJoinMode must be one of [compat, distinct], got "full"`,
		},
		{
			name:          "unknown null order",
			mutate:        func(c *config.Config) { c.NullOrder = "middle" },
			expectedError: `NullOrder must be one of [auto, first, last], got "middle"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.expectedError == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.expectedError)
			}
		})
	}
}

func TestConfig_ValidationReportsEveryProblem(t *testing.T) {
	cfg := config.NewConfig()
	cfg.ParallelThreshold = 0
	cfg.ConvertMode = "loose"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ParallelThreshold must be positive")
	assert.Contains(t, err.Error(), "ConvertMode must be one of")
}

func TestConfig_LoadFromJSON(t *testing.T) {
	jsonData := `{
		"parallel_threshold": 2000,
		"worker_pool_size": 8,
		"outer_join_mode": "distinct",
		"verbose_logging": true
	}`

	config, err := config.LoadFromJSON([]byte(jsonData))
	require.NoError(t, err)

	assert.Equal(t, 2000, config.ParallelThreshold)
	assert.Equal(t, 8, config.WorkerPoolSize)
	assert.Equal(t, "distinct", config.OuterJoinMode)
	assert.Equal(t, "auto", config.NullOrder) // filled by WithDefaults
	assert.True(t, config.VerboseLogging)
}

func TestConfig_LoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tabular.yaml")

	yamlData := "parallel_threshold: 1500\nnull_order: last\nconvert_mode: best_effort\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlData), 0o600))

	config, err := config.LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 1500, config.ParallelThreshold)
	assert.Equal(t, "last", config.NullOrder)
	assert.Equal(t, "best_effort", config.ConvertMode)
	assert.Equal(t, 16, config.MaxParallelism)
}

func TestConfig_UnsupportedFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabular.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o600))

	_, err := config.LoadFromFile(path)
	assert.ErrorContains(t, err, "unsupported config file format: .toml")
}

func TestConfig_InvalidJSON(t *testing.T) {
	_, err := config.LoadFromJSON([]byte("{not json"))
	assert.ErrorContains(t, err, "parsing JSON configuration")
}

func TestConfig_LoadFromNonExistentFile(t *testing.T) {
	_, err := config.LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("TABULAR_PARALLEL_THRESHOLD", "3000")
	t.Setenv("TABULAR_WORKER_POOL_SIZE", "12")
	t.Setenv("TABULAR_NULL_ORDER", "FIRST")
	t.Setenv("TABULAR_METRICS_COLLECTION", "true")
	t.Setenv("TABULAR_CHUNK_SIZE", "not-a-number")

	config := config.LoadFromEnv()

	assert.Equal(t, 3000, config.ParallelThreshold)
	assert.Equal(t, 12, config.WorkerPoolSize)
	assert.Equal(t, "first", config.NullOrder)
	assert.True(t, config.MetricsCollection)
	assert.Equal(t, 0, config.ChunkSize) // invalid value ignored
}

func TestConfig_WithDefaults(t *testing.T) {
	config := config.Config{
		ParallelThreshold: 2000,
	}

	withDefaults := config.WithDefaults()

	assert.Equal(t, 2000, withDefaults.ParallelThreshold)
	assert.Equal(t, 0, withDefaults.WorkerPoolSize)
	assert.Equal(t, 16, withDefaults.MaxParallelism)
	assert.Equal(t, "compat", withDefaults.OuterJoinMode)
	assert.False(t, withDefaults.VerboseLogging)
}

func TestConfig_Workers(t *testing.T) {
	cfg := config.NewConfig()
	assert.Positive(t, cfg.Workers())

	cfg.WorkerPoolSize = 3
	assert.Equal(t, 3, cfg.Workers())

	cfg.WorkerPoolSize = 64
	cfg.MaxParallelism = 8
	assert.Equal(t, 8, cfg.Workers(), "capped at MaxParallelism")
}

func TestGlobalConfig_SetAndGet(t *testing.T) {
	original := config.GetGlobalConfig()
	defer config.SetGlobalConfig(original)

	updated := config.NewConfig()
	updated.ParallelThreshold = 5000
	config.SetGlobalConfig(updated)

	assert.Equal(t, 5000, config.GetGlobalConfig().ParallelThreshold)
}
