// Package config provides configuration management for table operations
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Config represents the global configuration for table operations
type Config struct {
	// Parallel Processing Configuration
	ParallelThreshold int `json:"parallel_threshold" yaml:"parallel_threshold"` // Rows above which Rank sorts in parallel
	WorkerPoolSize    int `json:"worker_pool_size" yaml:"worker_pool_size"`     // Number of worker goroutines (0 = auto-detect)
	ChunkSize         int `json:"chunk_size" yaml:"chunk_size"`                 // Rows per parallel sort chunk (0 = auto-calculate)
	MaxParallelism    int `json:"max_parallelism" yaml:"max_parallelism"`       // Upper bound on concurrent chunks

	// Semantics Configuration
	OuterJoinMode string `json:"outer_join_mode" yaml:"outer_join_mode"` // "compat" or "distinct"
	NullOrder     string `json:"null_order" yaml:"null_order"`           // "auto", "first" or "last"
	ConvertMode   string `json:"convert_mode" yaml:"convert_mode"`       // "strict" or "best_effort"

	// Debugging Configuration
	VerboseLogging    bool `json:"verbose_logging" yaml:"verbose_logging"`       // Log every Session operation
	MetricsCollection bool `json:"metrics_collection" yaml:"metrics_collection"` // Enable metrics collection
}

// Global configuration instance
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

// Default configuration values
const (
	DefaultParallelThreshold = 1000
	DefaultMaxParallelism    = 16
	DefaultOuterJoinMode     = "compat"
	DefaultNullOrder         = "auto"
	DefaultConvertMode       = "strict"
)

var (
	outerJoinModes = []string{"compat", "distinct"}
	nullOrders     = []string{"auto", "first", "last"}
	convertModes   = []string{"strict", "best_effort"}
)

// Initialize global configuration with defaults
func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		ParallelThreshold: DefaultParallelThreshold,
		WorkerPoolSize:    0, // Auto-detect
		ChunkSize:         0, // Auto-calculate
		MaxParallelism:    DefaultMaxParallelism,

		OuterJoinMode: DefaultOuterJoinMode,
		NullOrder:     DefaultNullOrder,
		ConvertMode:   DefaultConvertMode,

		VerboseLogging:    false,
		MetricsCollection: false,
	}
}

// Validate validates the configuration and returns every problem found
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.ParallelThreshold <= 0 {
		result = multierror.Append(result, fmt.Errorf("ParallelThreshold must be positive, got %d", c.ParallelThreshold))
	}

	if c.WorkerPoolSize < 0 {
		result = multierror.Append(result, fmt.Errorf("WorkerPoolSize must be non-negative, got %d", c.WorkerPoolSize))
	}

	if c.ChunkSize < 0 {
		result = multierror.Append(result, fmt.Errorf("ChunkSize must be non-negative, got %d", c.ChunkSize))
	}

	if c.MaxParallelism <= 0 {
		result = multierror.Append(result, fmt.Errorf("MaxParallelism must be positive, got %d", c.MaxParallelism))
	}

	if err := oneOf("OuterJoinMode", c.OuterJoinMode, outerJoinModes); err != nil {
		result = multierror.Append(result, err)
	}
	if err := oneOf("NullOrder", c.NullOrder, nullOrders); err != nil {
		result = multierror.Append(result, err)
	}
	if err := oneOf("ConvertMode", c.ConvertMode, convertModes); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

func oneOf(field, got string, allowed []string) error {
	for _, a := range allowed {
		if got == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of [%s], got %q", field, strings.Join(allowed, ", "), got)
}

// WithDefaults returns a new configuration with default values filled in for zero values
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.ParallelThreshold == 0 {
		c.ParallelThreshold = defaults.ParallelThreshold
	}
	if c.MaxParallelism == 0 {
		c.MaxParallelism = defaults.MaxParallelism
	}
	if c.OuterJoinMode == "" {
		c.OuterJoinMode = defaults.OuterJoinMode
	}
	if c.NullOrder == "" {
		c.NullOrder = defaults.NullOrder
	}
	if c.ConvertMode == "" {
		c.ConvertMode = defaults.ConvertMode
	}

	// Boolean fields keep their zero values so an explicit false survives.
	return c
}

// Workers resolves WorkerPoolSize, substituting the CPU count for 0, and
// caps the result at MaxParallelism when that is set.
func (c Config) Workers() int {
	n := c.WorkerPoolSize
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if c.MaxParallelism > 0 && n > c.MaxParallelism {
		n = c.MaxParallelism
	}
	return n
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromJSON loads configuration from JSON data
func LoadFromJSON(data []byte) (Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromYAML loads configuration from YAML data
func LoadFromYAML(data []byte) (Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing YAML configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromFile loads configuration from a JSON or YAML file
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	var config Config
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		config, err = LoadFromJSON(data)
	case ".yaml", ".yml":
		config, err = LoadFromYAML(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return config, nil
}

// LoadFromEnv loads configuration from TABULAR_* environment variables on
// top of the defaults. Unparseable values are ignored.
func LoadFromEnv() Config {
	config := NewConfig()

	envInt("TABULAR_PARALLEL_THRESHOLD", &config.ParallelThreshold)
	envInt("TABULAR_WORKER_POOL_SIZE", &config.WorkerPoolSize)
	envInt("TABULAR_CHUNK_SIZE", &config.ChunkSize)
	envInt("TABULAR_MAX_PARALLELISM", &config.MaxParallelism)

	if val := os.Getenv("TABULAR_OUTER_JOIN_MODE"); val != "" {
		config.OuterJoinMode = strings.ToLower(val)
	}
	if val := os.Getenv("TABULAR_NULL_ORDER"); val != "" {
		config.NullOrder = strings.ToLower(val)
	}
	if val := os.Getenv("TABULAR_CONVERT_MODE"); val != "" {
		config.ConvertMode = strings.ToLower(val)
	}

	envBool("TABULAR_VERBOSE_LOGGING", &config.VerboseLogging)
	envBool("TABULAR_METRICS_COLLECTION", &config.MetricsCollection)

	return config
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			*dst = parsed
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			*dst = parsed
		}
	}
}
