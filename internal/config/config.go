// Package config loads the profrag YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/profrag/internal/domain"
)

// Config holds the profrag configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Cache     CacheConfig     `yaml:"cache"`
	Directory DirectoryConfig `yaml:"directory"`
	Index     IndexConfig     `yaml:"index"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds the OpenAI-compatible embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // metrics label only
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	MaxBatch   int    `yaml:"max_batch"`
}

// WeightsConfig holds fuzzy matcher field weights.
type WeightsConfig struct {
	FullName       float64 `yaml:"full_name"`
	NormalizedName float64 `yaml:"normalized_name"`
	Department     float64 `yaml:"department"`
	Subject        float64 `yaml:"subject"`
}

// RetrievalConfig holds resolution and fusion settings.
type RetrievalConfig struct {
	TopK             int           `yaml:"top_k"`
	FuzzyThreshold   float64       `yaml:"fuzzy_threshold"`
	Weights          WeightsConfig `yaml:"weights"`
	Honorifics       []string      `yaml:"honorifics"`
	MaxSuggestions   int           `yaml:"max_suggestions"`
	MaxCandidates    int           `yaml:"max_candidates"`
	MaxRetries       *int          `yaml:"max_retries"` // nil = default, 0 disables retries
	RetryBaseDelayMs int           `yaml:"retry_base_delay_ms"`
	CallTimeoutMs    int           `yaml:"call_timeout_ms"`
}

// CacheConfig holds in-process cache settings.
type CacheConfig struct {
	DirectoryTTLSec   int `yaml:"directory_ttl_sec"`
	EmbeddingTTLSec   int `yaml:"embedding_ttl_sec"`
	EmbeddingCapacity int `yaml:"embedding_capacity"`
}

// DirectoryConfig holds directory listing settings.
type DirectoryConfig struct {
	PageSize int `yaml:"page_size"`
}

// IndexConfig holds HNSW index and ingestion settings.
type IndexConfig struct {
	HNSWM           int `yaml:"hnsw_m"`
	HNSWEFConstruct int `yaml:"hnsw_ef_construction"`
	IngestBatchSize int `yaml:"ingest_batch_size"`
}

// RetryBaseDelay returns the retry base delay as a duration.
func (r RetrievalConfig) RetryBaseDelay() time.Duration {
	return time.Duration(r.RetryBaseDelayMs) * time.Millisecond
}

// CallTimeout returns the per-attempt timeout as a duration.
func (r RetrievalConfig) CallTimeout() time.Duration {
	return time.Duration(r.CallTimeoutMs) * time.Millisecond
}

// Retries returns the configured retry count.
func (r RetrievalConfig) Retries() int {
	if r.MaxRetries == nil {
		return defaultMaxRetries
	}
	return *r.MaxRetries
}

// DirectoryTTL returns the directory cache lifetime.
func (c CacheConfig) DirectoryTTL() time.Duration {
	return time.Duration(c.DirectoryTTLSec) * time.Second
}

// EmbeddingTTL returns the embedding cache lifetime.
func (c CacheConfig) EmbeddingTTL() time.Duration {
	return time.Duration(c.EmbeddingTTLSec) * time.Second
}

const defaultMaxRetries = 2

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = domain.DefaultEmbeddingModel
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = domain.DefaultVectorDim
	}
	if c.Embedding.MaxBatch <= 0 {
		c.Embedding.MaxBatch = 256
	}
	c.applyRetrievalDefaults()
	if c.Cache.DirectoryTTLSec <= 0 {
		c.Cache.DirectoryTTLSec = 3600
	}
	if c.Cache.EmbeddingTTLSec <= 0 {
		c.Cache.EmbeddingTTLSec = 3600
	}
	if c.Cache.EmbeddingCapacity <= 0 {
		c.Cache.EmbeddingCapacity = 10000
	}
	if c.Directory.PageSize <= 0 {
		c.Directory.PageSize = 500
	}
	if c.Index.HNSWM <= 0 {
		c.Index.HNSWM = 32
	}
	if c.Index.HNSWEFConstruct <= 0 {
		c.Index.HNSWEFConstruct = 400
	}
	if c.Index.IngestBatchSize <= 0 {
		c.Index.IngestBatchSize = 128
	}
}

func (c *Config) applyRetrievalDefaults() {
	r := &c.Retrieval
	if r.TopK <= 0 {
		r.TopK = 5
	}
	if r.FuzzyThreshold <= 0 {
		r.FuzzyThreshold = 0.65
	}
	if r.Weights == (WeightsConfig{}) {
		r.Weights = WeightsConfig{FullName: 2, NormalizedName: 2, Department: 0.5, Subject: 0.5}
	}
	if r.MaxSuggestions <= 0 {
		r.MaxSuggestions = 5
	}
	if r.MaxCandidates <= 0 {
		r.MaxCandidates = 256
	}
	if r.MaxRetries == nil {
		n := defaultMaxRetries
		r.MaxRetries = &n
	}
	if r.RetryBaseDelayMs <= 0 {
		r.RetryBaseDelayMs = 200
	}
	if r.CallTimeoutMs <= 0 {
		r.CallTimeoutMs = 10000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding.api_key is required")
	}
	if t := c.Retrieval.FuzzyThreshold; t > 1 {
		return fmt.Errorf("retrieval.fuzzy_threshold must be in (0, 1], got %g", t)
	}
	w := c.Retrieval.Weights
	if w.FullName < 0 || w.NormalizedName < 0 || w.Department < 0 || w.Subject < 0 {
		return fmt.Errorf("retrieval.weights must not be negative")
	}
	if w.FullName == 0 && w.NormalizedName == 0 {
		return fmt.Errorf("retrieval.weights: at least one name field must be searched")
	}
	if c.Retrieval.MaxRetries != nil && *c.Retrieval.MaxRetries < 0 {
		return fmt.Errorf("retrieval.max_retries must not be negative, got %d", *c.Retrieval.MaxRetries)
	}
	if c.Retrieval.MaxCandidates > 512 {
		return fmt.Errorf("retrieval.max_candidates must be at most 512, got %d", c.Retrieval.MaxCandidates)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
