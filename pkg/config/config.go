// Package config loads and validates semanticmap's runtime
// configuration, adapted from the teacher's struct-of-structs
// Default()/LoadFromEnv()/Validate() pattern.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Embed  EmbedConfig  `yaml:"embed"`
	Umap   UmapConfig   `yaml:"umap"`
	Cache  CacheConfig  `yaml:"cache"`
	Store  StoreConfig  `yaml:"store"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `yaml:"host"`             // Server host (default: "0.0.0.0")
	Port            int           `yaml:"port"`              // Server port (default: 8089)
	RequestTimeout  time.Duration `yaml:"request_timeout"`   // Request timeout
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`  // Graceful shutdown timeout
	EnableTLS       bool          `yaml:"enable_tls"`        // Enable TLS
	CertFile        string        `yaml:"cert_file"`         // TLS certificate file
	KeyFile         string        `yaml:"key_file"`          // TLS key file

	JWTSecret        string   `yaml:"jwt_secret"`          // HMAC secret for bearer-token auth
	AuthEnabled      bool     `yaml:"auth_enabled"`        // Require a bearer token on non-public paths
	PublicPaths      []string `yaml:"public_paths"`        // Paths exempt from auth
	RateLimitEnabled bool     `yaml:"rate_limit_enabled"`  // Enable per-client rate limiting
	RateLimitPerSec  float64  `yaml:"rate_limit_per_sec"`  // Requests per second per client
	RateLimitBurst   int      `yaml:"rate_limit_burst"`    // Burst size per client
}

// EmbedConfig holds hashing-embedder configuration.
type EmbedConfig struct {
	Dimensions int `yaml:"dimensions"` // Vector dimensions produced by the hashing embedder (default: 512)
}

// UmapConfig holds the default UMAP parameters applied when a
// /v1/reduce request omits them.
type UmapConfig struct {
	NNeighbors         int     `yaml:"n_neighbors"`
	NEpochs            int     `yaml:"n_epochs"`
	MinDist            float32 `yaml:"min_dist"`
	Spread             float32 `yaml:"spread"`
	LearningRate       float32 `yaml:"learning_rate"`
	NegativeSampleRate int     `yaml:"negative_sample_rate"`
	SetOpMixRatio      float32 `yaml:"set_op_mix_ratio"`
	RepulsionStrength  float32 `yaml:"repulsion_strength"`
	RandomState        uint64  `yaml:"random_state"`
}

// CacheConfig holds query-result cache configuration.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`  // Enable query caching
	Capacity int           `yaml:"capacity"` // Max cache entries
	TTL      time.Duration `yaml:"ttl"`      // Time to live for cache entries
}

// StoreConfig holds chunk-storage configuration.
type StoreConfig struct {
	DataDir   string `yaml:"data_dir"`   // Data directory path
	EnableWAL bool   `yaml:"enable_wal"` // Enable write-ahead log
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8089,
			RequestTimeout:   30 * time.Second,
			ShutdownTimeout:  10 * time.Second,
			EnableTLS:        false,
			AuthEnabled:      false,
			PublicPaths:      []string{"/v1/health"},
			RateLimitEnabled: true,
			RateLimitPerSec:  20,
			RateLimitBurst:   40,
		},
		Embed: EmbedConfig{
			Dimensions: 512,
		},
		Umap: UmapConfig{
			NNeighbors:         15,
			NEpochs:            200,
			MinDist:            0.1,
			Spread:             1.0,
			LearningRate:       1.0,
			NegativeSampleRate: 5,
			SetOpMixRatio:      1.0,
			RepulsionStrength:  1.0,
			RandomState:        42,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 1000,
			TTL:      5 * time.Minute,
		},
		Store: StoreConfig{
			DataDir:   "./data",
			EnableWAL: true,
		},
	}
}

// LoadFromEnv loads configuration from environment variables, falling
// back to Default() for anything unset.
func LoadFromEnv() *Config {
	cfg := Default()

	if host := os.Getenv("SEMANTICMAP_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("SEMANTICMAP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if timeout := os.Getenv("SEMANTICMAP_REQUEST_TIMEOUT"); timeout != "" {
		if t, err := time.ParseDuration(timeout); err == nil {
			cfg.Server.RequestTimeout = t
		}
	}
	if enableTLS := os.Getenv("SEMANTICMAP_ENABLE_TLS"); enableTLS == "true" {
		cfg.Server.EnableTLS = true
		cfg.Server.CertFile = os.Getenv("SEMANTICMAP_TLS_CERT")
		cfg.Server.KeyFile = os.Getenv("SEMANTICMAP_TLS_KEY")
	}
	if secret := os.Getenv("SEMANTICMAP_JWT_SECRET"); secret != "" {
		cfg.Server.JWTSecret = secret
		cfg.Server.AuthEnabled = true
	}
	if rl := os.Getenv("SEMANTICMAP_RATE_LIMIT_ENABLED"); rl == "false" {
		cfg.Server.RateLimitEnabled = false
	}
	if rps := os.Getenv("SEMANTICMAP_RATE_LIMIT_PER_SEC"); rps != "" {
		if v, err := strconv.ParseFloat(rps, 64); err == nil {
			cfg.Server.RateLimitPerSec = v
		}
	}

	if dims := os.Getenv("SEMANTICMAP_DIMENSIONS"); dims != "" {
		if d, err := strconv.Atoi(dims); err == nil {
			cfg.Embed.Dimensions = d
		}
	}

	if n := os.Getenv("SEMANTICMAP_UMAP_N_NEIGHBORS"); n != "" {
		if v, err := strconv.Atoi(n); err == nil {
			cfg.Umap.NNeighbors = v
		}
	}
	if n := os.Getenv("SEMANTICMAP_UMAP_N_EPOCHS"); n != "" {
		if v, err := strconv.Atoi(n); err == nil {
			cfg.Umap.NEpochs = v
		}
	}
	if seed := os.Getenv("SEMANTICMAP_UMAP_RANDOM_STATE"); seed != "" {
		if v, err := strconv.ParseUint(seed, 10, 64); err == nil {
			cfg.Umap.RandomState = v
		}
	}

	if cacheEnabled := os.Getenv("SEMANTICMAP_CACHE_ENABLED"); cacheEnabled == "false" {
		cfg.Cache.Enabled = false
	}
	if capacity := os.Getenv("SEMANTICMAP_CACHE_CAPACITY"); capacity != "" {
		if c, err := strconv.Atoi(capacity); err == nil {
			cfg.Cache.Capacity = c
		}
	}
	if ttl := os.Getenv("SEMANTICMAP_CACHE_TTL"); ttl != "" {
		if t, err := time.ParseDuration(ttl); err == nil {
			cfg.Cache.TTL = t
		}
	}

	if dataDir := os.Getenv("SEMANTICMAP_DATA_DIR"); dataDir != "" {
		cfg.Store.DataDir = dataDir
	}
	if wal := os.Getenv("SEMANTICMAP_ENABLE_WAL"); wal == "false" {
		cfg.Store.EnableWAL = false
	}

	return cfg
}

// LoadFromFile starts from LoadFromEnv() and overlays a YAML config
// file on top, so a deployment can commit a base config and still
// override secrets like the JWT signing key via the environment. Only
// fields present in the file override their LoadFromEnv() value.
func LoadFromFile(path string) (*Config, error) {
	cfg := LoadFromEnv()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks whether the configuration is usable, returning the
// first offending field.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.EnableTLS {
		if c.Server.CertFile == "" || c.Server.KeyFile == "" {
			return fmt.Errorf("TLS enabled but cert or key file not specified")
		}
	}
	if c.Server.AuthEnabled && c.Server.JWTSecret == "" {
		return fmt.Errorf("auth enabled but no JWT secret configured")
	}

	if c.Embed.Dimensions < 1 {
		return fmt.Errorf("invalid dimensions: %d (must be > 0)", c.Embed.Dimensions)
	}

	if c.Umap.NNeighbors < 2 {
		return fmt.Errorf("invalid umap n_neighbors: %d (must be >= 2)", c.Umap.NNeighbors)
	}
	if c.Umap.NEpochs < 1 {
		return fmt.Errorf("invalid umap n_epochs: %d (must be >= 1)", c.Umap.NEpochs)
	}
	if c.Umap.MinDist <= 0 {
		return fmt.Errorf("invalid umap min_dist: %f (must be > 0)", c.Umap.MinDist)
	}

	if c.Cache.Enabled && c.Cache.Capacity < 1 {
		return fmt.Errorf("invalid cache capacity: %d (must be > 0)", c.Cache.Capacity)
	}

	if c.Store.DataDir == "" {
		return fmt.Errorf("data directory not specified")
	}

	return nil
}

// Address returns the server address (host:port).
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
