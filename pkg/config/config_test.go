package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected host 0.0.0.0, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8089 {
		t.Errorf("Expected port 8089, got %d", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Errorf("Expected request timeout 30s, got %v", cfg.Server.RequestTimeout)
	}
	if cfg.Server.EnableTLS {
		t.Error("Expected TLS disabled by default")
	}
	if cfg.Server.AuthEnabled {
		t.Error("Expected auth disabled by default")
	}

	if cfg.Embed.Dimensions != 512 {
		t.Errorf("Expected dimensions 512, got %d", cfg.Embed.Dimensions)
	}

	if cfg.Umap.NNeighbors != 15 {
		t.Errorf("Expected n_neighbors 15, got %d", cfg.Umap.NNeighbors)
	}
	if cfg.Umap.NEpochs != 200 {
		t.Errorf("Expected n_epochs 200, got %d", cfg.Umap.NEpochs)
	}

	if !cfg.Cache.Enabled {
		t.Error("Expected cache enabled by default")
	}
	if cfg.Cache.Capacity != 1000 {
		t.Errorf("Expected cache capacity 1000, got %d", cfg.Cache.Capacity)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("Expected cache TTL 5m, got %v", cfg.Cache.TTL)
	}

	if cfg.Store.DataDir != "./data" {
		t.Errorf("Expected data dir ./data, got %s", cfg.Store.DataDir)
	}
	if !cfg.Store.EnableWAL {
		t.Error("Expected WAL enabled by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	envVars := []string{
		"SEMANTICMAP_HOST", "SEMANTICMAP_PORT", "SEMANTICMAP_REQUEST_TIMEOUT",
		"SEMANTICMAP_ENABLE_TLS", "SEMANTICMAP_JWT_SECRET",
		"SEMANTICMAP_DIMENSIONS", "SEMANTICMAP_UMAP_N_NEIGHBORS", "SEMANTICMAP_UMAP_N_EPOCHS",
		"SEMANTICMAP_CACHE_ENABLED", "SEMANTICMAP_CACHE_CAPACITY", "SEMANTICMAP_CACHE_TTL",
		"SEMANTICMAP_DATA_DIR", "SEMANTICMAP_ENABLE_WAL",
	}

	originalEnv := make(map[string]string)
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
	}
	defer func() {
		for key, value := range originalEnv {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
	}()

	os.Setenv("SEMANTICMAP_HOST", "127.0.0.1")
	os.Setenv("SEMANTICMAP_PORT", "8080")
	os.Setenv("SEMANTICMAP_REQUEST_TIMEOUT", "60s")
	os.Setenv("SEMANTICMAP_ENABLE_TLS", "true")
	os.Setenv("SEMANTICMAP_TLS_CERT", "/tmp/cert.pem")
	os.Setenv("SEMANTICMAP_TLS_KEY", "/tmp/key.pem")
	os.Setenv("SEMANTICMAP_DIMENSIONS", "1024")
	os.Setenv("SEMANTICMAP_UMAP_N_NEIGHBORS", "30")
	os.Setenv("SEMANTICMAP_UMAP_N_EPOCHS", "50")
	os.Setenv("SEMANTICMAP_CACHE_ENABLED", "false")
	os.Setenv("SEMANTICMAP_CACHE_CAPACITY", "5000")
	os.Setenv("SEMANTICMAP_CACHE_TTL", "10m")
	os.Setenv("SEMANTICMAP_DATA_DIR", "/var/lib/semanticmap")
	os.Setenv("SEMANTICMAP_ENABLE_WAL", "false")

	cfg := LoadFromEnv()

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Expected host 127.0.0.1, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 60*time.Second {
		t.Errorf("Expected request timeout 60s, got %v", cfg.Server.RequestTimeout)
	}
	if !cfg.Server.EnableTLS {
		t.Error("Expected TLS enabled")
	}

	if cfg.Embed.Dimensions != 1024 {
		t.Errorf("Expected dimensions 1024, got %d", cfg.Embed.Dimensions)
	}
	if cfg.Umap.NNeighbors != 30 {
		t.Errorf("Expected n_neighbors 30, got %d", cfg.Umap.NNeighbors)
	}
	if cfg.Umap.NEpochs != 50 {
		t.Errorf("Expected n_epochs 50, got %d", cfg.Umap.NEpochs)
	}

	if cfg.Cache.Enabled {
		t.Error("Expected cache disabled")
	}
	if cfg.Cache.Capacity != 5000 {
		t.Errorf("Expected cache capacity 5000, got %d", cfg.Cache.Capacity)
	}
	if cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("Expected cache TTL 10m, got %v", cfg.Cache.TTL)
	}

	if cfg.Store.DataDir != "/var/lib/semanticmap" {
		t.Errorf("Expected data dir /var/lib/semanticmap, got %s", cfg.Store.DataDir)
	}
	if cfg.Store.EnableWAL {
		t.Error("Expected WAL disabled")
	}
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	originalPort := os.Getenv("SEMANTICMAP_PORT")
	defer func() {
		if originalPort == "" {
			os.Unsetenv("SEMANTICMAP_PORT")
		} else {
			os.Setenv("SEMANTICMAP_PORT", originalPort)
		}
	}()

	os.Setenv("SEMANTICMAP_PORT", "not-a-number")
	cfg := LoadFromEnv()

	if cfg.Server.Port != 8089 {
		t.Errorf("Expected default port 8089 for invalid value, got %d", cfg.Server.Port)
	}
}

func TestLoadFromEnv_DefaultsWhenNotSet(t *testing.T) {
	envVars := []string{
		"SEMANTICMAP_HOST", "SEMANTICMAP_PORT", "SEMANTICMAP_DIMENSIONS",
		"SEMANTICMAP_CACHE_ENABLED", "SEMANTICMAP_DATA_DIR",
	}
	originalEnv := make(map[string]string)
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		os.Unsetenv(key)
	}
	defer func() {
		for key, value := range originalEnv {
			if value != "" {
				os.Setenv(key, value)
			}
		}
	}()

	cfg := LoadFromEnv()
	defaults := Default()

	if cfg.Server.Host != defaults.Server.Host {
		t.Errorf("Expected default host, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != defaults.Server.Port {
		t.Errorf("Expected default port, got %d", cfg.Server.Port)
	}
	if cfg.Embed.Dimensions != defaults.Embed.Dimensions {
		t.Errorf("Expected default dimensions, got %d", cfg.Embed.Dimensions)
	}
	if cfg.Cache.Enabled != defaults.Cache.Enabled {
		t.Errorf("Expected default cache enabled, got %v", cfg.Cache.Enabled)
	}
	if cfg.Store.DataDir != defaults.Store.DataDir {
		t.Errorf("Expected default data dir, got %s", cfg.Store.DataDir)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid default config",
			config:  Default(),
			wantErr: false,
		},
		{
			name: "invalid port (too low)",
			config: &Config{
				Server: ServerConfig{Port: 0},
				Embed:  EmbedConfig{Dimensions: 512},
				Umap:   UmapConfig{NNeighbors: 15, NEpochs: 1, MinDist: 0.1},
				Store:  StoreConfig{DataDir: "./data"},
			},
			wantErr: true,
		},
		{
			name: "invalid port (too high)",
			config: &Config{
				Server: ServerConfig{Port: 70000},
				Embed:  EmbedConfig{Dimensions: 512},
				Umap:   UmapConfig{NNeighbors: 15, NEpochs: 1, MinDist: 0.1},
				Store:  StoreConfig{DataDir: "./data"},
			},
			wantErr: true,
		},
		{
			name: "invalid dimensions",
			config: &Config{
				Server: ServerConfig{Port: 8089},
				Embed:  EmbedConfig{Dimensions: 0},
				Umap:   UmapConfig{NNeighbors: 15, NEpochs: 1, MinDist: 0.1},
				Store:  StoreConfig{DataDir: "./data"},
			},
			wantErr: true,
		},
		{
			name: "invalid umap n_neighbors",
			config: &Config{
				Server: ServerConfig{Port: 8089},
				Embed:  EmbedConfig{Dimensions: 512},
				Umap:   UmapConfig{NNeighbors: 1, NEpochs: 1, MinDist: 0.1},
				Store:  StoreConfig{DataDir: "./data"},
			},
			wantErr: true,
		},
		{
			name: "auth enabled without secret",
			config: &Config{
				Server: ServerConfig{Port: 8089, AuthEnabled: true},
				Embed:  EmbedConfig{Dimensions: 512},
				Umap:   UmapConfig{NNeighbors: 15, NEpochs: 1, MinDist: 0.1},
				Store:  StoreConfig{DataDir: "./data"},
			},
			wantErr: true,
		},
		{
			name: "missing data dir",
			config: &Config{
				Server: ServerConfig{Port: 8089},
				Embed:  EmbedConfig{Dimensions: 512},
				Umap:   UmapConfig{NNeighbors: 15, NEpochs: 1, MinDist: 0.1},
				Store:  StoreConfig{DataDir: ""},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := []byte(`
server:
  host: 10.0.0.5
  port: 9090
embed:
  dimensions: 256
umap:
  n_neighbors: 10
  n_epochs: 100
  min_dist: 0.1
store:
  data_dir: /srv/semanticmap
`)
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("failed to write test config file: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}

	if cfg.Server.Host != "10.0.0.5" {
		t.Errorf("Expected host 10.0.0.5, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Embed.Dimensions != 256 {
		t.Errorf("Expected dimensions 256, got %d", cfg.Embed.Dimensions)
	}
	if cfg.Umap.NNeighbors != 10 {
		t.Errorf("Expected n_neighbors 10, got %d", cfg.Umap.NNeighbors)
	}
	if cfg.Store.DataDir != "/srv/semanticmap" {
		t.Errorf("Expected data dir /srv/semanticmap, got %s", cfg.Store.DataDir)
	}
	// Cache section was absent from the file, so env/Default() values survive.
	if cfg.Cache.Capacity != Default().Cache.Capacity {
		t.Errorf("Expected cache capacity to fall back to default, got %d", cfg.Cache.Capacity)
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/path/config.yaml"); err == nil {
		t.Error("Expected an error for a missing config file")
	}
}

func TestServerConfig_Address(t *testing.T) {
	cfg := ServerConfig{
		Host: "localhost",
		Port: 8080,
	}

	addr := cfg.Address()
	expected := "localhost:8080"

	if addr != expected {
		t.Errorf("Expected address %s, got %s", expected, addr)
	}

	defaultCfg := Default()
	addr = defaultCfg.Server.Address()
	expected = "0.0.0.0:8089"

	if addr != expected {
		t.Errorf("Expected default address %s, got %s", expected, addr)
	}
}
