package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kestrelhq/semanticmap/pkg/config"
	"github.com/kestrelhq/semanticmap/pkg/httpapi"
	"github.com/kestrelhq/semanticmap/pkg/observability"
	"github.com/kestrelhq/semanticmap/pkg/store"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version and exit")
		showHelp    = flag.Bool("help", false, "show help and exit")
		configPath  = flag.String("config", "", "path to a YAML config file (overlays env-loaded config)")
		host        = flag.String("host", "", "server host (overrides config/env)")
		port        = flag.Int("port", 0, "server port (overrides config/env)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("semanticmap server v%s (commit: %s)\n", version, commit)
		os.Exit(0)
	}
	if *showHelp {
		showUsage()
		os.Exit(0)
	}

	printBanner()

	var cfg *config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFromFile(*configPath)
		if err != nil {
			log.Fatalf("failed to load config file: %v", err)
		}
	} else {
		cfg = config.LoadFromEnv()
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := observability.NewDefaultLogger()
	metrics := observability.NewMetrics()

	if err := os.MkdirAll(cfg.Store.DataDir, 0o755); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}
	dbPath := cfg.Store.DataDir + "/semanticmap.db"
	st, err := store.Open(dbPath, cfg.Store.EnableWAL)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	server := httpapi.NewServer(cfg, st, metrics, logger)
	printStartupInfo(cfg, dbPath)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	log.Println("server is ready. Press Ctrl+C to stop.")
	select {
	case sig := <-sigChan:
		log.Printf("received signal: %v", sig)
	case err := <-errChan:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Printf("error stopping server: %v", err)
	}

	log.Println("server stopped. Goodbye!")
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                      semanticmap                           ║
║   From-scratch UMAP/PCA dimensionality reduction over      ║
║   hashed text embeddings                                   ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
	fmt.Printf("Version: %s (commit: %s)\n\n", version, commit)
}

func printStartupInfo(cfg *config.Config, dbPath string) {
	fmt.Println("\n╔════════════════════════════════════════════════════════╗")
	fmt.Println("║            HTTP Server Configuration                   ║")
	fmt.Println("╠════════════════════════════════════════════════════════╣")
	fmt.Printf("║ Address:          %-35s ║\n", cfg.Server.Address())
	fmt.Printf("║ TLS Enabled:      %-35v ║\n", cfg.Server.EnableTLS)
	fmt.Printf("║ Auth Enabled:     %-35v ║\n", cfg.Server.AuthEnabled)
	fmt.Printf("║ Rate Limiting:    %-35v ║\n", cfg.Server.RateLimitEnabled)
	fmt.Println("╠════════════════════════════════════════════════════════╣")
	fmt.Println("║            Embedding / UMAP Configuration              ║")
	fmt.Println("╠════════════════════════════════════════════════════════╣")
	fmt.Printf("║ Dimensions:       %-35d ║\n", cfg.Embed.Dimensions)
	fmt.Printf("║ n_neighbors:      %-35d ║\n", cfg.Umap.NNeighbors)
	fmt.Printf("║ n_epochs:         %-35d ║\n", cfg.Umap.NEpochs)
	fmt.Println("╠════════════════════════════════════════════════════════╣")
	fmt.Println("║            Cache / Store Configuration                 ║")
	fmt.Println("╠════════════════════════════════════════════════════════╣")
	fmt.Printf("║ Cache Enabled:    %-35v ║\n", cfg.Cache.Enabled)
	fmt.Printf("║ Cache Capacity:   %-35d ║\n", cfg.Cache.Capacity)
	fmt.Printf("║ Database:         %-35s ║\n", dbPath)
	fmt.Println("╚════════════════════════════════════════════════════════╝")
	fmt.Println()
}

func showUsage() {
	fmt.Println("semanticmap server - UMAP/PCA dimensionality reduction over hashed text embeddings")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  semanticmapd [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -help             Show this help message")
	fmt.Println("  -version          Show version information")
	fmt.Println("  -host HOST        Server host (default: 0.0.0.0)")
	fmt.Println("  -port PORT        Server port (default: 8089)")
	fmt.Println("  -config PATH      YAML config file overlaying env-loaded config")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  SEMANTICMAP_HOST                Server host")
	fmt.Println("  SEMANTICMAP_PORT                Server port")
	fmt.Println("  SEMANTICMAP_DIMENSIONS          Hashing-embedder dimensions")
	fmt.Println("  SEMANTICMAP_UMAP_N_NEIGHBORS    Default UMAP n_neighbors")
	fmt.Println("  SEMANTICMAP_UMAP_N_EPOCHS       Default UMAP n_epochs")
	fmt.Println("  SEMANTICMAP_CACHE_ENABLED       Enable query cache (true/false)")
	fmt.Println("  SEMANTICMAP_DATA_DIR            Data directory path")
	fmt.Println("  SEMANTICMAP_JWT_SECRET          Enable bearer auth with this HMAC secret")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  semanticmapd")
	fmt.Println("  semanticmapd -port 8080")
	fmt.Println("  SEMANTICMAP_PORT=8080 SEMANTICMAP_DIMENSIONS=1024 semanticmapd")
	fmt.Println()
}
