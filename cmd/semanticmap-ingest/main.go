package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const version = "1.0.0"

func main() {
	var (
		file           = flag.String("file", "", "path to a text file to ingest (required)")
		source         = flag.String("source", "", "source name recorded with each chunk (default: file name)")
		server         = flag.String("server", "http://localhost:8089", "semanticmap server base URL")
		tokensPerChunk = flag.Int("tokens-per-chunk", 1000, "tokens per chunk")
		overlap        = flag.Int("overlap", 100, "overlapping tokens between consecutive chunks")
		dim            = flag.Int("dim", 0, "embedding dimensions (0 uses the server default)")
		token          = flag.String("token", "", "bearer token, if the server requires auth")
		timeout        = flag.Duration("timeout", 30*time.Second, "request timeout")
		showVersion    = flag.Bool("version", false, "show version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("semanticmap-ingest version %s\n", version)
		os.Exit(0)
	}

	if *file == "" {
		fmt.Println("Error: -file is required")
		flag.Usage()
		os.Exit(1)
	}

	content, err := os.ReadFile(*file)
	if err != nil {
		fmt.Printf("Error reading %s: %v\n", *file, err)
		os.Exit(1)
	}

	src := *source
	if src == "" {
		src = filepath.Base(*file)
	}

	body, err := json.Marshal(map[string]interface{}{
		"source":           src,
		"content":          string(content),
		"tokens_per_chunk": *tokensPerChunk,
		"overlap":          *overlap,
		"dim":              *dim,
	})
	if err != nil {
		fmt.Printf("Error encoding request: %v\n", err)
		os.Exit(1)
	}

	url := *server + "/v1/ingest"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if *token != "" {
		req.Header.Set("Authorization", "Bearer "+*token)
	}

	client := &http.Client{Timeout: *timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error: failed to reach %s: %v\n", url, err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("Error reading response: %v\n", err)
		os.Exit(1)
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Ingest failed (%s): %s\n", resp.Status, string(respBody))
		os.Exit(1)
	}

	var result struct {
		Source    string `json:"source"`
		Chunks    int    `json:"chunks"`
		TotalRows int64  `json:"total_rows"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		fmt.Printf("Error parsing response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Ingested %q as %d chunk(s) (total chunks in store: %d)\n", result.Source, result.Chunks, result.TotalRows)
}
