package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLogger_New(t *testing.T) {
	logger := NewLogger(INFO, nil)
	if logger == nil {
		t.Fatal("Expected logger to be created")
	}

	if logger.level != INFO {
		t.Errorf("Expected log level INFO, got %v", logger.level)
	}
}

func TestLogger_WithFields(t *testing.T) {
	logger := NewLogger(INFO, nil)
	fields := map[string]interface{}{
		"source":      "handbook.md",
		"chunk_index": 3,
	}

	newLogger := logger.WithFields(fields)

	if len(newLogger.fields) != 2 {
		t.Errorf("Expected 2 fields, got %d", len(newLogger.fields))
	}
}

func TestLogger_WithField(t *testing.T) {
	logger := NewLogger(INFO, nil)
	newLogger := logger.WithField("source", "handbook.md")

	if len(newLogger.fields) != 1 {
		t.Errorf("Expected 1 field, got %d", len(newLogger.fields))
	}

	if newLogger.fields["source"] != "handbook.md" {
		t.Errorf("Expected field 'source' to be 'handbook.md', got %v", newLogger.fields["source"])
	}
}

func TestLogger_Info(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(INFO, &buf)

	logger.Info("ingest batch complete")

	output := buf.String()
	if !strings.Contains(output, "INFO") {
		t.Error("Expected log to contain 'INFO'")
	}
	if !strings.Contains(output, "ingest batch complete") {
		t.Error("Expected log to contain 'ingest batch complete'")
	}
}

func TestLogger_Debug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(DEBUG, &buf)

	logger.Debug("computed smooth-knn sigma for row")

	output := buf.String()
	if !strings.Contains(output, "DEBUG") {
		t.Error("Expected log to contain 'DEBUG'")
	}
	if !strings.Contains(output, "computed smooth-knn sigma for row") {
		t.Error("Expected log to contain the debug message")
	}
}

func TestLogger_DebugFiltered(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(INFO, &buf) // INFO level should filter DEBUG

	logger.Debug("computed smooth-knn sigma for row")

	output := buf.String()
	if output != "" {
		t.Errorf("Expected no output for DEBUG when level is INFO, got: %s", output)
	}
}

func TestLogger_Warn(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WARN, &buf)

	logger.Warn("umap reduce fell back to pca")

	output := buf.String()
	if !strings.Contains(output, "WARN") {
		t.Error("Expected log to contain 'WARN'")
	}
}

func TestLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(ERROR, &buf)

	logger.Error("failed to persist chunk")

	output := buf.String()
	if !strings.Contains(output, "ERROR") {
		t.Error("Expected log to contain 'ERROR'")
	}
}

func TestLogger_InfoWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(INFO, &buf)

	logger.Info("ingest batch complete", map[string]interface{}{
		"source": "handbook.md",
		"chunks": 7,
	})

	output := buf.String()
	if !strings.Contains(output, "source=handbook.md") {
		t.Error("Expected log to contain 'source=handbook.md'")
	}
	if !strings.Contains(output, "chunks=7") {
		t.Error("Expected log to contain 'chunks=7'")
	}
}

func TestLogger_Infof(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(INFO, &buf)

	logger.Infof("indexed %d chunks from %s", 12, "handbook.md")

	output := buf.String()
	if !strings.Contains(output, "indexed 12 chunks from handbook.md") {
		t.Error("Expected log to contain formatted message")
	}
}

func TestLogger_Debugf(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(DEBUG, &buf)

	logger.Debugf("top-%d cosine scan over %d rows", 10, 4096)

	output := buf.String()
	if !strings.Contains(output, "top-10 cosine scan over 4096 rows") {
		t.Error("Expected log to contain the formatted debug message")
	}
}

func TestLogger_LogOperation_Success(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(INFO, &buf)

	err := logger.LogOperation("ingest_batch", func() error {
		return nil
	})

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Starting operation: ingest_batch") {
		t.Error("Expected log to contain 'Starting operation'")
	}
	if !strings.Contains(output, "Operation completed: ingest_batch") {
		t.Error("Expected log to contain 'Operation completed'")
	}
}

func TestLogger_LogOperation_Failure(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(INFO, &buf)

	testErr := errors.New("chunk insert failed")
	err := logger.LogOperation("ingest_batch", func() error {
		return testErr
	})

	if err != testErr {
		t.Errorf("Expected error to be returned, got %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Operation failed: ingest_batch") {
		t.Error("Expected log to contain 'Operation failed'")
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(INFO, &buf)

	logger.SetLevel(WARN)

	logger.Info("should not appear")
	if buf.String() != "" {
		t.Error("Expected INFO message to be filtered")
	}

	logger.Warn("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Error("Expected WARN message to appear")
	}
}

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{FATAL, "FATAL"},
	}

	for _, tt := range tests {
		if tt.level.String() != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, tt.level.String())
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"DEBUG", DEBUG},
		{"debug", DEBUG},
		{"INFO", INFO},
		{"info", INFO},
		{"WARN", WARN},
		{"warn", WARN},
		{"WARNING", WARN},
		{"ERROR", ERROR},
		{"error", ERROR},
		{"FATAL", FATAL},
		{"fatal", FATAL},
		{"unknown", INFO}, // Default
	}

	for _, tt := range tests {
		result := ParseLogLevel(tt.input)
		if result != tt.expected {
			t.Errorf("ParseLogLevel(%s): expected %v, got %v", tt.input, tt.expected, result)
		}
	}
}

func TestGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(INFO, &buf)
	SetGlobalLogger(logger)

	Info("semanticmapd starting")

	output := buf.String()
	if !strings.Contains(output, "semanticmapd starting") {
		t.Error("Expected global logger to log message")
	}
}

func TestAccessLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(INFO, &buf)
	accessLogger := NewAccessLogger(logger)

	accessLogger.LogAccess("GET", "/v1/search", "200", 0, map[string]interface{}{
		"q": "cosine similarity",
	})

	output := buf.String()
	if !strings.Contains(output, "Access") {
		t.Error("Expected log to contain 'Access'")
	}
	if !strings.Contains(output, "method=GET") {
		t.Error("Expected log to contain 'method=GET'")
	}
	if !strings.Contains(output, "q=cosine similarity") {
		t.Error("Expected log to contain the query field")
	}
}

func TestLogger_LogOperationWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(INFO, &buf)

	fields := map[string]interface{}{
		"batch_id": "b-12345",
	}

	err := logger.LogOperationWithFields("ingest_batch", fields, func() error {
		return nil
	})

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "batch_id=b-12345") {
		t.Error("Expected log to contain batch_id field")
	}
}
