package logging

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/giygas/symptom-advisor/config"
	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLogLevel(tt.input)
			if got != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetConsoleLogLevel(t *testing.T) {
	tests := []struct {
		name        string
		env         config.Environment
		logLevelStr string
		verbose     bool
		expected    slog.Level
	}{
		{"dev defaults to info", config.EnvDevelopment, "", false, slog.LevelInfo},
		{"test quiet defaults to error", config.EnvTest, "", false, slog.LevelError},
		{"test verbose defaults to info", config.EnvTest, "", true, slog.LevelInfo},
		{"prod defaults to warn", config.EnvProduction, "", false, slog.LevelWarn},
		{"staging defaults to warn", config.EnvStaging, "", false, slog.LevelWarn},
		{"prod with debug override", config.EnvProduction, "debug", false, slog.LevelDebug},
		{"dev with error override", config.EnvDevelopment, "error", false, slog.LevelError},
		{"test ignores override", config.EnvTest, "debug", false, slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetConsoleLogLevel(tt.env, tt.logLevelStr, tt.verbose)
			if got != tt.expected {
				t.Errorf("GetConsoleLogLevel(%v, %q, %v) = %v, want %v", tt.env, tt.logLevelStr, tt.verbose, got, tt.expected)
			}
		})
	}
}

func TestGetFileLogLevel(t *testing.T) {
	if got := GetFileLogLevel(); got != slog.LevelDebug {
		t.Errorf("GetFileLogLevel() = %v, want %v", got, slog.LevelDebug)
	}
}

func TestWeekKey(t *testing.T) {
	got := weekKey(time.Date(2025, 10, 7, 12, 0, 0, 0, time.UTC))
	if got != "2025-W41" {
		t.Errorf("Expected 2025-W41, got %s", got)
	}

	// ISO week 1 of 2026 starts on 2025-12-29
	got = weekKey(time.Date(2025, 12, 30, 0, 0, 0, 0, time.UTC))
	if got != "2026-W01" {
		t.Errorf("Expected 2026-W01, got %s", got)
	}
}

func TestRotatingFileWritesCurrentWeek(t *testing.T) {
	dir := t.TempDir()

	rf, err := OpenRotatingFile(dir, 4, 0)
	if err != nil {
		t.Fatalf("Failed to open rotating file: %v", err)
	}
	defer rf.Close()

	if _, err := rf.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	path := filepath.Join(dir, filePrefix+weekKey(time.Now())+".log")
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected log file %s: %v", path, err)
	}
	if string(content) != "hello\n" {
		t.Errorf("Unexpected content: %q", content)
	}
}

func TestRotatingFileRotatesOnWeekChange(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 10, 7, 12, 0, 0, 0, time.UTC)

	rf := newRotatingFile(dir, 4, 0, func() time.Time { return now })
	defer rf.Close()

	if _, err := rf.Write([]byte("week 41\n")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	now = now.Add(7 * 24 * time.Hour)
	if _, err := rf.Write([]byte("week 42\n")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	files, err := rf.Files()
	if err != nil {
		t.Fatalf("Failed to list files: %v", err)
	}
	want := []string{"advisor-2025-W41.log", "advisor-2025-W42.log"}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, files)
	}
}

func TestRotatingFileRotatesOnSize(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 10, 7, 12, 0, 0, 0, time.UTC)

	rf := newRotatingFile(dir, 4, 10, func() time.Time { return now })
	defer rf.Close()

	for i := 0; i < 3; i++ {
		if _, err := rf.Write([]byte("12345678\n")); err != nil {
			t.Fatalf("Failed to write: %v", err)
		}
	}

	files, _ := rf.Files()
	want := []string{"advisor-2025-W41.1.log", "advisor-2025-W41.2.log", "advisor-2025-W41.log"}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, files)
	}

	// reopening continues in the newest part
	rf2 := newRotatingFile(dir, 4, 100, func() time.Time { return now })
	defer rf2.Close()
	if _, err := rf2.Write([]byte("x\n")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	content, _ := os.ReadFile(filepath.Join(dir, "advisor-2025-W41.2.log"))
	if string(content) != "12345678\nx\n" {
		t.Errorf("Expected append to newest part, got %q", content)
	}
}

func TestRotatingFileSweep(t *testing.T) {
	dir := t.TempDir()
	rf, err := OpenRotatingFile(dir, 1, 0)
	if err != nil {
		t.Fatalf("Failed to open rotating file: %v", err)
	}
	defer rf.Close()

	old := filepath.Join(dir, "advisor-2020-W01.log")
	recent := filepath.Join(dir, "advisor-2020-W02.log")
	other := filepath.Join(dir, "unrelated.txt")
	for _, p := range []string{old, recent, other} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to seed %s: %v", p, err)
		}
	}
	longAgo := time.Now().Add(-30 * 24 * time.Hour)
	_ = os.Chtimes(old, longAgo, longAgo)
	_ = os.Chtimes(other, longAgo, longAgo)

	removed, err := rf.sweep()
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 removed file, got %d", removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("Expected expired log to be removed")
	}
	for _, p := range []string{recent, other} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("Expected %s to be kept", p)
		}
	}
}

func TestRotatingFileConcurrentWrites(t *testing.T) {
	dir := t.TempDir()
	rf, err := OpenRotatingFile(dir, 1, 0)
	if err != nil {
		t.Fatalf("Failed to open rotating file: %v", err)
	}
	defer rf.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = rf.Write([]byte("line\n"))
			}
		}()
	}
	wg.Wait()

	content, _ := os.ReadFile(filepath.Join(dir, filePrefix+weekKey(time.Now())+".log"))
	if got := strings.Count(string(content), "line\n"); got != 1000 {
		t.Errorf("Expected 1000 lines, got %d", got)
	}
}

func TestInitLoggerWritesBothSinks(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	InitLogger(Options{Dir: dir, Env: config.EnvDevelopment, Level: "info", Console: &console})
	defer Close()

	Info("turn finished", "state", "rendered")
	Debug("file only")

	if !strings.Contains(console.String(), "turn finished") {
		t.Errorf("Expected console output, got %q", console.String())
	}
	if strings.Contains(console.String(), "file only") {
		t.Error("Expected debug line to stay out of the console")
	}

	content, err := os.ReadFile(filepath.Join(dir, filePrefix+weekKey(time.Now())+".log"))
	if err != nil {
		t.Fatalf("Expected log file: %v", err)
	}
	if !strings.Contains(string(content), `"msg":"turn finished"`) || !strings.Contains(string(content), `"state":"rendered"`) {
		t.Errorf("Expected JSON record in file, got %q", content)
	}
	if !strings.Contains(string(content), "file only") {
		t.Error("Expected debug line in file")
	}
}

func TestInitLoggerFallsBackToConsole(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	var console bytes.Buffer

	InitLogger(Options{Dir: filepath.Join(blocker, "logs"), Env: config.EnvDevelopment, Console: &console})
	defer Close()

	if !strings.Contains(console.String(), "File logging disabled") {
		t.Errorf("Expected fallback notice, got %q", console.String())
	}
	Warn("still logging")
	if !strings.Contains(console.String(), "still logging") {
		t.Error("Expected console logging after fallback")
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := middleware.RequestID(LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/medicines/x/label?language=hi&api_key=secret", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"status_code":404`, `"bytes_written":7`, `"level":"WARN"`, `"path":"/api/v1/medicines/x/label"`, "REDACTED"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %s in %s", want, out)
		}
	}
	if strings.Contains(out, "secret") {
		t.Error("Expected api key to be redacted")
	}
	if strings.Contains(out, `"request_id":"unknown"`) {
		t.Error("Expected request id from chi middleware")
	}
}

func TestLoggingMiddlewareSkipsQuietPaths(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for _, path := range []string{"/health", "/metrics"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Errorf("Expected 200 for %s, got %d", path, rr.Code)
		}
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no log output, got %q", buf.String())
	}
}
