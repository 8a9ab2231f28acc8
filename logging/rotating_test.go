package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWeekKey(t *testing.T) {
	tests := []struct {
		at       time.Time
		expected string
	}{
		{time.Date(2025, 10, 7, 12, 0, 0, 0, time.UTC), "2025-W41"},
		{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "2024-W01"},
		// ISO week of Dec 30 2024 belongs to 2025
		{time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), "2025-W01"},
	}
	for _, tt := range tests {
		if got := weekKey(tt.at); got != tt.expected {
			t.Errorf("weekKey(%v) = %s, want %s", tt.at, got, tt.expected)
		}
	}
}

func TestRotatingLoggerWritesCurrentWeek(t *testing.T) {
	dir := t.TempDir()
	rl, err := OpenRotatingLogger(dir, 1, 0)
	if err != nil {
		t.Fatalf("OpenRotatingLogger: %v", err)
	}
	defer rl.Close()

	if _, err := rl.Write([]byte("hello log\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	path := filepath.Join(dir, logFilePrefix+weekKey(time.Now())+".log")
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !strings.Contains(string(content), "hello log") {
		t.Errorf("log file missing message: %q", content)
	}
}

func TestRotatingLoggerSizeLimit(t *testing.T) {
	dir := t.TempDir()
	rl, err := OpenRotatingLogger(dir, 1, 32)
	if err != nil {
		t.Fatalf("OpenRotatingLogger: %v", err)
	}
	defer rl.Close()

	line := []byte("0123456789abcdef0123\n") // 21 bytes
	for i := 0; i < 3; i++ {
		if _, err := rl.Write(line); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
	}

	week := weekKey(time.Now())
	for _, name := range []string{rl.fileName(week, 0), rl.fileName(week, 1), rl.fileName(week, 2)} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}

func TestRotatingLoggerResumesLatestPart(t *testing.T) {
	dir := t.TempDir()
	week := weekKey(time.Now())
	for _, name := range []string{logFilePrefix + week + ".log", logFilePrefix + week + "_03.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	rl, err := OpenRotatingLogger(dir, 1, 1024)
	if err != nil {
		t.Fatalf("OpenRotatingLogger: %v", err)
	}
	defer rl.Close()

	if rl.part != 3 {
		t.Errorf("part = %d, want 3", rl.part)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, logFilePrefix+"2020-W01.log")
	other := filepath.Join(dir, "unrelated.txt")
	for _, p := range []string{old, other} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		stale := time.Now().Add(-30 * 24 * time.Hour)
		if err := os.Chtimes(p, stale, stale); err != nil {
			t.Fatal(err)
		}
	}

	rl, err := OpenRotatingLogger(dir, 1, 0)
	if err != nil {
		t.Fatalf("OpenRotatingLogger: %v", err)
	}
	defer rl.Close()

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Errorf("expected %s to be removed", old)
	}
	if _, err := os.Stat(other); err != nil {
		t.Errorf("unrelated file should be kept: %v", err)
	}
}

func TestFanoutHandler(t *testing.T) {
	var info, debug bytes.Buffer
	h := &fanoutHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}}

	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("debug should be enabled through the second handler")
	}

	logger := slog.New(h).With("component", "test").WithGroup("g")
	logger.Debug("only debug", "k", 1)
	logger.Info("both", "k", 2)

	if strings.Contains(info.String(), "only debug") {
		t.Errorf("info handler received a debug record: %s", info.String())
	}
	if !strings.Contains(info.String(), "both") || !strings.Contains(info.String(), "component=test") {
		t.Errorf("info handler output = %q", info.String())
	}
	if !strings.Contains(debug.String(), "only debug") || !strings.Contains(debug.String(), `"g":{"k":2}`) {
		t.Errorf("debug handler output = %q", debug.String())
	}
}

func TestInitLoggerWithoutDirectory(t *testing.T) {
	InitLoggerWithOptions(Options{Env: "test"})
	t.Cleanup(func() { DefaultLoggingService = nil })

	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		t.Fatal("logger not initialized")
	}
	if DefaultLoggingService.rotating != nil {
		t.Error("no rotating file expected without a directory")
	}
	if err := Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestInitLoggerWithDirectory(t *testing.T) {
	dir := t.TempDir()
	InitLoggerWithOptions(Options{Dir: dir, Env: "test"})
	t.Cleanup(func() {
		Close()
		DefaultLoggingService = nil
	})

	Info("written to file", "key", "value")

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) == 0 {
		t.Fatalf("expected a log file in %s (err=%v)", dir, err)
	}
	content, _ := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if !strings.Contains(string(content), `"msg":"written to file"`) {
		t.Errorf("file log = %q", content)
	}
}
