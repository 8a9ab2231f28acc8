package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultRetentionWeeks = 4
	defaultMaxFileSize    = 100 * 1024 * 1024
	logFilePrefix         = "emergency-reference-"
)

var partSuffix = regexp.MustCompile(`_(\d{2})\.log$`)

// RotatingLogger is an io.Writer over one log file per ISO week. A week that
// outgrows maxFileSize continues in numbered part files (_01, _02, ...).
// Files older than the retention window are removed on every rotation.
type RotatingLogger struct {
	mu          sync.Mutex
	dir         string
	retention   time.Duration
	maxFileSize int64

	file *os.File
	week string
	part int
	size int64

	now func() time.Time
}

// OpenRotatingLogger creates dir if needed and opens the current week's file.
func OpenRotatingLogger(dir string, retentionWeeks int, maxFileSize int64) (*RotatingLogger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	rl := &RotatingLogger{
		dir:         dir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
		now:         time.Now,
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if err := rl.rotate(weekKey(rl.now())); err != nil {
		return nil, err
	}
	return rl, nil
}

// weekKey returns the ISO week as YYYY-Www.
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (rl *RotatingLogger) fileName(week string, part int) string {
	if part == 0 {
		return logFilePrefix + week + ".log"
	}
	return fmt.Sprintf("%s%s_%02d.log", logFilePrefix, week, part)
}

// Write appends p, rotating first when the week changed or p would overflow
// the size cap.
func (rl *RotatingLogger) Write(p []byte) (int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	week := weekKey(rl.now())
	switch {
	case rl.file == nil || week != rl.week:
		if err := rl.rotate(week); err != nil {
			return 0, err
		}
	case rl.maxFileSize > 0 && rl.size > 0 && rl.size+int64(len(p)) > rl.maxFileSize:
		if err := rl.openPart(week, rl.part+1); err != nil {
			return 0, err
		}
	}

	n, err := rl.file.Write(p)
	rl.size += int64(n)
	return n, err
}

// rotate opens the newest file of week that still has room. Caller holds mu.
func (rl *RotatingLogger) rotate(week string) error {
	part := rl.latestPart(week)
	if err := rl.openPart(week, part); err != nil {
		return err
	}
	if rl.maxFileSize > 0 && rl.size >= rl.maxFileSize {
		if err := rl.openPart(week, part+1); err != nil {
			return err
		}
	}
	rl.cleanupOldLogs()
	return nil
}

func (rl *RotatingLogger) openPart(week string, part int) error {
	if rl.file != nil {
		rl.file.Close()
		rl.file = nil
	}
	path := filepath.Join(rl.dir, rl.fileName(week, part))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	rl.file, rl.week, rl.part, rl.size = f, week, part, size
	return nil
}

func (rl *RotatingLogger) latestPart(week string) int {
	matches, _ := filepath.Glob(filepath.Join(rl.dir, logFilePrefix+week+"_??.log"))
	latest := 0
	for _, m := range matches {
		sub := partSuffix.FindStringSubmatch(m)
		if len(sub) < 2 {
			continue
		}
		if n, err := strconv.Atoi(sub[1]); err == nil && n > latest {
			latest = n
		}
	}
	return latest
}

// cleanupOldLogs removes log files last modified before the retention window
// and returns how many were removed.
func (rl *RotatingLogger) cleanupOldLogs() int {
	if rl.retention <= 0 {
		return 0
	}
	entries, err := os.ReadDir(rl.dir)
	if err != nil {
		return 0
	}
	cutoff := rl.now().Add(-rl.retention)
	removed := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		if rl.file != nil && filepath.Base(rl.file.Name()) == name {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if os.Remove(filepath.Join(rl.dir, name)) == nil {
			removed++
		}
	}
	return removed
}

// Close closes the current file.
func (rl *RotatingLogger) Close() error {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.file == nil {
		return nil
	}
	err := rl.file.Close()
	rl.file = nil
	return err
}
