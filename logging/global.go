// Package logging wires log/slog for the emergency reference service: a
// console handler, a JSON handler on a weekly rotating file, package-level
// helpers and the HTTP request logging middleware.
package logging

import (
	"context"
	"log/slog"
	"os"

	"github.com/giygas/emergency-reference/config"
)

// LoggingService owns the process logger and the rotating file behind it.
type LoggingService struct {
	Logger   *slog.Logger
	rotating *RotatingLogger
}

var DefaultLoggingService *LoggingService

// Options configures InitLoggerWithOptions.
type Options struct {
	Dir            string // empty disables the file sink
	Env            config.Environment
	Level          string
	Verbose        bool
	RetentionWeeks int
	MaxFileSize    int64
}

// InitLogger initializes the global logger with development defaults.
func InitLogger(logDir string) {
	InitLoggerWithOptions(Options{
		Dir:            logDir,
		Env:            config.EnvDevelopment,
		RetentionWeeks: defaultRetentionWeeks,
		MaxFileSize:    defaultMaxFileSize,
	})
}

// InitLoggerWithOptions initializes the global logger and makes it the slog
// default. A previous service is closed first.
func InitLoggerWithOptions(opts Options) {
	if DefaultLoggingService != nil {
		DefaultLoggingService.Close()
	}
	logger, rotating := newLogger(opts)
	DefaultLoggingService = &LoggingService{Logger: logger, rotating: rotating}
	slog.SetDefault(logger)
}

// Close flushes and closes the rotating file, if any.
func (s *LoggingService) Close() error {
	if s == nil || s.rotating == nil {
		return nil
	}
	return s.rotating.Close()
}

// Close shuts down the global logging service.
func Close() error {
	return DefaultLoggingService.Close()
}

func newLogger(opts Options) (*slog.Logger, *RotatingLogger) {
	console := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: GetConsoleLogLevel(opts.Env, opts.Level, opts.Verbose),
	})
	if opts.Dir == "" {
		return slog.New(console), nil
	}

	if opts.RetentionWeeks <= 0 {
		opts.RetentionWeeks = defaultRetentionWeeks
	}
	rotating, err := OpenRotatingLogger(opts.Dir, opts.RetentionWeeks, opts.MaxFileSize)
	if err != nil {
		logger := slog.New(console)
		logger.Error("Failed to open rotating log file, logging to console only", "dir", opts.Dir, "error", err)
		return logger, nil
	}

	file := slog.NewJSONHandler(rotating, &slog.HandlerOptions{Level: GetFileLogLevel()})
	return slog.New(&fanoutHandler{handlers: []slog.Handler{console, file}}), rotating
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	logAt(slog.LevelInfo, msg, args...)
}

func Error(msg string, args ...any) {
	logAt(slog.LevelError, msg, args...)
}

func Warn(msg string, args ...any) {
	logAt(slog.LevelWarn, msg, args...)
}

func Debug(msg string, args ...any) {
	logAt(slog.LevelDebug, msg, args...)
}

func logAt(level slog.Level, msg string, args ...any) {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		// Not initialized yet: stderr at the requested level
		fallback := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		fallback.Log(context.Background(), level, msg, args...)
		return
	}
	DefaultLoggingService.Logger.Log(context.Background(), level, msg, args...)
}
