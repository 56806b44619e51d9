// Package logging configures the process-wide slog logger: human-readable
// text on the console and JSON lines in a weekly rotating file.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/giygas/symptom-advisor/config"
)

// Options configures InitLogger.
type Options struct {
	Dir            string
	Env            config.Environment
	Level          string
	Verbose        bool
	RetentionWeeks int
	MaxFileSize    int64
	Console        io.Writer // defaults to os.Stdout
}

type LoggingService struct {
	Logger *slog.Logger
	file   *RotatingFile
}

var (
	DefaultLoggingService *LoggingService
	serviceMu             sync.Mutex
)

// parseLogLevel maps a LOG_LEVEL value to a slog level, info when unknown.
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// GetConsoleLogLevel resolves the console level. Tests stay quiet unless
// verbose; other environments honour an explicit level, then fall back to
// info in dev and warn in staging and prod.
func GetConsoleLogLevel(env config.Environment, levelStr string, verbose bool) slog.Level {
	if env == config.EnvTest {
		if verbose {
			return slog.LevelInfo
		}
		return slog.LevelError
	}
	if levelStr != "" {
		return parseLogLevel(levelStr)
	}
	if env == config.EnvProduction || env == config.EnvStaging {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// GetFileLogLevel is the level of the rotating file, which keeps everything.
func GetFileLogLevel() slog.Level {
	return slog.LevelDebug
}

// InitLogger installs the global logger. When the log directory cannot be
// used it logs to the console only and reports why.
func InitLogger(opts Options) {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	if opts.RetentionWeeks <= 0 {
		opts.RetentionWeeks = 4
	}

	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{
		Level: GetConsoleLogLevel(opts.Env, opts.Level, opts.Verbose),
	})

	service := &LoggingService{}
	file, err := OpenRotatingFile(opts.Dir, opts.RetentionWeeks, opts.MaxFileSize)
	if err != nil {
		service.Logger = slog.New(consoleHandler)
		service.Logger.Error("File logging disabled", "dir", opts.Dir, "error", err)
	} else {
		service.file = file
		service.Logger = slog.New(fanoutHandler{
			consoleHandler,
			slog.NewJSONHandler(file, &slog.HandlerOptions{Level: GetFileLogLevel()}),
		})
	}

	serviceMu.Lock()
	previous := DefaultLoggingService
	DefaultLoggingService = service
	serviceMu.Unlock()

	if previous != nil && previous.file != nil {
		_ = previous.file.Close()
	}
	slog.SetDefault(service.Logger)
}

// Close flushes and closes the log file of the global logger.
func Close() error {
	serviceMu.Lock()
	service := DefaultLoggingService
	serviceMu.Unlock()

	if service == nil || service.file == nil {
		return nil
	}
	return service.file.Close()
}

// Logger returns the global logger, or a stderr logger before InitLogger.
func Logger() *slog.Logger {
	serviceMu.Lock()
	defer serviceMu.Unlock()
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return fallback
	}
	return DefaultLoggingService.Logger
}

var fallback = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

// Package-level functions for direct access

func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}
