package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"github.com/azampay/momo-checkout/internal/shared/config"
)

var (
	mu      sync.Mutex
	Logger  *slog.Logger
	logFile *os.File
)

// Init configures the process-wide slog logger. serverMode "debug" attaches
// source locations to every level; otherwise only warn and error carry them.
func Init(cfg *config.LoggerConfig, serverMode string) error {
	writer := io.Writer(os.Stdout)
	var file *os.File
	switch strings.ToLower(cfg.OutputPath) {
	case "stdout", "":
	case "stderr":
		writer = os.Stderr
	default:
		f, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		file, writer = f, f
	}

	sourceFrom := slog.LevelWarn
	if serverMode == "debug" {
		sourceFrom = slog.LevelDebug
	}

	l := slog.New(newHandler(writer, cfg.Format, parseLevel(cfg.Level), sourceFrom))

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	Logger, logFile = l, file
	slog.SetDefault(l)
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newHandler returns a JSON handler for format "json" and a tint text
// handler otherwise. Colors are used only when w is a terminal.
func newHandler(w io.Writer, format string, level slog.Level, sourceFrom slog.Level) slog.Handler {
	var base slog.Handler
	if strings.EqualFold(format, "json") {
		base = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: redactAttr,
		})
	} else {
		base = tint.NewHandler(w, &tint.Options{
			Level:       level,
			TimeFormat:  time.DateTime,
			NoColor:     !isTerminal(w),
			ReplaceAttr: replaceErrorAttr,
		})
	}
	return newSourceHandler(base, sourceFrom)
}

// replaceErrorAttr renders "error" attributes with tint's error styling and
// masks credential-bearing keys so they never reach log output.
func replaceErrorAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == "error" && a.Value.Kind() == slog.KindAny {
		if err, ok := a.Value.Any().(error); ok {
			return tint.Err(err)
		}
	}
	return redactAttr(groups, a)
}

func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if _, secret := redactedKeys[strings.ToLower(a.Key)]; secret {
		return slog.String(a.Key, "[redacted]")
	}
	return a
}

var redactedKeys = map[string]struct{}{
	"client_secret":  {},
	"clientsecret":   {},
	"access_token":   {},
	"token":          {},
	"authorization":  {},
	"callback_token": {},
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Get returns the process logger, falling back to info-level text on stdout
// when Init has not run.
func Get() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if Logger == nil {
		Logger = slog.New(newHandler(os.Stdout, "text", slog.LevelInfo, slog.LevelWarn))
		slog.SetDefault(Logger)
	}
	return Logger
}

// Sync flushes and closes the log file opened by Init, if any.
func Sync() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Sync()
	if cerr := logFile.Close(); err == nil {
		err = cerr
	}
	logFile = nil
	return err
}

// Package-level helpers log through the process logger. They serve code that
// runs before a logger.Interface is wired, such as database setup.

func Debug(msg string, args ...any) { Get().Debug(msg, args...) }
func Info(msg string, args ...any)  { Get().Info(msg, args...) }
func Warn(msg string, args ...any)  { Get().Warn(msg, args...) }
func Error(msg string, args ...any) { Get().Error(msg, args...) }
