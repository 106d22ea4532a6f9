package observability

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Diagnostics logger for the client. Console output belongs to the UI, so the
// default sink is discard until InitFile points it at the state directory.
var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
)

// InitFile routes diagnostics to a JSON log file, creating parent directories
// as needed.
func InitFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	mu.Lock()
	logger = slog.New(slog.NewJSONHandler(f, nil))
	mu.Unlock()
	return nil
}

// SetOutput redirects diagnostics to an arbitrary writer.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger = slog.New(slog.NewJSONHandler(w, nil))
	mu.Unlock()
}

func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return Logger().With(kv...)
}
