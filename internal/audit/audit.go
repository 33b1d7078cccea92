// Package audit provides audit logging for iacgate hook decisions.
package audit

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/iacgate/iacgate/internal/checks"
	"github.com/iacgate/iacgate/internal/constants"
	"github.com/iacgate/iacgate/internal/logger"
	"github.com/klauspost/compress/gzip"
)

// Entry schema version.
const Version = 1

// TimestampFormat is the format used for audit log timestamps.
const TimestampFormat = "2006-01-02T15:04:05.0Z07:00"

// Entry represents a single audit log entry (v1 format), one JSON object
// per line.
type Entry struct {
	Version    int              `json:"version"`
	Timestamp  string           `json:"timestamp"`
	DurationMs float64          `json:"duration_ms"`
	Phase      string           `json:"phase"`
	ToolName   string           `json:"tool_name"`
	FilePath   string           `json:"file_path"`
	Categories []string         `json:"categories,omitempty"`
	Blocked    bool             `json:"blocked"`
	Reason     string           `json:"reason,omitempty"`
	Findings   []checks.Finding `json:"findings,omitempty"`
	Input      string           `json:"input"`
	Output     string           `json:"output"`
}

var (
	auditFile *os.File
	mu        sync.Mutex
	enabled   bool
)

// DefaultLogPath returns the default audit log path
// (~/.local/share/iacgate/audit.log).
func DefaultLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", constants.AppName, constants.AuditFileName), nil
}

// Init initializes the audit log. If path is empty, the default path is
// used. Pass disable=true to turn audit logging off entirely. A log larger
// than maxSize bytes is rotated to a gzip-compressed sibling before
// opening; maxSize <= 0 disables rotation.
func Init(path string, disable bool, maxSize int64) error {
	mu.Lock()
	defer mu.Unlock()

	if disable {
		enabled = false
		return nil
	}

	if path == "" {
		var err error
		path, err = DefaultLogPath()
		if err != nil {
			logger.Debug("failed to get default audit log path", "error", err)
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirMode); err != nil {
		logger.Debug("failed to create audit log directory", "error", err)
		return err
	}

	if maxSize > 0 {
		if err := rotateIfNeeded(path, maxSize); err != nil {
			// Rotation failure is not fatal; keep appending to the
			// oversized log rather than dropping entries.
			logger.Debug("audit log rotation failed", "error", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
	if err != nil {
		logger.Debug("failed to open audit log file", "error", err)
		return err
	}

	auditFile = f
	enabled = true
	logger.Debug("audit logging initialized", "path", path)
	return nil
}

// rotateIfNeeded compresses the log to <path>.1.gz and truncates it once it
// exceeds maxSize. A single compressed generation is kept; the previous one
// is overwritten.
func rotateIfNeeded(path string, maxSize int64) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= maxSize {
		return nil
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(path+".1.gz", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FileMode)
	if err != nil {
		return err
	}
	defer dst.Close()

	gz := gzip.NewWriter(dst)
	if _, err := io.Copy(gz, src); err != nil {
		gz.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}

	logger.Debug("rotated audit log", "path", path, "size", info.Size())
	return os.Truncate(path, 0)
}

// Close closes the audit log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if auditFile != nil {
		err := auditFile.Close()
		auditFile = nil
		enabled = false
		return err
	}
	return nil
}

// Log writes an entry to the audit log.
// If audit logging is not initialized or disabled, this is a no-op.
func Log(entry Entry) error {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || auditFile == nil {
		return nil
	}

	entry.Version = Version
	entry.Timestamp = time.Now().UTC().Format(TimestampFormat)

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Debug("failed to marshal audit entry", "error", err)
		return err
	}

	if _, err := auditFile.Write(append(data, '\n')); err != nil {
		logger.Debug("failed to write audit entry", "error", err)
		return err
	}

	return nil
}

// IsEnabled returns whether audit logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Reset resets the audit state. Used for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if auditFile != nil {
		auditFile.Close()
	}
	auditFile = nil
	enabled = false
}
