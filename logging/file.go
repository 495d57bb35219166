package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// FileName is the debug log written inside the log directory
	FileName = "navagent.log"
	// MaxFileSize triggers rotation to a timestamped name at setup
	MaxFileSize = 10 * 1024 * 1024

	rotateLayout = "20060102_150405"
)

// RotatedName returns the name an oversized log is moved to
func RotatedName(t time.Time) string {
	base := strings.TrimSuffix(FileName, filepath.Ext(FileName))
	return base + "_" + t.Format(rotateLayout) + filepath.Ext(FileName)
}

// Setup opens the debug log under dir when debug is set
// Returns a discarding logger and nil file when disabled; the caller closes the file
// A log file larger than MaxFileSize is rotated once before opening
func Setup(debug bool, dir string, level Level, format string) (Logger, *os.File, error) {
	if !debug {
		return NewSlogLogger(io.Discard, level, format), nil, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, errors.Wrap(err, "create log directory")
	}

	path := filepath.Join(dir, FileName)
	if info, err := os.Stat(path); err == nil && info.Size() > MaxFileSize {
		if err := os.Rename(path, filepath.Join(dir, RotatedName(time.Now()))); err != nil {
			return nil, nil, errors.Wrap(err, "rotate log file")
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open log file")
	}
	return NewSlogLogger(f, level, format), f, nil
}
