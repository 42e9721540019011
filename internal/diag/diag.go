// Package diag is the fire-and-forget sink for errors the UI swallows.
package diag

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Reporter accepts an error and a short description of what was happening.
type Reporter interface {
	Report(ctx context.Context, err error, what string)
}

// LogReporter writes reports as structured logrus entries.
type LogReporter struct {
	Log *logrus.Logger
}

func (r LogReporter) Report(ctx context.Context, err error, what string) {
	if r.Log == nil || err == nil {
		return
	}
	r.Log.WithContext(ctx).WithError(err).WithField("context", what).Error("diagnostic")
}

// NewLogger builds the application logger. The TUI owns the terminal, so
// output goes to path; an empty path discards everything.
func NewLogger(path, level, format string) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	if strings.EqualFold(format, "text") {
		log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	if path == "" {
		log.SetOutput(io.Discard)
		return log, io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return log, f, nil
}

// Report is one captured call to a Recorder.
type Report struct {
	Err  error
	What string
}

// Recorder keeps every report in memory.
type Recorder struct {
	mu      sync.Mutex
	reports []Report
}

func (r *Recorder) Report(_ context.Context, err error, what string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, Report{Err: err, What: what})
}

func (r *Recorder) Reports() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Report(nil), r.reports...)
}
