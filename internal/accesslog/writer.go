// Package accesslog provides asynchronous, best-effort request logging
// to daily-partitioned JSON line files.
package accesslog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// defaultBufferSize is how many entries may be queued before Record
// starts dropping. A full buffer means the disk cannot keep up; the
// response to the client is never delayed for a log line.
const defaultBufferSize = 1024

// Entry is one access-log record. One JSON object is appended per
// completed request, whatever its status code.
type Entry struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	IP         string `json:"ip"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Status     int    `json:"status"`
	DurationMS int64  `json:"duration_ms"`
	UserEmail  string `json:"user_email,omitempty"`
	APIKey     string `json:"api_key,omitempty"`
}

// Stamp fills Date and Time from the given instant, in UTC. The same
// date string selects the file the entry lands in.
func (e *Entry) Stamp(now time.Time) {
	utc := now.UTC()
	e.Date = utc.Format("2006-01-02")
	e.Time = utc.Format("15:04:05")
}

// Writer appends entries to <dir>/<date>.log from a single background
// goroutine. Write failures are reported via slog and never surface to
// the request path.
type Writer struct {
	dir     string
	logger  *slog.Logger
	entries chan Entry
	done    chan struct{}
	now     func() time.Time

	// Guards closed so a late Record during shutdown drops the entry
	// instead of sending on a closed channel.
	mu     sync.RWMutex
	closed bool
}

// NewWriter creates the log directory if needed and starts the
// background writer.
func NewWriter(dir string, logger *slog.Logger) (*Writer, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve log dir: %w", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	w := &Writer{
		dir:     absDir,
		logger:  logger.With("component", "accesslog"),
		entries: make(chan Entry, defaultBufferSize),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	go w.run()
	return w, nil
}

// Dir returns the resolved log directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Record queues an entry for writing. It never blocks: when the buffer
// is full the entry is dropped and the drop is reported operationally.
func (w *Writer) Record(e Entry) {
	if e.Date == "" {
		e.Stamp(w.now())
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}

	select {
	case w.entries <- e:
	default:
		w.logger.Warn("access log buffer full, dropping entry",
			slog.String("path", e.Path),
		)
	}
}

// Close stops accepting entries and drains the buffer. It returns when
// the writer goroutine has finished or the context expires.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.entries)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) run() {
	defer close(w.done)
	for e := range w.entries {
		w.append(e)
	}
}

func (w *Writer) append(e Entry) {
	line, err := json.Marshal(e)
	if err != nil {
		w.logger.Error("marshal access log entry", slog.String("error", err.Error()))
		return
	}

	path := filepath.Join(w.dir, e.Date+".log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		w.logger.Error("open access log file",
			slog.String("file", path),
			slog.String("error", err.Error()),
		)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		w.logger.Error("write access log entry",
			slog.String("file", path),
			slog.String("error", err.Error()),
		)
	}
}
