package journal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"tk905-svr/internal/codec"
	"tk905-svr/internal/observability"
)

// Writer appends accepted positions to a JSON-lines file. Appends go
// through a bounded queue drained by a single goroutine, so the ingest
// loop never waits on disk and lines are never byte-interleaved. Write
// failures are logged and counted; the in-memory state is unaffected.
type Writer struct {
	f      *os.File
	queue  chan *codec.Position
	done   chan struct{}
	logger *slog.Logger
}

func New(path string, queueSize int, logger *slog.Logger) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	w := &Writer{
		f:      f,
		queue:  make(chan *codec.Position, queueSize),
		done:   make(chan struct{}),
		logger: logger.With("component", "journal"),
	}
	go w.drain()
	return w, nil
}

// Append queues the position and returns immediately. A full queue drops
// the record with a log line rather than stalling the caller.
func (w *Writer) Append(p *codec.Position) {
	select {
	case w.queue <- p:
	default:
		observability.JournalDropped.Inc()
		w.logger.Warn("journal queue full, dropping record", "device", p.DeviceID)
	}
}

// Close stops accepting records, flushes whatever is queued, and closes
// the file.
func (w *Writer) Close() error {
	close(w.queue)
	<-w.done
	return w.f.Close()
}

func (w *Writer) drain() {
	defer close(w.done)
	for p := range w.queue {
		line, err := json.Marshal(p)
		if err != nil {
			observability.JournalErrors.Inc()
			w.logger.Error("marshal record", "device", p.DeviceID, "err", err)
			continue
		}
		if _, err := w.f.Write(append(line, '\n')); err != nil {
			observability.JournalErrors.Inc()
			w.logger.Error("journal write failed", "device", p.DeviceID, "err", err)
		}
	}
}
