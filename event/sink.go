package event

import (
	"context"
	"log/slog"
	"sync"

	"github.com/INLOpen/scintbase/colstore"
	"github.com/INLOpen/scintbase/config"
	"github.com/INLOpen/scintbase/csvtable"
)

// Sink persists synthesized event rows to the configured output
// formats. Both destinations are process-wide shared files, so one
// Sink is shared by all workers and a single mutex serializes every
// end-of-event write across them.
//
// A failed write is logged and dropped for that format; persistence
// failures never abort the run.
type Sink struct {
	mu       sync.Mutex
	settings *config.Settings
	store    *colstore.Store
	logger   *slog.Logger
	metrics  *Metrics
}

// NewSink creates a persistence sink over the shared output settings
// and columnar store.
func NewSink(settings *config.Settings, store *colstore.Store, logger *slog.Logger, metrics *Metrics) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetrics(false, "")
	}
	return &Sink{
		settings: settings,
		store:    store,
		logger:   logger.With("component", "Sink"),
		metrics:  metrics,
	}
}

// Write persists one event's rows to every enabled format. The
// destination paths are re-read from the settings on each call, so a
// run-name or directory change between events routes subsequent
// events to new files.
func (s *Sink) Write(ctx context.Context, rows EventRows) {
	s.mu.Lock()
	defer s.mu.Unlock()

	format := s.settings.Format()

	if format.WritesCSV() {
		path := s.settings.CSVPath()
		s.metrics.CSVWritesTotal.Add(1)
		if err := csvtable.Append(path, rows.Flat); err != nil {
			s.metrics.CSVWriteErrorsTotal.Add(1)
			s.logger.Error("flat-table write failed, event data dropped for this format",
				"path", path, "event_id", rows.EventID, "error", err)
		} else {
			s.metrics.RowsWrittenTotal.Add(int64(len(rows.Flat)))
		}
	}

	if format.WritesColumnStore() {
		path := s.settings.StorePath()
		s.metrics.StoreWritesTotal.Add(1)
		if err := s.store.Append(ctx, path, rows.Primaries, rows.Secondaries, rows.Photons); err != nil {
			s.metrics.StoreWriteErrorsTotal.Add(1)
			s.logger.Error("columnar-store write failed, event data dropped for this format",
				"path", path, "event_id", rows.EventID, "error", err)
		} else {
			s.metrics.RowsWrittenTotal.Add(int64(len(rows.Primaries) + len(rows.Secondaries) + len(rows.Photons)))
		}
	}
}

// Close releases the columnar-store handle.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Close()
}
