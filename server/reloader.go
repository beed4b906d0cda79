package server

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bep/debounce"
	"github.com/tabnotation/notation"
	"github.com/tabnotation/notation/model"
)

// Reloader reads a tab document from disk, assembles it and publishes it to
// a Handle. Bursts of Trigger calls are coalesced into a single reload.
type Reloader struct {
	path      string
	opts      model.Options
	handle    *model.Handle
	metrics   *Metrics
	logger    *slog.Logger
	debounced func(f func())
}

// NewReloader returns a Reloader for the document at path. A nil metrics
// gets collectors of its own that nothing serves.
func NewReloader(path string, handle *model.Handle, opts model.Options, wait time.Duration, metrics *Metrics) *Reloader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Reloader{
		path:      path,
		opts:      opts,
		handle:    handle,
		metrics:   metrics,
		logger:    logger,
		debounced: debounce.New(wait),
	}
}

// Load reloads the document right away. On failure the published tab is
// left as it was.
func (r *Reloader) Load() (*model.Tab, error) {
	tab, err := r.load()
	if err != nil {
		r.metrics.Assemblies.WithLabelValues("error").Inc()
		return nil, err
	}
	r.metrics.Assemblies.WithLabelValues("ok").Inc()
	r.metrics.Diagnostics.Add(float64(len(tab.Diagnostics())))
	r.metrics.Bars.Set(float64(tab.NumBars()))
	r.logger.Info("tab published", "path", r.path, "uuid", tab.UUID(), "bars", tab.NumBars())
	return tab, nil
}

func (r *Reloader) load() (*model.Tab, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("opening tab: %w", err)
	}
	defer f.Close()
	doc, err := notation.ReadTab(f)
	if err != nil {
		return nil, err
	}
	return r.handle.Reload(doc, r.opts)
}

// Trigger schedules a reload once the triggers have been quiet for the
// debounce period.
func (r *Reloader) Trigger() {
	r.debounced(func() {
		if _, err := r.Load(); err != nil {
			r.logger.Error("reload failed", "path", r.path, "err", err)
		}
	})
}
