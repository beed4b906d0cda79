// Package server exposes the published tab over a read-only JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/tabnotation/notation"
	"github.com/tabnotation/notation/model"
)

type (
	// Options configure a Server. Logger defaults to slog.Default(). Metrics
	// defaults to collectors registered in Registry. /metrics serves Registry
	// if given, else the registry Metrics were registered in, else a fresh
	// one.
	Options struct {
		Logger         *slog.Logger
		Registry       *prometheus.Registry
		Metrics        *Metrics
		Reloader       *Reloader
		AllowedOrigins []string
	}

	// Server answers queries about the tab currently published in a Handle.
	// Every request reads the handle once, so it sees a single version of the
	// tab even when a reload happens meanwhile.
	Server struct {
		handle   *model.Handle
		logger   *slog.Logger
		metrics  *Metrics
		reloader *Reloader
		handler  http.Handler
	}

	statusRecorder struct {
		http.ResponseWriter
		code int
	}
)

func New(handle *model.Handle, opts Options) *Server {
	s := &Server{handle: handle, logger: opts.Logger, metrics: opts.Metrics, reloader: opts.Reloader}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	var gatherer prometheus.Gatherer
	if opts.Registry != nil {
		gatherer = opts.Registry
	}
	if s.metrics == nil {
		var reg prometheus.Registerer
		if opts.Registry != nil {
			reg = opts.Registry
		}
		s.metrics = NewMetrics(reg)
	}
	if gatherer == nil {
		gatherer = s.metrics.gatherer
	}
	if gatherer == nil {
		gatherer = prometheus.NewRegistry()
	}

	router := mux.NewRouter().StrictSlash(true)
	router.Use(s.countRequests)
	router.HandleFunc("/tab", s.handleTab).Methods(http.MethodGet)
	router.HandleFunc("/bars/{ordinal:[0-9]+}", s.handleBar).Methods(http.MethodGet)
	router.HandleFunc("/bars/{ordinal:[0-9]+}/chord", s.handleChord).Methods(http.MethodGet)
	router.HandleFunc("/bars/{ordinal:[0-9]+}/lanes/{track}", s.handleLane).Methods(http.MethodGet)
	router.HandleFunc("/reload", s.handleReload).Methods(http.MethodPost)
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.handler = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(router)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.handler, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logger.Info("serving", "addr", addr)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := "unknown"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		s.metrics.Requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "err", err)
	}
}

func (s *Server) current(w http.ResponseWriter) (*model.Tab, bool) {
	tab := s.handle.Load()
	if tab == nil {
		http.Error(w, "no tab published", http.StatusServiceUnavailable)
		return nil, false
	}
	return tab, true
}

// bar returns the requested bar along with its tab. Bars only hold weak
// references to their tab, so handlers keep the tab alive until they are
// done.
func (s *Server) bar(w http.ResponseWriter, r *http.Request) (*model.Tab, *model.TabBar, bool) {
	tab, ok := s.current(w)
	if !ok {
		return nil, nil, false
	}
	ordinal, err := strconv.Atoi(mux.Vars(r)["ordinal"])
	if err != nil {
		http.Error(w, "bad bar ordinal", http.StatusBadRequest)
		return nil, nil, false
	}
	bar, ok := tab.Bar(ordinal)
	if !ok {
		http.Error(w, "bar not found", http.StatusNotFound)
		return nil, nil, false
	}
	return tab, bar, true
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	tab, ok := s.current(w)
	if !ok {
		return
	}
	s.writeJSON(w, newTabView(tab))
}

func (s *Server) handleBar(w http.ResponseWriter, r *http.Request) {
	tab, bar, ok := s.bar(w, r)
	if !ok {
		return
	}
	defer runtime.KeepAlive(tab)
	s.writeJSON(w, newBarView(bar))
}

func (s *Server) handleChord(w http.ResponseWriter, r *http.Request) {
	tab, bar, ok := s.bar(w, r)
	if !ok {
		return
	}
	defer runtime.KeepAlive(tab)
	var pos float64
	if p := r.URL.Query().Get("pos"); p != "" {
		var err error
		if pos, err = strconv.ParseFloat(p, 32); err != nil {
			http.Error(w, "bad position", http.StatusBadRequest)
			return
		}
	}
	chord, ok := bar.ChordAt(notation.Units(pos))
	if !ok {
		http.Error(w, "no chord", http.StatusNotFound)
		return
	}
	s.writeJSON(w, chordView{Name: chord.String(), Chord: chord})
}

func (s *Server) handleLane(w http.ResponseWriter, r *http.Request) {
	tab, bar, ok := s.bar(w, r)
	if !ok {
		return
	}
	defer runtime.KeepAlive(tab)
	lane, ok := bar.Lane(mux.Vars(r)["track"])
	if !ok {
		http.Error(w, "lane not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, newLaneView(lane))
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.reloader == nil {
		http.Error(w, "reloading not configured", http.StatusNotImplemented)
		return
	}
	s.reloader.Trigger()
	w.WriteHeader(http.StatusAccepted)
}
