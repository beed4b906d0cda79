package server_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabnotation/notation"
	"github.com/tabnotation/notation/model"
	"github.com/tabnotation/notation/server"
)

const tabYAML = `
uuid: 1b4e28ba-2fa1-11d2-883f-0016d3cca427
meta: {key: A, scale: minor, signature: 4/4, tempo: 120}
tracks:
  - id: guitar
    kind: guitar
    entries:
      - {kind: tone, duration: _1_2, notes: [{pitch: A, octave: 3}]}
      - {kind: tie}
      - {kind: tone, duration: _1_2, notes: [{pitch: A, octave: 3}]}
  - id: chords
    kind: chord
    entries:
      - {kind: chord, duration: _1_2, chord: {root: A, quality: m}}
      - {kind: chord, duration: _1_2, chord: {root: E, quality: "7"}}
sections:
  - {id: verse, kind: pre-chorus, bars: [{}]}
`

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func publish(t *testing.T) *model.Handle {
	t.Helper()
	doc, err := notation.ReadTab(strings.NewReader(tabYAML))
	require.NoError(t, err)
	var h model.Handle
	_, err = h.Reload(doc, model.Options{Logger: quiet})
	require.NoError(t, err)
	return &h
}

func get(t *testing.T, h http.Handler, method, url string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, url, nil))
	return rec
}

func TestTabAndBars(t *testing.T) {
	s := server.New(publish(t), server.Options{Logger: quiet})
	h := s.Handler()

	rec := get(t, h, http.MethodGet, "/tab")
	require.Equal(t, http.StatusOK, rec.Code)
	var tab map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tab))
	assert.Equal(t, "1b4e28ba-2fa1-11d2-883f-0016d3cca427", tab["uuid"])
	assert.EqualValues(t, 1, tab["bars"])
	sections := tab["sections"].([]any)
	assert.Equal(t, "Pre-Chorus", sections[0].(map[string]any)["title"])

	rec = get(t, h, http.MethodGet, "/bars/0")
	require.Equal(t, http.StatusOK, rec.Code)
	var bar struct {
		Number int
		Lanes  []struct {
			Track   string
			Entries []struct {
				InBarPos  float64
				TiedUnits float64
			}
		}
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bar))
	assert.Equal(t, 1, bar.Number)
	require.Len(t, bar.Lanes, 2)
	assert.Equal(t, "guitar", bar.Lanes[0].Track)
	require.Len(t, bar.Lanes[0].Entries, 3)
	assert.Equal(t, 1.0, bar.Lanes[0].Entries[0].TiedUnits)
	assert.Equal(t, 0.5, bar.Lanes[0].Entries[2].InBarPos)

	assert.Equal(t, http.StatusNotFound, get(t, h, http.MethodGet, "/bars/7").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, http.MethodGet, "/bars/0/lanes/drums").Code)
	assert.Equal(t, http.StatusOK, get(t, h, http.MethodGet, "/bars/0/lanes/chords").Code)
}

func TestChord(t *testing.T) {
	h := server.New(publish(t), server.Options{Logger: quiet}).Handler()
	rec := get(t, h, http.MethodGet, "/bars/0/chord?pos=0.75")
	require.Equal(t, http.StatusOK, rec.Code)
	var c struct{ Name string }
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, "E7", c.Name)

	rec = get(t, h, http.MethodGet, "/bars/0/chord")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, "Am", c.Name)

	assert.Equal(t, http.StatusBadRequest, get(t, h, http.MethodGet, "/bars/0/chord?pos=x").Code)
}

func TestNothingPublished(t *testing.T) {
	h := server.New(&model.Handle{}, server.Options{Logger: quiet}).Handler()
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, http.MethodGet, "/tab").Code)
	assert.Equal(t, http.StatusNotImplemented, get(t, h, http.MethodPost, "/reload").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := server.New(publish(t), server.Options{Logger: quiet, Registry: reg}).Handler()
	get(t, h, http.MethodGet, "/tab")
	get(t, h, http.MethodGet, "/bars/3")
	rec := get(t, h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `notation_http_requests_total{code="200",route="/tab"} 1`)
	assert.Contains(t, body, `notation_http_requests_total{code="404",route="/bars/{ordinal:[0-9]+}"} 1`)
}

func TestReloader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tabYAML), 0o644))

	reg := prometheus.NewRegistry()
	metrics := server.NewMetrics(reg)
	var handle model.Handle
	r := server.NewReloader(path, &handle, model.Options{Logger: quiet}, 20*time.Millisecond, metrics)

	tab, err := r.Load()
	require.NoError(t, err)
	assert.Same(t, tab, handle.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Bars))

	h := server.New(&handle, server.Options{Logger: quiet, Registry: reg, Metrics: metrics, Reloader: r}).Handler()
	for range 3 {
		assert.Equal(t, http.StatusAccepted, get(t, h, http.MethodPost, "/reload").Code)
	}
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.Assemblies.WithLabelValues("ok")) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.NotSame(t, tab, handle.Load())

	require.NoError(t, os.WriteFile(path, []byte("meta: {signature: 4/4}\ntracks: [{id: x, kind: nope}]"), 0o644))
	_, err = r.Load()
	assert.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Assemblies.WithLabelValues("error")))
	assert.NotNil(t, handle.Load())
}

func TestMetricsWithoutRegistry(t *testing.T) {
	metrics := server.NewMetrics(prometheus.NewRegistry())
	metrics.Bars.Set(3)
	h := server.New(publish(t), server.Options{Logger: quiet, Metrics: metrics}).Handler()
	rec := get(t, h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "notation_published_bars 3")
}

func TestReloaderWithoutMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tabYAML), 0o644))
	var handle model.Handle
	r := server.NewReloader(path, &handle, model.Options{Logger: quiet}, time.Millisecond, nil)
	tab, err := r.Load()
	require.NoError(t, err)
	assert.Same(t, tab, handle.Load())
}
