package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "json")

	logger.Info("hidden")
	logger.Warn("shown", "file", "igra.txt")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "igra.txt", entry["file"])
	assert.Equal(t, "near-space-etl", entry["service"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "TEXT")

	logger.Debug("stage done", "stage", "extract")
	assert.Contains(t, buf.String(), "msg=\"stage done\"")
	assert.Contains(t, buf.String(), "stage=extract")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestNewMetrics_PrivateRegistry(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.SoundingsParsed.Add(3)
	a.AerosolRowsDropped.WithLabelValues("aod", "non_month").Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(a.SoundingsParsed))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.SoundingsParsed))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.AerosolRowsDropped.WithLabelValues("aod", "non_month")))

	families, err := a.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestPush(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewMetrics()
	m.MergedMonths.Set(12)

	require.NoError(t, m.Push(context.Background(), srv.URL))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/metrics/job/"+PushJob, gotPath)
}

func TestPush_Disabled(t *testing.T) {
	assert.NoError(t, NewMetrics().Push(context.Background(), ""))
}

func TestPush_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewMetrics().Push(context.Background(), srv.URL)
	assert.Error(t, err)
}
