package pkgmetric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulationLifecycleCounters(t *testing.T) {
	m := newWithRegistry(prometheus.NewRegistry())

	m.SessionOpened()
	m.SessionOpened()
	m.SimulationStarted()
	m.SimulationStarted()
	m.SimulationCompleted(3 * time.Second)
	m.SimulationStopped("back")
	m.SessionClosed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SimulationsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SimulationsCompleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SimulationsStopped.WithLabelValues("back")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RunningSimulations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveSessions))
}

func TestFileSelectedLabelsExtension(t *testing.T) {
	m := newWithRegistry(prometheus.NewRegistry())

	m.FileSelected(".xlsx")
	m.FileSelected(".xlsx")
	m.FileSelected("")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FilesSelected.WithLabelValues(".xlsx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FilesSelected.WithLabelValues("none")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.SimulationStarted()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "medclean_simulations_started_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}
