package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avanishpal143/Robotic-backend/internal/catalog"
	"github.com/avanishpal143/Robotic-backend/internal/config"
	"github.com/avanishpal143/Robotic-backend/internal/data"
	"github.com/avanishpal143/Robotic-backend/internal/metric"
	"github.com/avanishpal143/Robotic-backend/internal/storage"
	"github.com/avanishpal143/Robotic-backend/internal/telemetry"
	"github.com/avanishpal143/Robotic-backend/internal/validation"
	"github.com/avanishpal143/Robotic-backend/internal/websocket"
)

type testServer struct {
	srv     *httptest.Server
	catalog *catalog.MetricCatalog
	devices *catalog.DeviceDirectory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cat := catalog.NewMetricCatalog()
	devices := catalog.NewDeviceDirectory()
	store := storage.NewMemoryStore(1000)
	reg := prometheus.NewRegistry()
	metrics := metric.New(reg)
	hub := websocket.NewHub(zap.NewNop(), metrics)
	validator := validation.New(map[string]config.Rule{
		"battery":     {Min: 0, Max: 100},
		"temperature": {Min: 0, Max: 80},
	})
	service := telemetry.NewService(cat, devices, store, validator, hub, metrics, zap.NewNop(), true, 50, 5)

	handler := NewHandler(cat, devices, service, hub, zap.NewNop())
	srv := httptest.NewServer(NewRouter(handler, reg))
	t.Cleanup(srv.Close)

	return &testServer{srv: srv, catalog: cat, devices: devices}
}

func (ts *testServer) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.srv.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func (ts *testServer) getJSON(t *testing.T, path string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestDevices_CreateAndList(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.postJSON(t, "/api/devices", map[string]string{
		"device_name": "ORo-Alpha-001",
		"model":       "ORo-V1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	dev := decode[data.Device](t, resp)
	assert.NotEmpty(t, dev.DeviceID)

	var list []data.Device
	getResp := ts.getJSON(t, "/api/devices", &list)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)
	require.Len(t, list, 1)
	assert.Equal(t, "ORo-Alpha-001", list[0].DeviceName)
}

func TestDevices_CreateMissingFields(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.postJSON(t, "/api/devices", map[string]string{"device_name": "x"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricTypes_CreateDuplicateConflicts(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"metric_name": "battery", "metric_unit": "%"}
	resp := ts.postJSON(t, "/api/metrics/types", body)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.postJSON(t, "/api/metrics/types", body)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestIngest_Flow(t *testing.T) {
	ts := newTestServer(t)
	dev := ts.devices.Register("ORo-Alpha-001", "ORo-V1")
	def, err := ts.catalog.Register("battery", "%")
	require.NoError(t, err)

	ingestPath := fmt.Sprintf("/api/metrics/%s/data", dev.DeviceID)

	// Accepted.
	resp := ts.postJSON(t, ingestPath, map[string]string{"metric_id": def.MetricID, "value": "55"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sample := decode[data.Sample](t, resp)
	assert.Equal(t, "55", sample.Value)

	// Out of range.
	resp = ts.postJSON(t, ingestPath, map[string]string{"metric_id": def.MetricID, "value": "150"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown metric.
	resp = ts.postJSON(t, ingestPath, map[string]string{"metric_id": "nope", "value": "55"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Missing value.
	resp = ts.postJSON(t, ingestPath, map[string]string{"metric_id": def.MetricID})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The accepted sample is retrievable, enriched with the unit.
	var recent []data.EnrichedSample
	ts.getJSON(t, ingestPath, &recent)
	require.Len(t, recent, 1)
	assert.Equal(t, "55", recent[0].Value)
	assert.Equal(t, "%", recent[0].MetricUnit)
}

func TestRecentData_LimitAppliedAndFallsBack(t *testing.T) {
	ts := newTestServer(t)
	dev := ts.devices.Register("ORo-Alpha-001", "ORo-V1")
	def, err := ts.catalog.Register("battery", "%")
	require.NoError(t, err)

	ingestPath := fmt.Sprintf("/api/metrics/%s/data", dev.DeviceID)
	for i := 0; i < 5; i++ {
		resp := ts.postJSON(t, ingestPath, map[string]string{"metric_id": def.MetricID, "value": "50"})
		resp.Body.Close()
	}

	var recent []data.EnrichedSample
	ts.getJSON(t, ingestPath+"?limit=3", &recent)
	assert.Len(t, recent, 3)

	// Garbage limit falls back to the default instead of erroring.
	ts.getJSON(t, ingestPath+"?limit=banana", &recent)
	assert.Len(t, recent, 5)
}

func TestSummary_Endpoint(t *testing.T) {
	ts := newTestServer(t)
	dev := ts.devices.Register("ORo-Alpha-001", "ORo-V1")
	def, err := ts.catalog.Register("battery", "%")
	require.NoError(t, err)
	_, err = ts.catalog.Register("status", "status")
	require.NoError(t, err)

	ingestPath := fmt.Sprintf("/api/metrics/%s/data", dev.DeviceID)
	for _, v := range []string{"10", "20"} {
		resp := ts.postJSON(t, ingestPath, map[string]string{"metric_id": def.MetricID, "value": v})
		resp.Body.Close()
	}

	var summary map[string]data.MetricSummary
	ts.getJSON(t, fmt.Sprintf("/api/metrics/%s/summary", dev.DeviceID), &summary)
	require.Len(t, summary, 2)
	assert.Equal(t, 2, summary["battery"].Count)
	assert.Equal(t, 0, summary["status"].Count)
}

func TestCommands_DispatchAndLog(t *testing.T) {
	ts := newTestServer(t)
	dev := ts.devices.Register("ORo-Alpha-001", "ORo-V1")

	path := fmt.Sprintf("/api/commands/%s", dev.DeviceID)
	resp := ts.postJSON(t, path, map[string]string{"command_name": "restart"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	entry := decode[data.CommandLog](t, resp)
	assert.Contains(t, []string{"success", "failed"}, entry.Status)

	var logs []data.CommandLog
	ts.getJSON(t, path, &logs)
	require.Len(t, logs, 1)
	assert.Equal(t, "restart", logs[0].CommandName)

	// Unknown device is rejected.
	resp = ts.postJSON(t, "/api/commands/nobody", map[string]string{"command_name": "restart"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthzAndMetricsEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.getJSON(t, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	mresp, err := http.Get(ts.srv.URL + "/metrics")
	require.NoError(t, err)
	mresp.Body.Close()
	assert.Equal(t, http.StatusOK, mresp.StatusCode)
}
