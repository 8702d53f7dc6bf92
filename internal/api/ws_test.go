package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	gwebsocket "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avanishpal143/Robotic-backend/internal/data"
)

func dialWS(t *testing.T, ts *testServer) *gwebsocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/ws"
	conn, resp, err := gwebsocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *gwebsocket.Conn) data.TelemetryEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var env struct {
		Type    string              `json:"type"`
		Payload data.TelemetryEvent `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, "telemetry_update", env.Type)
	return env.Payload
}

func TestWebSocket_SubscribeReceivesIngestedSample(t *testing.T) {
	ts := newTestServer(t)
	dev := ts.devices.Register("ORo-Alpha-001", "ORo-V1")
	def, err := ts.catalog.Register("battery", "%")
	require.NoError(t, err)

	conn := dialWS(t, ts)
	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":      "subscribe_device",
		"device_id": dev.DeviceID,
	}))

	// Give the read pump a moment to process the subscription.
	time.Sleep(100 * time.Millisecond)

	resp := ts.postJSON(t, fmt.Sprintf("/api/metrics/%s/data", dev.DeviceID),
		map[string]string{"metric_id": def.MetricID, "value": "63"})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	ev := readEvent(t, conn)
	assert.Equal(t, dev.DeviceID, ev.DeviceID)
	assert.Equal(t, "battery", ev.MetricName)
	assert.Equal(t, "%", ev.MetricUnit)
	assert.Equal(t, "63", ev.Value)
	assert.False(t, ev.RecordedAt.IsZero())
}

func TestWebSocket_UnsubscribeStopsEvents(t *testing.T) {
	ts := newTestServer(t)
	dev := ts.devices.Register("ORo-Alpha-001", "ORo-V1")
	def, err := ts.catalog.Register("battery", "%")
	require.NoError(t, err)

	conn := dialWS(t, ts)
	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":      "subscribe_device",
		"device_id": dev.DeviceID,
	}))
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":      "unsubscribe_device",
		"device_id": dev.DeviceID,
	}))
	time.Sleep(100 * time.Millisecond)

	resp := ts.postJSON(t, fmt.Sprintf("/api/metrics/%s/data", dev.DeviceID),
		map[string]string{"metric_id": def.MetricID, "value": "63"})
	resp.Body.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "no event should arrive after unsubscribing")
}

func TestWebSocket_EventsAreTargetedPerDevice(t *testing.T) {
	ts := newTestServer(t)
	devA := ts.devices.Register("ORo-Alpha-001", "ORo-V1")
	devB := ts.devices.Register("ORo-Beta-002", "ORo-V2")
	def, err := ts.catalog.Register("battery", "%")
	require.NoError(t, err)

	conn := dialWS(t, ts)
	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":      "subscribe_device",
		"device_id": devB.DeviceID,
	}))
	time.Sleep(100 * time.Millisecond)

	// A sample for device A must not reach a subscriber of device B.
	resp := ts.postJSON(t, fmt.Sprintf("/api/metrics/%s/data", devA.DeviceID),
		map[string]string{"metric_id": def.MetricID, "value": "1"})
	resp.Body.Close()
	resp = ts.postJSON(t, fmt.Sprintf("/api/metrics/%s/data", devB.DeviceID),
		map[string]string{"metric_id": def.MetricID, "value": "2"})
	resp.Body.Close()

	ev := readEvent(t, conn)
	assert.Equal(t, devB.DeviceID, ev.DeviceID)
	assert.Equal(t, "2", ev.Value)
}
