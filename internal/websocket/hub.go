// internal/websocket/hub.go

// Package websocket fans telemetry events out to connected clients.
// Clients subscribe per device; an event for a device reaches only the
// clients currently subscribed to it. Delivery is best-effort: a full
// client queue drops the event for that client and never blocks the
// others.
package websocket

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/avanishpal143/Robotic-backend/internal/data"
	"github.com/avanishpal143/Robotic-backend/internal/metric"
)

// Hub tracks connected clients and per-device subscriptions. All
// mutation goes through the mutex; sends to client queues are
// non-blocking, so no lock is held across anything that can stall.
type Hub struct {
	mu            sync.RWMutex
	clients       map[*Client]struct{}
	subscriptions map[string]map[*Client]struct{} // device_id -> interested clients
	log           *zap.Logger
	metrics       *metric.Metrics
}

func NewHub(log *zap.Logger, m *metric.Metrics) *Hub {
	return &Hub{
		clients:       make(map[*Client]struct{}),
		subscriptions: make(map[string]map[*Client]struct{}),
		log:           log,
		metrics:       m,
	}
}

// Register adds a connected client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = struct{}{}
	h.metrics.SubscribersGauge.Set(float64(len(h.clients)))
	h.log.Info("client connected", zap.String("client_id", c.ID))
}

// Unregister removes a client and all its subscriptions, and closes
// its send queue. Safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	h.removeAllLocked(c)
	close(c.Send)
	h.metrics.SubscribersGauge.Set(float64(len(h.clients)))
	h.log.Info("client disconnected", zap.String("client_id", c.ID))
}

// Subscribe adds c to deviceID's interest set. Idempotent.
func (h *Hub) Subscribe(c *Client, deviceID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subscriptions[deviceID]
	if !ok {
		set = make(map[*Client]struct{})
		h.subscriptions[deviceID] = set
	}
	set[c] = struct{}{}
	h.log.Info("client subscribed",
		zap.String("client_id", c.ID), zap.String("device_id", deviceID))
}

// Unsubscribe removes c from deviceID's interest set. No-op if absent.
func (h *Hub) Unsubscribe(c *Client, deviceID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.subscriptions[deviceID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subscriptions, deviceID)
		}
	}
	h.log.Info("client unsubscribed",
		zap.String("client_id", c.ID), zap.String("device_id", deviceID))
}

func (h *Hub) removeAllLocked(c *Client) {
	for deviceID, set := range h.subscriptions {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subscriptions, deviceID)
		}
	}
}

// SubscriberCount returns the number of clients subscribed to a device.
func (h *Hub) SubscriberCount(deviceID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[deviceID])
}

// NotifyTelemetry delivers a telemetry_update event to every client
// subscribed to the event's device. Fire-and-forget: delivery failures
// are counted and logged, never returned.
func (h *Hub) NotifyTelemetry(ev data.TelemetryEvent) {
	msg, err := json.Marshal(envelope{Type: "telemetry_update", Payload: ev})
	if err != nil {
		h.log.Error("marshal telemetry event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.subscriptions[ev.DeviceID] {
		select {
		case c.Send <- msg:
			h.metrics.EventsDelivered.Inc()
		default:
			// Queue full: the client is backed up, drop this event
			// for it rather than stall the fan-out.
			h.metrics.EventsDropped.Inc()
			h.log.Warn("dropping event for slow client",
				zap.String("client_id", c.ID), zap.String("device_id", ev.DeviceID))
		}
	}
}

// envelope is the wire frame for server-to-client messages.
type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}
