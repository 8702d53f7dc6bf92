// internal/api/handlers.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	gwebsocket "github.com/gorilla/websocket" // Alias to avoid name conflict
	"go.uber.org/zap"

	"github.com/avanishpal143/Robotic-backend/internal/catalog"
	"github.com/avanishpal143/Robotic-backend/internal/data"
	"github.com/avanishpal143/Robotic-backend/internal/telemetry"
	"github.com/avanishpal143/Robotic-backend/internal/websocket"
)

var upgrader = gwebsocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Handler struct {
	catalog *catalog.MetricCatalog
	devices *catalog.DeviceDirectory
	service *telemetry.Service
	hub     *websocket.Hub
	log     *zap.Logger
}

func NewHandler(
	cat *catalog.MetricCatalog,
	devices *catalog.DeviceDirectory,
	service *telemetry.Service,
	hub *websocket.Hub,
	log *zap.Logger,
) *Handler {
	return &Handler{
		catalog: cat,
		devices: devices,
		service: service,
		hub:     hub,
		log:     log,
	}
}

type createDeviceRequest struct {
	DeviceName string `json:"device_name"`
	Model      string `json:"model"`
}

// HandleCreateDevice registers a new robot device.
func (h *Handler) HandleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var req createDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DeviceName == "" || req.Model == "" {
		writeError(w, http.StatusBadRequest, "device_name and model are required")
		return
	}

	dev := h.devices.Register(req.DeviceName, req.Model)
	writeJSON(w, http.StatusCreated, dev)
}

// HandleListDevices lists all devices, newest first.
func (h *Handler) HandleListDevices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.devices.List())
}

type createMetricRequest struct {
	MetricName string `json:"metric_name"`
	MetricUnit string `json:"metric_unit"`
}

// HandleCreateMetric registers a new metric definition.
func (h *Handler) HandleCreateMetric(w http.ResponseWriter, r *http.Request) {
	var req createMetricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.MetricName == "" || req.MetricUnit == "" {
		writeError(w, http.StatusBadRequest, "metric_name and metric_unit are required")
		return
	}

	def, err := h.catalog.Register(req.MetricName, req.MetricUnit)
	if err != nil {
		if errors.Is(err, data.ErrDuplicateMetric) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.serverError(w, "register metric", err)
		return
	}
	writeJSON(w, http.StatusCreated, def)
}

// HandleListMetrics lists all metric definitions.
func (h *Handler) HandleListMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.List())
}

type ingestRequest struct {
	MetricID string `json:"metric_id"`
	Value    string `json:"value"`
}

// HandleIngest accepts one telemetry sample for a device.
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.MetricID == "" {
		writeError(w, http.StatusBadRequest, "metric_id is required")
		return
	}
	if req.Value == "" {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}

	sample, err := h.service.Ingest(r.Context(), deviceID, req.MetricID, req.Value)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, sample)
	case telemetry.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case data.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.serverError(w, "ingest sample", err)
	}
}

// HandleRecentData returns the last N samples for a device, enriched
// with metric names and units. An unparsable or non-positive limit
// falls back to the default.
func (h *Handler) HandleRecentData(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	samples, err := h.service.Recent(r.Context(), deviceID, limit)
	if err != nil {
		h.serverError(w, "query recent samples", err)
		return
	}
	writeJSON(w, http.StatusOK, samples)
}

// HandleSummary returns per-metric statistics for a device.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")

	summary, err := h.service.Summary(r.Context(), deviceID)
	if err != nil {
		h.serverError(w, "summarize device", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type commandRequest struct {
	CommandName string `json:"command_name"`
}

// HandleCommand triggers a mock command on a device and logs it.
func (h *Handler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.CommandName == "" {
		writeError(w, http.StatusBadRequest, "command_name is required")
		return
	}

	entry, err := h.service.Command(r.Context(), deviceID, req.CommandName)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, entry)
	case telemetry.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.serverError(w, "dispatch command", err)
	}
}

// HandleRecentCommands returns the last commands issued to a device.
func (h *Handler) HandleRecentCommands(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")

	entries, err := h.service.RecentCommands(r.Context(), deviceID)
	if err != nil {
		h.serverError(w, "query command log", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleWebSocket upgrades the connection and registers the client
// with the hub. Subscriptions arrive as messages on the socket.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := websocket.NewClient(h.hub, conn, h.log)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// HandleHealthz reports process liveness.
func (h *Handler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) serverError(w http.ResponseWriter, op string, err error) {
	h.log.Error(op, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
