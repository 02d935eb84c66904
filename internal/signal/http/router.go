package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	commonhttp "github.com/rkarimov/smart-traffic/internal/common/http"
	"github.com/rkarimov/smart-traffic/internal/common/logger"
	"github.com/rkarimov/smart-traffic/internal/signal/service"
	"github.com/rkarimov/smart-traffic/internal/signal/ws"
)

type Handler struct {
	board *service.Board
	hub   *ws.Hub
	log   *logger.Logger
}

func NewHandler(board *service.Board, hub *ws.Hub, log *logger.Logger) *Handler {
	return &Handler{board: board, hub: hub, log: log}
}

func (h *Handler) Mount(r chi.Router) {
	r.Route("/traffic", func(r chi.Router) {
		r.Get("/", h.allTraffic)
		r.Get("/ws", h.hub.Serve)
		r.Get("/{zone}", h.zoneTraffic)
		r.Put("/{zone}", h.updateTraffic)
	})
	r.Get("/signal/{zone}", h.signalStatus)
	r.Get("/status", h.serviceStatus)
}

func (h *Handler) allTraffic(w http.ResponseWriter, r *http.Request) {
	commonhttp.WriteJSON(w, http.StatusOK, h.board.All())
}

func (h *Handler) zoneTraffic(w http.ResponseWriter, r *http.Request) {
	current, err := h.board.Get(chi.URLParam(r, "zone"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, current)
}

// updateTraffic takes the new count as a query parameter, mirroring the
// API's historical shape, and pushes the change to feed subscribers.
func (h *Handler) updateTraffic(w http.ResponseWriter, r *http.Request) {
	zone := chi.URLParam(r, "zone")

	vehicleCount, err := strconv.Atoi(r.URL.Query().Get("vehicle_count"))
	if err != nil || vehicleCount < 0 {
		commonhttp.WriteDetail(w, http.StatusUnprocessableEntity, "vehicle_count must be a non-negative integer")
		return
	}

	updated, err := h.board.Update(zone, vehicleCount)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.hub.Broadcast(updated)
	h.log.Infof("zone %s updated to %d vehicles", zone, vehicleCount)
	commonhttp.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) signalStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.board.Signal(chi.URLParam(r, "zone"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) serviceStatus(w http.ResponseWriter, r *http.Request) {
	commonhttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "Traffic Service is running"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrZoneNotFound) {
		commonhttp.WriteDetail(w, http.StatusNotFound, "Zone not found")
		return
	}
	h.log.Errorf("signal request failed: %v", err)
	commonhttp.WriteDetail(w, http.StatusInternalServerError, "Internal server error")
}
