package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	commonhttp "github.com/rkarimov/smart-traffic/internal/common/http"
	"github.com/rkarimov/smart-traffic/internal/common/logger"
	"github.com/rkarimov/smart-traffic/internal/zones/domain"
	"github.com/rkarimov/smart-traffic/internal/zones/service"
)

type createZoneRequest struct {
	Name         string `json:"name" validate:"required"`
	VehicleCount int    `json:"vehicle_count" validate:"gte=0"`
}

type updateZoneRequest struct {
	Name         *string `json:"name"`
	VehicleCount *int    `json:"vehicle_count" validate:"omitempty,gte=0"`
}

type zoneResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	VehicleCount int    `json:"vehicle_count"`
}

type Handler struct {
	zones    *service.ZoneService
	validate *validator.Validate
	log      *logger.Logger
}

func NewHandler(zones *service.ZoneService, log *logger.Logger) *Handler {
	return &Handler{
		zones:    zones,
		validate: validator.New(),
		log:      log,
	}
}

// Mount registers the zone CRUD endpoints. The caller is expected to wrap r
// with the identity middleware; every route here assumes an active user.
func (h *Handler) Mount(r chi.Router) {
	r.Route("/zones", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{zoneID}", h.get)
		r.Put("/{zoneID}", h.update)
		r.Delete("/{zoneID}", h.delete)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createZoneRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		commonhttp.WriteDetail(w, http.StatusBadRequest, "name is required and vehicle_count must not be negative")
		return
	}

	zone, err := h.zones.Create(r.Context(), req.Name, req.VehicleCount)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toZoneResponse(zone))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	skip, limit := commonhttp.Pagination(r)

	zones, err := h.zones.List(r.Context(), skip, limit)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	resp := make([]zoneResponse, 0, len(zones))
	for _, z := range zones {
		resp = append(resp, toZoneResponse(z))
	}
	commonhttp.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.zoneID(w, r)
	if !ok {
		return
	}

	zone, err := h.zones.Get(r.Context(), id)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toZoneResponse(zone))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.zoneID(w, r)
	if !ok {
		return
	}

	var req updateZoneRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		commonhttp.WriteDetail(w, http.StatusBadRequest, "vehicle_count must not be negative")
		return
	}

	zone, err := h.zones.Update(r.Context(), id, domain.ZoneUpdate{
		Name:         req.Name,
		VehicleCount: req.VehicleCount,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toZoneResponse(zone))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.zoneID(w, r)
	if !ok {
		return
	}

	if err := h.zones.Delete(r.Context(), id); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, commonhttp.MessageResponse{
		Message: fmt.Sprintf("Traffic Zone with id %d deleted", id),
	})
}

func (h *Handler) zoneID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "zoneID"), 10, 64)
	if err != nil {
		commonhttp.WriteDetail(w, http.StatusUnprocessableEntity, "zone_id must be an integer")
		return 0, false
	}
	return id, true
}

func toZoneResponse(z domain.TrafficZone) zoneResponse {
	return zoneResponse{
		ID:           z.ID,
		Name:         z.Name,
		VehicleCount: z.VehicleCount,
	}
}
