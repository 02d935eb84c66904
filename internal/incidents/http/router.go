package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	commonhttp "github.com/rkarimov/smart-traffic/internal/common/http"
	"github.com/rkarimov/smart-traffic/internal/common/logger"
	"github.com/rkarimov/smart-traffic/internal/incidents/domain"
	"github.com/rkarimov/smart-traffic/internal/incidents/repository"
	"github.com/rkarimov/smart-traffic/internal/observability/metrics"
)

type reportRequest struct {
	Type     string `json:"type" validate:"required"`
	Location string `json:"location" validate:"required"`
}

type updateRequest struct {
	Type     *string `json:"type"`
	Location *string `json:"location"`
}

type incidentResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler serves the incident CRUD API straight off the repository; the
// service has no invariants beyond record existence.
type Handler struct {
	repo     repository.Repository
	validate *validator.Validate
	log      *logger.Logger
}

func NewHandler(repo repository.Repository, log *logger.Logger) *Handler {
	return &Handler{
		repo:     repo,
		validate: validator.New(),
		log:      log,
	}
}

func (h *Handler) Mount(r chi.Router) {
	r.Post("/report", h.report)
	r.Route("/incidents", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{incidentID}", h.get)
		r.Put("/{incidentID}", h.update)
		r.Delete("/{incidentID}", h.delete)
	})
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		commonhttp.WriteDetail(w, http.StatusBadRequest, "type and location are required")
		return
	}

	incident, err := h.repo.Create(r.Context(), req.Type, req.Location)
	if err != nil {
		h.log.Errorf("incident create failed: %v", err)
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	metrics.IncidentOperationsTotal.WithLabelValues("report").Inc()
	commonhttp.WriteJSON(w, http.StatusCreated, toIncidentResponse(incident))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.repo.List(r.Context())
	if err != nil {
		h.log.Errorf("incident list failed: %v", err)
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	metrics.IncidentOperationsTotal.WithLabelValues("list").Inc()
	resp := make([]incidentResponse, 0, len(incidents))
	for _, in := range incidents {
		resp = append(resp, toIncidentResponse(in))
	}
	commonhttp.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	incident, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	metrics.IncidentOperationsTotal.WithLabelValues("get").Inc()
	commonhttp.WriteJSON(w, http.StatusOK, toIncidentResponse(incident))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	incident, err := h.repo.Update(r.Context(), id, domain.IncidentUpdate{
		Type:     req.Type,
		Location: req.Location,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	metrics.IncidentOperationsTotal.WithLabelValues("update").Inc()
	commonhttp.WriteJSON(w, http.StatusOK, toIncidentResponse(incident))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	metrics.IncidentOperationsTotal.WithLabelValues("delete").Inc()
	commonhttp.WriteJSON(w, http.StatusOK, commonhttp.MessageResponse{
		Message: fmt.Sprintf("Incident with ID %d deleted", id),
	})
}

func (h *Handler) incidentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "incidentID"), 10, 64)
	if err != nil {
		commonhttp.WriteDetail(w, http.StatusUnprocessableEntity, "incident_id must be an integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrIncidentNotFound) {
		commonhttp.WriteDetail(w, http.StatusNotFound, "Incident not found")
		return
	}
	h.log.Errorf("incident request failed: %v", err)
	commonhttp.HandleError(w, r, err, h.log)
}

func toIncidentResponse(in domain.Incident) incidentResponse {
	return incidentResponse{
		ID:        in.ID,
		Type:      in.Type,
		Location:  in.Location,
		Timestamp: in.Timestamp,
	}
}
