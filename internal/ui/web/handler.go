package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rkarimov/smart-traffic/internal/common/constants"
	"github.com/rkarimov/smart-traffic/internal/common/logger"
	"github.com/rkarimov/smart-traffic/internal/ui/client"
	"github.com/rkarimov/smart-traffic/internal/ui/session"
)

//go:embed templates/*.html
var templateFS embed.FS

type Handler struct {
	api      *client.Client
	sessions *session.Store
	tmpl     *template.Template
	log      *logger.Logger
}

func NewHandler(api *client.Client, sessions *session.Store, log *logger.Logger) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Handler{api: api, sessions: sessions, tmpl: tmpl, log: log}, nil
}

func (h *Handler) Mount(r chi.Router) {
	r.Get("/", h.index)

	r.Get("/signup", h.signupForm)
	r.Post("/signup", h.signup)
	r.Get("/login", h.loginForm)
	r.Post("/login", h.login)
	r.Get("/logout", h.logout)

	r.Get("/zones", h.listZones)
	r.Get("/zones/create", h.createZoneForm)
	r.Post("/zones/create", h.createZone)
	r.Get("/zones/edit/{zoneID}", h.editZoneForm)
	r.Post("/zones/update/{zoneID}", h.updateZone)
	r.Post("/zones/delete/{zoneID}", h.deleteZone)

	r.Get("/incidents", h.listIncidents)
	r.Get("/incidents/edit/{incidentID}", h.editIncidentForm)
	r.Post("/incidents/update/{incidentID}", h.updateIncident)
	r.Post("/incidents/delete/{incidentID}", h.deleteIncident)
	r.Get("/report-incident", h.reportIncidentForm)
	r.Post("/report-incident", h.reportIncident)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/zones", http.StatusFound)
}

func (h *Handler) signupForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "signup.html", nil)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if _, err := h.api.Signup(r.Context(), username, password); err != nil {
		h.render(w, "signup.html", map[string]any{"Error": failureMessage("Signup failed", err)})
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", nil)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := h.api.Login(r.Context(), username, password)
	if err != nil {
		h.render(w, "login.html", map[string]any{"Error": failureMessage("Login failed", err)})
		return
	}

	sessionID, err := h.sessions.Create(r.Context(), token.AccessToken)
	if err != nil {
		h.log.Errorf("failed to create session: %v", err)
		h.render(w, "login.html", map[string]any{"Error": "Login failed: session store unavailable"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     constants.UISessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(constants.UISessionTTL.Seconds()),
	})
	http.Redirect(w, r, "/zones", http.StatusFound)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(constants.UISessionCookie); err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.log.Warnf("failed to delete session: %v", err)
		}
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) listZones(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	zones, err := h.api.ListZones(r.Context(), token)
	if err != nil {
		h.renderAPIError(w, r, err)
		return
	}
	h.render(w, "zones_list.html", map[string]any{"Zones": zones})
}

func (h *Handler) createZoneForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.token(w, r); !ok {
		return
	}
	h.render(w, "zones_create.html", nil)
}

func (h *Handler) createZone(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	in, err := zoneInput(r)
	if err != nil {
		h.render(w, "zones_create.html", map[string]any{"Error": err.Error()})
		return
	}

	if _, err := h.api.CreateZone(r.Context(), token, in); err != nil {
		h.renderAPIError(w, r, err)
		return
	}
	http.Redirect(w, r, "/zones", http.StatusFound)
}

func (h *Handler) editZoneForm(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	id, err := pathID(r, "zoneID")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	zone, err := h.api.GetZone(r.Context(), token, id)
	if err != nil {
		h.renderAPIError(w, r, err)
		return
	}
	h.render(w, "zones_edit.html", map[string]any{"Zone": zone})
}

func (h *Handler) updateZone(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	id, err := pathID(r, "zoneID")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	in, err := zoneInput(r)
	if err != nil {
		h.render(w, "zones_edit.html", map[string]any{"Error": err.Error(), "Zone": client.Zone{ID: id}})
		return
	}

	if _, err := h.api.UpdateZone(r.Context(), token, id, in); err != nil {
		h.renderAPIError(w, r, err)
		return
	}
	http.Redirect(w, r, "/zones", http.StatusFound)
}

func (h *Handler) deleteZone(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	id, err := pathID(r, "zoneID")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.api.DeleteZone(r.Context(), token, id); err != nil {
		h.renderAPIError(w, r, err)
		return
	}
	http.Redirect(w, r, "/zones", http.StatusFound)
}

func (h *Handler) listIncidents(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	incidents, err := h.api.ListIncidents(r.Context(), token)
	if err != nil {
		h.renderAPIError(w, r, err)
		return
	}
	h.render(w, "incidents.html", map[string]any{"Incidents": incidents})
}

func (h *Handler) editIncidentForm(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	id, err := pathID(r, "incidentID")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	incident, err := h.api.GetIncident(r.Context(), token, id)
	if err != nil {
		h.renderAPIError(w, r, err)
		return
	}
	h.render(w, "incident_edit.html", map[string]any{"Incident": incident})
}

func (h *Handler) updateIncident(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	id, err := pathID(r, "incidentID")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	in := client.IncidentInput{
		Type:     r.PostFormValue("type"),
		Location: r.PostFormValue("location"),
	}
	if _, err := h.api.UpdateIncident(r.Context(), token, id, in); err != nil {
		h.renderAPIError(w, r, err)
		return
	}
	http.Redirect(w, r, "/incidents", http.StatusFound)
}

func (h *Handler) deleteIncident(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	id, err := pathID(r, "incidentID")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.api.DeleteIncident(r.Context(), token, id); err != nil {
		h.renderAPIError(w, r, err)
		return
	}
	http.Redirect(w, r, "/incidents", http.StatusFound)
}

func (h *Handler) reportIncidentForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.token(w, r); !ok {
		return
	}
	h.render(w, "incident_report.html", nil)
}

func (h *Handler) reportIncident(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	in := client.IncidentInput{
		Type:     r.PostFormValue("type"),
		Location: r.PostFormValue("location"),
	}
	if _, err := h.api.ReportIncident(r.Context(), token, in); err != nil {
		h.renderAPIError(w, r, err)
		return
	}
	http.Redirect(w, r, "/incidents", http.StatusFound)
}

// token resolves the session cookie to an access token. A missing or expired
// session redirects to the login page and reports ok=false.
func (h *Handler) token(w http.ResponseWriter, r *http.Request) (string, bool) {
	cookie, err := r.Cookie(constants.UISessionCookie)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return "", false
	}

	token, err := h.sessions.Token(r.Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			h.log.Errorf("session lookup failed: %v", err)
		}
		h.clearSessionCookie(w)
		http.Redirect(w, r, "/login", http.StatusFound)
		return "", false
	}
	return token, true
}

// renderAPIError maps a failed API call to a page. A 401 means the token
// was rejected upstream, so the stale session is dropped.
func (h *Handler) renderAPIError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, client.ErrUnauthorized) {
		h.clearSessionCookie(w)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	h.log.Errorf("api request failed: %v", err)

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		h.render(w, "error.html", map[string]any{"Error": apiErr.Detail})
		return
	}
	h.render(w, "error.html", map[string]any{"Error": "Service temporarily unavailable"})
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.log.Errorf("failed to render %s: %v", name, err)
	}
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.UISessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func failureMessage(prefix string, err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%s: %s", prefix, apiErr.Detail)
	}
	if errors.Is(err, client.ErrUnauthorized) {
		return fmt.Sprintf("%s: Incorrect username or password", prefix)
	}
	return fmt.Sprintf("%s: service unavailable", prefix)
}

func zoneInput(r *http.Request) (client.ZoneInput, error) {
	vehicleCount, err := strconv.Atoi(r.PostFormValue("vehicle_count"))
	if err != nil || vehicleCount < 0 {
		return client.ZoneInput{}, errors.New("vehicle count must be a non-negative number")
	}
	return client.ZoneInput{
		Name:         r.PostFormValue("name"),
		VehicleCount: vehicleCount,
	}, nil
}

func pathID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}
