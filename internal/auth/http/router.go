package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rkarimov/smart-traffic/internal/auth/domain"
	"github.com/rkarimov/smart-traffic/internal/auth/service"
	commonhttp "github.com/rkarimov/smart-traffic/internal/common/http"
	"github.com/rkarimov/smart-traffic/internal/common/logger"
)

type signupRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Handler struct {
	auth     *service.AuthService
	validate *validator.Validate
	log      *logger.Logger
}

func NewHandler(auth *service.AuthService, log *logger.Logger) *Handler {
	return &Handler{
		auth:     auth,
		validate: validator.New(),
		log:      log,
	}
}

// Mount registers the public auth endpoints and the user read API on r.
func (h *Handler) Mount(r chi.Router) {
	r.Post("/auth/signup", h.signup)
	r.Post("/token", h.login)

	r.Route("/users", func(r chi.Router) {
		r.With(RequireUser(h.auth, h.log), RequireActiveUser(h.log)).
			Get("/me", h.me)
		r.Get("/", h.listUsers)
		r.Get("/{userID}", h.getUser)
	})
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		commonhttp.WriteDetail(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.auth.Signup(r.Context(), service.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

// login accepts the form-encoded credential pair of the OAuth2 password
// flow. Unknown username and wrong password produce byte-identical
// responses.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		commonhttp.WriteDetail(w, http.StatusBadRequest, "Invalid form body")
		return
	}

	result, err := h.auth.Login(r.Context(), service.Credentials{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		commonhttp.WriteUnauthorized(w, service.ErrUnauthorized.Detail())
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	skip, limit := commonhttp.Pagination(r)

	users, err := h.auth.ListUsers(r.Context(), skip, limit)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	commonhttp.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.GetUser(r.Context(), domain.UserID(chi.URLParam(r, "userID")))
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:       string(u.ID),
		Username: u.Username,
		IsActive: u.IsActive,
	}
}
