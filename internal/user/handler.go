package user

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redmonkez12/user-management-api/internal/apperror"
	"github.com/redmonkez12/user-management-api/internal/httputil"
	"github.com/redmonkez12/user-management-api/internal/logging"
)

// Handler contains HTTP handlers for the /api/users endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the user endpoints on r. The caller is responsible for
// putting them behind authentication.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List handles paginated user listing
// @Summary      List users
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int    false "Page number" minimum(1) default(1)
// @Param        limit     query int    false "Page size" minimum(1) maximum(100) default(10)
// @Param        sortBy    query string false "Sort field" Enums(id, updatedAt, createdAt, email, birthDate)
// @Param        sortOrder query string false "Sort direction" Enums(asc, desc)
// @Param        search    query string false "Case-insensitive match on names and email"
// @Success      200 {object} Page
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /api/users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params, err := ParseListParams(r.URL.Query())
	if err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	page, err := h.service.List(r.Context(), params)
	if err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	httputil.RespondJSON(w, r, page, http.StatusOK)
}

// Get handles fetching a single user
// @Summary      Get user
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {object} User
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/users/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	httputil.RespondJSON(w, r, u, http.StatusOK)
}

// Create handles user creation
// @Summary      Create user
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateInput true "New user"
// @Success      201 {object} User
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      409 {object} httputil.ErrorResponse
// @Router       /api/users [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var in CreateInput
	if !decodeBody(w, r, &in) {
		return
	}

	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	logger.Info("user created", "user_id", created.ID)
	httputil.RespondJSON(w, r, created, http.StatusCreated)
}

// Update handles partial user updates
// @Summary      Update user
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string      true "User ID"
// @Param        request body UpdateInput true "Fields to change"
// @Success      200 {object} User
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Failure      409 {object} httputil.ErrorResponse
// @Router       /api/users/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var in UpdateInput
	if !decodeBody(w, r, &in) {
		return
	}

	updated, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	logger.Info("user updated", "user_id", updated.ID)
	httputil.RespondJSON(w, r, updated, http.StatusOK)
}

// Delete handles user removal
// @Summary      Delete user
// @Tags         user
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      204
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	logger.Info("user deleted", "user_id", id)
	httputil.RespondNoContent(w)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondAppError(w, r, apperror.InvalidRequest(apperror.FieldError{
			Field:   "id",
			Message: "id must be a valid UUID",
		}))
		return uuid.Nil, false
	}
	return id, true
}

// decodeBody rejects malformed JSON and unknown fields with 400.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		logging.GetLoggerFromContext(r.Context()).Warn("invalid request body", "error", err.Error())
		httputil.RespondAppError(w, r, apperror.InvalidRequest(apperror.FieldError{
			Field:   "body",
			Message: err.Error(),
		}))
		return false
	}
	return true
}
