package auth

import (
	"encoding/json"
	"net/http"

	"github.com/redmonkez12/user-management-api/internal/apperror"
	"github.com/redmonkez12/user-management-api/internal/httputil"
	"github.com/redmonkez12/user-management-api/internal/logging"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate user and receive a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} LoginResult
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      404 {object} httputil.ErrorResponse "User does not exist"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondAppError(w, r, apperror.InvalidRequest(apperror.FieldError{
			Field:   "body",
			Message: err.Error(),
		}))
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if appErr, ok := apperror.As(err); ok && appErr.Kind != apperror.KindInternal {
			logger.Warn("login failed", "reason", appErr.Code)
		}
		httputil.RespondAppError(w, r, err)
		return
	}

	logger.Info("user logged in successfully", "user_id", result.User.ID)
	httputil.RespondJSON(w, r, result, http.StatusOK)
}
