package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/redmonkez12/user-management-api/internal/apperror"
	"github.com/redmonkez12/user-management-api/internal/logging"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Message string                `json:"message"`
	Code    string                `json:"code,omitempty"`
	Details []apperror.FieldError `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, r *http.Request, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("failed to encode JSON response", "error", err)
	}
}

// RespondNoContent writes a bare 204.
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondError sends a JSON error response with a machine-readable code.
func RespondError(w http.ResponseWriter, r *http.Request, message, code string, statusCode int) {
	RespondJSON(w, r, ErrorResponse{Message: message, Code: code}, statusCode)
}

// RespondAppError translates err into a response. Errors of apperror's
// taxonomy keep their status and message; anything else is logged and
// reported as a generic 500.
func RespondAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.Internal(err)
	}

	if appErr.Kind == apperror.KindInternal {
		logging.GetLoggerFromContext(r.Context()).Error("internal error", "error", err)
	}

	RespondJSON(w, r, ErrorResponse{
		Message: appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	}, appErr.Status())
}
