package http

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/redmonkez12/user-management-api/internal/apperror"
	"github.com/redmonkez12/user-management-api/internal/httputil"
	"github.com/redmonkez12/user-management-api/internal/logging"
)

// SecurityHeaders adds security-related headers to all responses. The API
// only serves JSON, so nothing may be loaded by a browser.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}

// Recoverer turns a handler panic into the standard JSON 500 body and logs
// the stack on the request logger.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			// net/http relies on this panic to abort the response
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			logging.GetLoggerFromContext(r.Context()).Error("panic recovered",
				"panic", fmt.Sprint(rvr),
				"stack", string(debug.Stack()),
			)
			httputil.RespondAppError(w, r, apperror.ErrInternal)
		}()

		next.ServeHTTP(w, r)
	})
}
