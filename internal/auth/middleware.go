package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/redmonkez12/user-management-api/internal/apperror"
	"github.com/redmonkez12/user-management-api/internal/httputil"
	"github.com/redmonkez12/user-management-api/internal/logging"
	"github.com/redmonkez12/user-management-api/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const AuthUserContextKey ContextKey = "auth_user"

const bearerPrefix = "Bearer "

// UserLookup resolves a token subject to a stored user.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
	users        UserLookup
}

func NewMiddleware(tokenService TokenService, users UserLookup) *Middleware {
	return &Middleware{tokenService: tokenService, users: users}
}

// RequireAuth verifies the bearer token, loads the user it names and stores
// that user in the request context. The embedded email is never trusted;
// the user is looked up by id on every request.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logger.Warn("authorization rejected: missing header")
			httputil.RespondAppError(w, r, apperror.ErrUnauthorizedAccess)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if token == "" {
			logger.Warn("authorization rejected: empty token")
			httputil.RespondAppError(w, r, apperror.ErrUnauthorizedAccess)
			return
		}

		claims, err := m.tokenService.VerifyToken(token)
		if err != nil {
			logger.Warn("authorization rejected: token verification failed", "error", err.Error())
			httputil.RespondAppError(w, r, apperror.ErrUnauthorizedAccess)
			return
		}

		userID, err := uuid.Parse(claims.Subject.ID)
		if err != nil {
			logger.Warn("authorization rejected: token has no valid subject id")
			httputil.RespondAppError(w, r, apperror.ErrUnauthorizedAccess)
			return
		}

		authUser, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				logger.Warn("authorization rejected: subject no longer exists", "user_id", userID)
				httputil.RespondAppError(w, r, apperror.ErrUnauthorizedAccess)
				return
			}
			// logged by RespondAppError
			httputil.RespondAppError(w, r, apperror.Internal(fmt.Errorf("resolve user %s: %w", userID, err)))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), authUser)))
	})
}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, AuthUserContextKey, u)
}

// UserFromContext returns the user attached by RequireAuth.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(AuthUserContextKey).(*user.User)
	return u, ok && u != nil
}
