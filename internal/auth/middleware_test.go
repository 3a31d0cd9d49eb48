package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/user-management-api/internal/apperror"
	"github.com/redmonkez12/user-management-api/internal/httputil"
	"github.com/redmonkez12/user-management-api/internal/user"
)

func newGate(t *testing.T, users *fakeUsers) (*Middleware, *JWTService) {
	t.Helper()
	tokens, err := NewJWTService(testSecret, time.Hour)
	require.NoError(t, err)
	return NewMiddleware(tokens, users), tokens
}

// protected records whether it ran and which user it saw.
type protected struct {
	called bool
	user   *user.User
}

func (p *protected) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.called = true
	p.user, _ = UserFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestRequireAuth_Rejections(t *testing.T) {
	admin := &user.User{ID: uuid.New(), Email: "admin@example.com"}
	users := newFakeUsers(admin)
	gate, tokens := newGate(t, users)

	valid, err := tokens.CreateToken(admin.ID, admin.Email)
	require.NoError(t, err)

	expiredIssuer, err := NewJWTService(testSecret, time.Hour, WithClock(fixedClock(time.Now().Add(-2*time.Hour))))
	require.NoError(t, err)
	expired, err := expiredIssuer.CreateToken(admin.ID, admin.Email)
	require.NoError(t, err)

	otherKey, err := NewJWTService([]byte("not-our-secret"), time.Hour)
	require.NoError(t, err)
	forged, err := otherKey.CreateToken(admin.ID, admin.Email)
	require.NoError(t, err)

	badSubject, err := tokens.CreateToken(uuid.Nil, admin.Email)
	require.NoError(t, err)

	tests := []struct {
		name        string
		header      string
		wantLookups bool
	}{
		{"missing header", "", false},
		{"empty bearer", "Bearer ", false},
		{"bearer with only spaces", "Bearer    ", false},
		{"garbage token", "Bearer abc.def.ghi", false},
		{"expired", "Bearer " + expired, false},
		{"wrong key", "Bearer " + forged, false},
		{"unknown subject", "Bearer " + badSubject, true},
		{"lowercase scheme", "bearer " + valid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := users.lookupCount()
			next := &protected{}

			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			gate.RequireAuth(next).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.False(t, next.called, "handler must not run")

			var body httputil.ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, "Unauthorized access", body.Message)
			assert.Equal(t, apperror.CodeUnauthorizedAccess, body.Code)

			if !tt.wantLookups {
				assert.Equal(t, before, users.lookupCount(), "store must not be consulted")
			}
		})
	}
}

func TestRequireAuth_AttachesResolvedUser(t *testing.T) {
	admin := &user.User{ID: uuid.New(), Email: "admin@example.com", FirstName: "Admin"}
	users := newFakeUsers(admin)
	gate, tokens := newGate(t, users)

	token, err := tokens.CreateToken(admin.ID, admin.Email)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"bearer prefix", "Bearer " + token},
		{"raw token", token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &protected{}
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			req.Header.Set("Authorization", tt.header)
			rr := httptest.NewRecorder()

			gate.RequireAuth(next).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			require.True(t, next.called)
			require.NotNil(t, next.user)
			assert.Same(t, admin, next.user)
		})
	}
}

func TestRequireAuth_DeletedUserTokenIsRejected(t *testing.T) {
	u := &user.User{ID: uuid.New(), Email: "gone@example.com"}
	users := newFakeUsers(u)
	gate, tokens := newGate(t, users)

	token, err := tokens.CreateToken(u.ID, u.Email)
	require.NoError(t, err)

	users.delete(u.ID)

	next := &protected{}
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	gate.RequireAuth(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, next.called)
}

func TestRequireAuth_StoreFailureIsInternal(t *testing.T) {
	u := &user.User{ID: uuid.New(), Email: "a@example.com"}
	users := newFakeUsers(u)
	users.err = errors.New("connection reset")
	gate, tokens := newGate(t, users)

	token, err := tokens.CreateToken(u.ID, u.Email)
	require.NoError(t, err)

	next := &protected{}
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	gate.RequireAuth(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.False(t, next.called)
	assert.NotContains(t, rr.Body.String(), "connection reset")
}

func TestUserFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	u, ok := UserFromContext(req.Context())
	assert.False(t, ok)
	assert.Nil(t, u)
}

func TestRequireAuth_TokenLifetime(t *testing.T) {
	admin := &user.User{ID: uuid.New(), Email: "admin@example.com"}
	users := newFakeUsers(admin)
	issued := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	issuer, err := NewJWTService(testSecret, time.Hour, WithClock(fixedClock(issued)))
	require.NoError(t, err)
	token, err := issuer.CreateToken(admin.ID, admin.Email)
	require.NoError(t, err)

	tests := []struct {
		name       string
		at         time.Time
		wantStatus int
	}{
		{"59 minutes after issue", issued.Add(59 * time.Minute), http.StatusOK},
		{"61 minutes after issue", issued.Add(61 * time.Minute), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier, err := NewJWTService(testSecret, time.Hour, WithClock(fixedClock(tt.at)))
			require.NoError(t, err)
			gate := NewMiddleware(verifier, users)

			next := &protected{}
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rr := httptest.NewRecorder()

			gate.RequireAuth(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, next.called)
		})
	}
}
