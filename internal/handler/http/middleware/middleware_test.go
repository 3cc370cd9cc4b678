package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/leave-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(jwtService jwt.Service, extra ...func(http.Handler) http.Handler) (*chi.Mux, *user.Principal) {
	seen := &user.Principal{}
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
	r.Use(AuthRequired(jwtService))
	for _, m := range extra {
		r.Use(m)
	}
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		*seen = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	return r, seen
}

func do(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	jwtService := jwt.NewJWTService("middleware-secret", "1h")
	token, _, err := jwtService.GenerateAccessToken("u-1", "alice@example.com", user.RoleUser)
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		r, _ := newProtectedRouter(jwtService)
		assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	})

	t.Run("valid token stores principal", func(t *testing.T) {
		r, seen := newProtectedRouter(jwtService)
		rec := do(r, token)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, user.Principal{ID: "u-1", Role: user.RoleUser}, *seen)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := jwt.NewJWTService("other-secret", "1h")
		forged, _, err := other.GenerateAccessToken("u-1", "alice@example.com", user.RoleAdmin)
		require.NoError(t, err)
		r, _ := newProtectedRouter(jwtService)
		assert.Equal(t, http.StatusUnauthorized, do(r, forged).Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		svc := jwt.NewJWTService("middleware-secret", "1h")
		revoked, revokedExp, err := svc.GenerateAccessToken("u-1", "alice@example.com", user.RoleUser)
		require.NoError(t, err)
		svc.RevokeToken(revoked, revokedExp)
		r, _ := newProtectedRouter(svc)
		assert.Equal(t, http.StatusUnauthorized, do(r, revoked).Code)
	})
}

func TestAdminOnly(t *testing.T) {
	jwtService := jwt.NewJWTService("middleware-secret", "1h")
	userToken, _, err := jwtService.GenerateAccessToken("u-1", "alice@example.com", user.RoleUser)
	require.NoError(t, err)
	adminToken, _, err := jwtService.GenerateAccessToken("a-1", "admin@example.com", user.RoleAdmin)
	require.NoError(t, err)

	r, _ := newProtectedRouter(jwtService, AdminOnly)
	assert.Equal(t, http.StatusForbidden, do(r, userToken).Code)
	assert.Equal(t, http.StatusNoContent, do(r, adminToken).Code)
}

func TestRequirePermission(t *testing.T) {
	jwtService := jwt.NewJWTService("middleware-secret", "1h")
	userToken, _, err := jwtService.GenerateAccessToken("u-1", "alice@example.com", user.RoleUser)
	require.NoError(t, err)

	allowed, _ := newProtectedRouter(jwtService, RequirePermission(user.PermissionLeaveCreate))
	assert.Equal(t, http.StatusNoContent, do(allowed, userToken).Code)

	denied, _ := newProtectedRouter(jwtService, RequirePermission(user.PermissionLeaveTransition))
	assert.Equal(t, http.StatusForbidden, do(denied, userToken).Code)
}

func TestRateLimitByUser(t *testing.T) {
	jwtService := jwt.NewJWTService("middleware-secret", "1h")
	alice, _, err := jwtService.GenerateAccessToken("u-1", "alice@example.com", user.RoleUser)
	require.NoError(t, err)
	bob, _, err := jwtService.GenerateAccessToken("u-2", "bob@example.com", user.RoleUser)
	require.NoError(t, err)

	r, _ := newProtectedRouter(jwtService, RateLimitByUser(1, 1))
	assert.Equal(t, http.StatusNoContent, do(r, alice).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, alice).Code)
	assert.Equal(t, http.StatusNoContent, do(r, bob).Code)
}

func TestRateLimitByUser_AnonymousPassesThrough(t *testing.T) {
	h := RateLimitByUser(1, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, do(h, "").Code)
	}
}

func TestRateLimitByIP(t *testing.T) {
	h := RateLimitByIP(1, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:1000"))
}
