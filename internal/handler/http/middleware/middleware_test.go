package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokenAuth = jwtauth.New("HS256", []byte("test-secret"), nil)

func tokenFor(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	_, token, err := tokenAuth.Encode(claims)
	require.NoError(t, err)
	return token
}

func protected(h http.Handler) http.Handler {
	return jwtauth.Verifier(tokenAuth)(AuthRequired(tokenAuth)(h))
}

func TestAuthRequired(t *testing.T) {
	var got Principal
	handler := protected(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		claims map[string]interface{}
		status int
	}{
		{"valid access token", map[string]interface{}{"type": "access", "user_id": "u-1", "role": "head"}, http.StatusNoContent},
		{"sse token rejected", map[string]interface{}{"type": "sse", "user_id": "u-1"}, http.StatusUnauthorized},
		{"unknown role", map[string]interface{}{"type": "access", "user_id": "u-1", "role": "INTERN"}, http.StatusUnauthorized},
		{"missing user", map[string]interface{}{"type": "access", "role": "EMPLOYEE"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, tt.claims))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	assert.Equal(t, Principal{UserID: "u-1", Role: user.RoleHead}, got)
}

func TestAuthRequired_NoToken(t *testing.T) {
	rec := httptest.NewRecorder()
	protected(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePermission(t *testing.T) {
	handler := RequirePermission(user.PermissionSettingsManage)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for role, status := range map[user.Role]int{
		user.RoleOwner:    http.StatusNoContent,
		user.RoleAdmin:    http.StatusNoContent,
		user.RoleHead:     http.StatusForbidden,
		user.RoleEmployee: http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithPrincipal(req.Context(), Principal{UserID: "u", Role: role}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, status, rec.Code, string(role))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
