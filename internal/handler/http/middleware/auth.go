package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type ctxKey int

const principalKey ctxKey = iota

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Role   user.Role
}

// PrincipalFromContext returns the caller stored by AuthRequired.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// WithPrincipal stores p on ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// AuthRequired accepts access tokens carrying user_id and a known role.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			userID, _ := claims["user_id"].(string)
			roleClaim, _ := claims["role"].(string)
			role, err := user.ParseRole(roleClaim)
			if userID == "" || err != nil {
				response.HandleError(w, auth.ErrMissingClaims)
				return
			}

			ctx := WithPrincipal(r.Context(), Principal{UserID: userID, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}
