package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/perfreview/goalflow/internal/ctxkeys"
	"github.com/perfreview/goalflow/internal/handler"
	"github.com/perfreview/goalflow/internal/model"
	"github.com/perfreview/goalflow/internal/service"
)

const authCookieName = "auth_token"

// AuthMiddleware verifies the caller's JWT and adds the actor to the context if valid.
// The token comes from the Authorization header, or from the auth_token cookie.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				// No token, continue without auth
				next.ServeHTTP(w, r)
				return
			}

			actor, err := authService.VerifyJWT(token)
			if err != nil {
				slog.Debug("rejected auth token", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}

	cookie, err := r.Cookie(authCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// RequireAuth rejects anonymous requests with 401
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Actor(r.Context()) == nil {
			handler.RespondError(w, r, service.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireRole only lets actors with one of the given roles through.
// Anonymous requests get 401, other roles 403.
func RequireRole(roles ...model.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return RequireAuth(func(w http.ResponseWriter, r *http.Request) {
			actor := ctxkeys.Actor(r.Context())
			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			slog.Warn("role not permitted", "user_id", actor.UserID, "role", actor.Role, "path", r.URL.Path)
			handler.RespondError(w, r, service.ErrForbidden)
		})
	}
}
