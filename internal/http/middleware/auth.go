package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"transitboard/internal/models"
)

// SessionCookie names the cookie carrying the session token.
const SessionCookie = "tb_session"

type contextKey string

const identityKey contextKey = "identity"

// Authenticator resolves a session token to an identity.
type Authenticator interface {
	Resolve(ctx context.Context, token string) (*models.Identity, error)
}

// TokenFromRequest extracts the session token from the session cookie or an
// Authorization: Bearer header. Empty string when neither is present.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// SessionMiddleware resolves the caller's identity on every request. API
// paths get a 401 JSON response when unauthenticated; page paths are
// redirected to the login entry point.
func SessionMiddleware(auth Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := auth.Resolve(r.Context(), TokenFromRequest(r))
			if err != nil {
				if isAPIPath(r.URL.Path) {
					writeAuthError(w, http.StatusUnauthorized, "authentication required")
					return
				}
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePageRole gates a page route to one role. A logged-in caller with
// the wrong role is sent to their own landing page with a warning notice,
// never an error page.
func RequirePageRole(role models.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			switch identity.Role {
			case role:
				next.ServeHTTP(w, r)
			case models.RoleAdmin, models.RoleUser:
				target := identity.Role.LandingPath() + "?notice=" + url.QueryEscape(wrongRoleNotice(role))
				http.Redirect(w, r, target, http.StatusFound)
			default:
				http.Redirect(w, r, "/login", http.StatusFound)
			}
		})
	}
}

// RequireAdminAPI gates the administrative write API. Unlike page routes,
// a wrong-role caller gets an explicit 403, not a redirect.
func RequireAdminAPI() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			switch identity.Role {
			case models.RoleAdmin:
				next.ServeHTTP(w, r)
			case models.RoleUser:
				writeAuthError(w, http.StatusForbidden, "admin access required")
			default:
				writeAuthError(w, http.StatusForbidden, "admin access required")
			}
		})
	}
}

// IdentityFromContext retrieves the resolved identity from request context.
func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*models.Identity)
	return identity, ok
}

// WithIdentity returns a context carrying the identity; used by tests.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}

func wrongRoleNotice(required models.Role) string {
	switch required {
	case models.RoleAdmin:
		return "Access denied. Admin privileges required."
	default:
		return "Admins should use the admin dashboard."
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
