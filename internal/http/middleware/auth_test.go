package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitboard/internal/models"
)

type fakeAuthenticator struct {
	identity *models.Identity
}

func (f *fakeAuthenticator) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	if f.identity == nil || token == "" {
		return nil, errors.New("unauthenticated")
	}
	return f.identity, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionMiddlewareRedirectsPagesToLogin(t *testing.T) {
	handler := SessionMiddleware(&fakeAuthenticator{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestSessionMiddlewareReturns401ForAPI(t *testing.T) {
	handler := SessionMiddleware(&fakeAuthenticator{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/busdata", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())
}

func TestSessionMiddlewareInjectsIdentity(t *testing.T) {
	identity := &models.Identity{UserID: 1, Username: "ops", Role: models.RoleAdmin}

	var seen *models.Identity
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
	})
	handler := SessionMiddleware(&fakeAuthenticator{identity: identity})(inner)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.NotNil(t, seen)
	assert.Equal(t, identity, seen)
}

func TestTokenFromRequestPrefersCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")

	assert.Equal(t, "cookie-token", TokenFromRequest(req))
}

func TestTokenFromRequestBearerFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "header-token", TokenFromRequest(req))

	req.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "", TokenFromRequest(req))
}

func TestRequirePageRoleRedirectsWrongRole(t *testing.T) {
	handler := RequirePageRole(models.RoleAdmin)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	ctx := WithIdentity(req.Context(), &models.Identity{UserID: 2, Username: "rider", Role: models.RoleUser})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusFound, rec.Code)
	location := rec.Header().Get("Location")
	assert.Contains(t, location, "/user_dashboard")
	assert.Contains(t, location, "notice=")
}

func TestRequirePageRoleRedirectsAdminOffUserDashboard(t *testing.T) {
	handler := RequirePageRole(models.RoleUser)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/user_dashboard", nil)
	ctx := WithIdentity(req.Context(), &models.Identity{UserID: 1, Username: "ops", Role: models.RoleAdmin})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/dashboard")
}

func TestRequirePageRolePassesMatchingRole(t *testing.T) {
	handler := RequirePageRole(models.RoleAdmin)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	ctx := WithIdentity(req.Context(), &models.Identity{UserID: 1, Username: "ops", Role: models.RoleAdmin})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminAPIReturns403NotRedirect(t *testing.T) {
	handler := RequireAdminAPI()(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/insert_ridership", nil)
	ctx := WithIdentity(req.Context(), &models.Identity{UserID: 2, Username: "rider", Role: models.RoleUser})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.JSONEq(t, `{"error":"admin access required"}`, rec.Body.String())
}

func TestRequireAdminAPIAllowsAdmin(t *testing.T) {
	handler := RequireAdminAPI()(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/insert_ridership", nil)
	ctx := WithIdentity(req.Context(), &models.Identity{UserID: 1, Username: "ops", Role: models.RoleAdmin})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
}
