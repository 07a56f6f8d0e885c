package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"transitboard/internal/http/middleware"
	"transitboard/internal/models"
	"transitboard/web"
)

func newPageHandlers(t *testing.T, sessions *fakeSessions) *PageHandlers {
	t.Helper()
	templates, err := web.Templates()
	require.NoError(t, err)
	return NewPageHandlers(sessions, templates, zap.NewNop())
}

func TestIndexRedirectsUnauthenticatedToLogin(t *testing.T) {
	h := newPageHandlers(t, &fakeSessions{})

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestIndexRoutesByRole(t *testing.T) {
	cases := []struct {
		role models.Role
		want string
	}{
		{models.RoleAdmin, "/dashboard"},
		{models.RoleUser, "/user_dashboard"},
	}

	for _, tc := range cases {
		sessions := &fakeSessions{identity: &models.Identity{UserID: 1, Username: "x", Role: tc.role}}
		h := newPageHandlers(t, sessions)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "live"})
		rec := httptest.NewRecorder()
		h.Index(rec, req)

		assert.Equal(t, tc.want, rec.Header().Get("Location"))
	}
}

func TestDashboardRendersIdentityAndNotice(t *testing.T) {
	h := newPageHandlers(t, &fakeSessions{})

	req := httptest.NewRequest(http.MethodGet, "/dashboard?notice=heads+up", nil)
	ctx := middleware.WithIdentity(req.Context(), &models.Identity{UserID: 1, Username: "ops", Role: models.RoleAdmin})
	rec := httptest.NewRecorder()
	h.Dashboard(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ops")
	assert.Contains(t, rec.Body.String(), "heads up")
}

func TestUserDashboardRequiresContextIdentity(t *testing.T) {
	h := newPageHandlers(t, &fakeSessions{})

	rec := httptest.NewRecorder()
	h.UserDashboard(rec, httptest.NewRequest(http.MethodGet, "/user_dashboard", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}
