package handlers

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"transitboard/internal/http/middleware"
)

// PageHandlers serves the dashboard pages and the root redirect.
type PageHandlers struct {
	sessions  SessionManager
	templates *template.Template
	logger    *zap.Logger
}

// NewPageHandlers returns handler struct.
func NewPageHandlers(sessions SessionManager, templates *template.Template, logger *zap.Logger) *PageHandlers {
	return &PageHandlers{sessions: sessions, templates: templates, logger: logger}
}

// Index routes the caller to their landing page, or to login when
// unauthenticated.
func (h *PageHandlers) Index(w http.ResponseWriter, r *http.Request) {
	identity, err := h.sessions.Resolve(r.Context(), middleware.TokenFromRequest(r))
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	http.Redirect(w, r, identity.Role.LandingPath(), http.StatusFound)
}

// Dashboard renders the admin landing page. Role gating happens in
// middleware before this handler runs.
func (h *PageHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.renderFor(w, r, "dashboard.html")
}

// UserDashboard renders the standard landing page.
func (h *PageHandlers) UserDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderFor(w, r, "user_dashboard.html")
}

func (h *PageHandlers) renderFor(w http.ResponseWriter, r *http.Request, name string) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	data := pageData{
		Username: identity.Username,
		Role:     identity.Role.String(),
		Notice:   r.URL.Query().Get("notice"),
	}
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template render failed", zap.String("template", name), zap.Error(err))
	}
}
