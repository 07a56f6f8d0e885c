package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"transitboard/internal/http/middleware"
	"transitboard/internal/metrics"
	"transitboard/internal/models"
	"transitboard/internal/service"
)

// AuthService is the login/registration contract used by handlers.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	Register(ctx context.Context, username, password string) (*models.User, error)
}

// SessionManager resolves and revokes session tokens.
type SessionManager interface {
	Resolve(ctx context.Context, token string) (*models.Identity, error)
	Revoke(ctx context.Context, token string) error
}

// AuthHandlers serves the login/register/logout surface.
type AuthHandlers struct {
	auth      AuthService
	sessions  SessionManager
	templates *template.Template
	collector *metrics.Collector
	cookieTTL time.Duration
	logger    *zap.Logger
}

// NewAuthHandlers returns handler struct.
func NewAuthHandlers(auth AuthService, sessions SessionManager, templates *template.Template, collector *metrics.Collector, cookieTTL time.Duration, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		auth:      auth,
		sessions:  sessions,
		templates: templates,
		collector: collector,
		cookieTTL: cookieTTL,
		logger:    logger,
	}
}

type pageData struct {
	Username string
	Role     string
	Notice   string
}

// Login handles GET (render) and POST (authenticate) on /login. An already
// authenticated caller is sent straight to their landing page.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if identity, err := h.sessions.Resolve(r.Context(), middleware.TokenFromRequest(r)); err == nil {
		http.Redirect(w, r, identity.Role.LandingPath(), http.StatusFound)
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, "login.html", pageData{Notice: r.URL.Query().Get("notice")})
		return
	}

	username, plain, err := credentials(r)
	if err != nil {
		h.render(w, "login.html", pageData{Notice: "Please fill all fields."})
		return
	}

	token, user, err := h.auth.Login(r.Context(), username, plain)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.collector.LoginAttempts.WithLabelValues("failure").Inc()
			h.render(w, "login.html", pageData{Notice: "Invalid username or password."})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "service unavailable")
		return
	}

	h.collector.LoginAttempts.WithLabelValues("success").Inc()
	h.setSessionCookie(w, token)
	http.Redirect(w, r, user.Role.LandingPath(), http.StatusSeeOther)
}

// Register handles GET (render) and POST (create account) on /register.
// Every registered account has the standard role.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	if identity, err := h.sessions.Resolve(r.Context(), middleware.TokenFromRequest(r)); err == nil {
		http.Redirect(w, r, identity.Role.LandingPath(), http.StatusFound)
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, "register.html", pageData{Notice: r.URL.Query().Get("notice")})
		return
	}

	username, plain, err := credentials(r)
	if err != nil {
		h.render(w, "register.html", pageData{Notice: "Please fill all fields."})
		return
	}

	if _, err := h.auth.Register(r.Context(), username, plain); err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			h.render(w, "register.html", pageData{Notice: "Username is already taken."})
			return
		}
		h.logger.Error("registration failed", zap.Error(err))
		h.render(w, "register.html", pageData{Notice: "Registration failed, try again."})
		return
	}

	http.Redirect(w, r, "/login?notice="+url.QueryEscape("Registration successful! Please login."), http.StatusSeeOther)
}

// Logout destroys the session unconditionally, whether or not one existed.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Revoke(r.Context(), middleware.TokenFromRequest(r)); err != nil {
		h.logger.Warn("session revoke failed", zap.Error(err))
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) render(w http.ResponseWriter, name string, data pageData) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template render failed", zap.String("template", name), zap.Error(err))
	}
}

// credentials accepts either a form submission or a JSON body.
func credentials(r *http.Request) (string, string, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return "", "", err
		}
		return validateCredentials(body.Username, body.Password)
	}

	if err := r.ParseForm(); err != nil {
		return "", "", err
	}
	return validateCredentials(r.PostFormValue("username"), r.PostFormValue("password"))
}

func validateCredentials(username, password string) (string, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", "", errors.New("username and password are required")
	}
	return username, password, nil
}
