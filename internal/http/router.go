package httpserver

import (
	"net/http"

	"transitboard/internal/http/handlers"
	"transitboard/internal/http/middleware"
	"transitboard/internal/models"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	AuthHandlers      *handlers.AuthHandlers
	PageHandlers      *handlers.PageHandlers
	RidershipHandlers *handlers.RidershipHandlers
	HealthHandler     http.HandlerFunc
	Sessions          middleware.Authenticator
}

// NewRouter wires all HTTP routes with their auth/role gates.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	session := middleware.SessionMiddleware(deps.Sessions)

	mux.Handle("/health", method(http.MethodGet, deps.HealthHandler))

	// Public entry points; handlers switch on GET/POST internally.
	mux.Handle("/login", methods([]string{http.MethodGet, http.MethodPost}, http.HandlerFunc(deps.AuthHandlers.Login)))
	mux.Handle("/register", methods([]string{http.MethodGet, http.MethodPost}, http.HandlerFunc(deps.AuthHandlers.Register)))
	mux.Handle("/logout", method(http.MethodGet, http.HandlerFunc(deps.AuthHandlers.Logout)))

	mux.Handle("/{$}", method(http.MethodGet, http.HandlerFunc(deps.PageHandlers.Index)))

	mux.Handle("/dashboard", method(http.MethodGet,
		middleware.Chain(http.HandlerFunc(deps.PageHandlers.Dashboard), session, middleware.RequirePageRole(models.RoleAdmin))))
	mux.Handle("/user_dashboard", method(http.MethodGet,
		middleware.Chain(http.HandlerFunc(deps.PageHandlers.UserDashboard), session, middleware.RequirePageRole(models.RoleUser))))

	mux.Handle("/api/busdata", method(http.MethodGet,
		middleware.Chain(http.HandlerFunc(deps.RidershipHandlers.BusData), session)))
	mux.Handle("/api/metrics", method(http.MethodGet,
		middleware.Chain(http.HandlerFunc(deps.RidershipHandlers.Metrics), session)))
	mux.Handle("/api/insert_ridership", method(http.MethodPost,
		middleware.Chain(http.HandlerFunc(deps.RidershipHandlers.InsertRidership), session, middleware.RequireAdminAPI())))
	mux.Handle("/api/bus_dropdown", method(http.MethodGet,
		middleware.Chain(http.HandlerFunc(deps.RidershipHandlers.BusDropdown), session)))
	mux.Handle("/api/driver_dropdown", method(http.MethodGet,
		middleware.Chain(http.HandlerFunc(deps.RidershipHandlers.DriverDropdown), session)))

	return mux
}

func method(expected string, handler http.Handler) http.Handler {
	return methods([]string{expected}, handler)
}

func methods(expected []string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, m := range expected {
			if r.Method == m {
				handler.ServeHTTP(w, r)
				return
			}
		}
		w.Header().Set("Allow", allowHeader(expected))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowHeader(expected []string) string {
	out := expected[0]
	for _, m := range expected[1:] {
		out += ", " + m
	}
	return out
}
