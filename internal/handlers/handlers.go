package handlers

import (
	"Reisekarte/internal/config"
	"Reisekarte/internal/middleware"
	"Reisekarte/internal/service"
	"Reisekarte/internal/session"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	locationService *service.LocationService,
	authService *service.AuthService,
	store session.Store,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithSession(store))

	// Handlers
	authHandler := NewAuthHandler(authService, logger)
	locationHandler := NewLocationHandler(locationService, authService, logger, cfg)
	pageHandler := NewPageHandler(locationService, logger)

	// Pages
	r.Get("/", authHandler.LoginPage)
	r.Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)
	r.Get("/map", pageHandler.MapPage)
	r.Get("/admin", pageHandler.AdminPage)
	r.Post("/admin/fix-database", pageHandler.FixDatabase)
	r.Post("/admin/reset-database", pageHandler.ResetDatabase)

	// API
	r.Route("/api/locations", func(r chi.Router) {
		r.Get("/", locationHandler.List)
		r.Post("/", locationHandler.Create)
		r.Get("/{id}", locationHandler.Get)
		r.Put("/{id}", locationHandler.Update)
		r.Delete("/{id}", locationHandler.Delete)
		r.Get("/{id}/image", locationHandler.Image)
		r.Get("/{id}/thumbnail", locationHandler.Thumbnail)
	})

	return &Handler{Router: r}
}

// writeJSON сериализует ответ с нужным статусом.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// isAuthenticated — авторизована ли сессия запроса.
func isAuthenticated(r *http.Request) bool {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	return ok && sess.Authenticated
}

// requireAPIAuth закрывает JSON-эндпоинты: без валидной сессии — 401,
// до базы такой запрос не доходит.
func requireAPIAuth(w http.ResponseWriter, r *http.Request) bool {
	if isAuthenticated(r) {
		return true
	}
	writeJSON(w, http.StatusUnauthorized, map[string]any{
		"success": false,
		"error":   "unauthorized",
	})
	return false
}

// requirePageAuth закрывает HTML-страницы: без сессии — назад на логин.
func requirePageAuth(w http.ResponseWriter, r *http.Request) bool {
	if isAuthenticated(r) {
		return true
	}
	http.Redirect(w, r, "/", http.StatusFound)
	return false
}

// sessionIDOf — id сессии текущего запроса для ссылок между страницами.
func sessionIDOf(r *http.Request) string {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		return sess.ID
	}
	return middleware.SessionIDFromRequest(r)
}
