package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Jonatndm/API-Authenticate/internal/config"
	"github.com/Jonatndm/API-Authenticate/internal/handler"
	"github.com/Jonatndm/API-Authenticate/internal/middleware"
	"github.com/Jonatndm/API-Authenticate/internal/model"
	"github.com/Jonatndm/API-Authenticate/pkg/apierror"
)

type Handlers struct {
	Auth *handler.AuthHandler
	User *handler.UserHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders(cfg.IsProduction()))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteError(w, apierror.New("NOT_FOUND", "route not found", "", http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteError(w, apierror.New("METHOD_NOT_ALLOWED", "method not allowed", "", http.StatusMethodNotAllowed))
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
			auth.With(authMiddleware.RequireAuth).Post("/refresh-token", h.Auth.Refresh)
			auth.With(authMiddleware.RequireBearer).Post("/logout", h.Auth.Logout)
		})

		api.Route("/users", func(users chi.Router) {
			users.Use(authMiddleware.RequireAuth)
			users.Get("/profile", h.User.Profile)
			users.With(authMiddleware.RequireRoles(model.RoleAdmin)).Get("/admin/users", h.User.List)
		})
	})

	return r
}
