package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-marketplace/internal/config"
	"go-marketplace/internal/handler"
	"go-marketplace/internal/middleware"
	"go-marketplace/internal/model"
)

type Handlers struct {
	User    *handler.UserHandler
	Product *handler.ProductHandler
	Audit   *handler.AuditHandler
	Health  *handler.HealthHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", h.Health.Live)
	r.Get("/health/ready", h.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(rateLimitMiddleware.Handler)
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/users", func(users chi.Router) {
			users.Post("/signup", h.User.Signup)
			users.Post("/signin", h.User.Signin)
			users.Post("/logout", h.User.Logout)
			users.Post("/reissue", h.User.Reissue)
			users.Post("/email/code", h.User.RequestEmailCode)
			users.Post("/email/verify", h.User.VerifyEmailCode)

			users.Group(func(authed chi.Router) {
				authed.Use(authMiddleware.RequireAuth)
				authed.Get("/", h.User.List)
				authed.Get("/me", h.User.Me)
				authed.Get("/me/hearts", h.User.MyHearts)
				authed.Get("/{id}", h.User.Get)
			})
		})

		api.With(authMiddleware.RequireAuth).Post("/products/{id}/hearts", h.Product.AddHeart)
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireAuthorities(model.AuthorityAdmin)).Get("/audit", h.Audit.List)
	})

	return r
}
