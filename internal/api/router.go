package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dom/social-network-website/internal/api/handlers"
	"github.com/dom/social-network-website/internal/api/middleware"
	"github.com/dom/social-network-website/internal/config"
	"github.com/dom/social-network-website/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions carries the cross-cutting dependencies the route table needs.
type RouterOptions struct {
	Logger   *slog.Logger
	Limiter  middleware.RateLimiter
	DBHealth func(context.Context) error
}

func NewRouter(services *service.Services, cfg *config.Config, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = middleware.NewMemoryRateLimiter()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)
	r.Use(middleware.Metrics)

	// Health and readiness
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Get("/ready", func(w http.ResponseWriter, req *http.Request) {
		if opts.DBHealth != nil {
			if err := opts.DBHealth(req.Context()); err != nil {
				logger.Error("readiness check failed", "error", err)
				http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, logger)
	userHandler := handlers.NewUserHandler(services.User, services.Follow, logger)
	postHandler := handlers.NewPostHandler(services.Post, logger)

	requireAuth := middleware.Auth(services.Auth, logger)

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.RateLimit(limiter, "signin", cfg.SigninLimit, cfg.RateWindow)).
			Post("/signin", authHandler.SignIn)
		r.Post("/refresh", authHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/signout", authHandler.SignOut)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			// Public routes
			r.With(middleware.RateLimit(limiter, "signup", cfg.SignupLimit, cfg.RateWindow)).
				Post("/", userHandler.Create)
			r.Get("/", userHandler.List)
			r.Get("/{userID}/photo", userHandler.Photo)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Put("/follow", userHandler.Follow)
				r.Put("/unfollow", userHandler.Unfollow)
				r.Get("/findpeople/{userID}", userHandler.FindPeople)
				r.Get("/{userID}", userHandler.Read)
				r.Put("/{userID}", userHandler.Update)
				r.Delete("/{userID}", userHandler.Delete)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			// Photo fetch is public, like user photos
			r.Get("/photo/{postID}", postHandler.Photo)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/new/{userID}", postHandler.Create)
				r.Get("/feed/{userID}", postHandler.NewsFeed)
				r.Get("/by/{userID}", postHandler.ListByUser)
				r.Put("/like", postHandler.Like)
				r.Put("/unlike", postHandler.Unlike)
				r.Put("/comment", postHandler.Comment)
				r.Put("/uncomment", postHandler.Uncomment)
				r.Delete("/{postID}", postHandler.Delete)
			})
		})
	})

	return r
}
