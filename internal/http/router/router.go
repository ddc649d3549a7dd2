package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jason-govender/salesflow-api/internal/auth"
	"github.com/jason-govender/salesflow-api/internal/config"
	"github.com/jason-govender/salesflow-api/internal/database"
	"github.com/jason-govender/salesflow-api/internal/http/handler"
	"github.com/jason-govender/salesflow-api/internal/http/middleware"
)

type Router struct {
	cfg                   *config.Config
	logger                *zap.Logger
	db                    *gorm.DB
	authMiddleware        *auth.Middleware
	ownerFilterMiddleware *middleware.OwnerFilterMiddleware
	rateLimiter           *middleware.RateLimiter
	authHandler           *handler.AuthHandler
	clientHandler         *handler.ClientHandler
	opportunityHandler    *handler.OpportunityHandler
	proposalHandler       *handler.ProposalHandler
	documentHandler       *handler.DocumentHandler
	notificationHandler   *handler.NotificationHandler
	userHandler           *handler.UserHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	ownerFilterMiddleware *middleware.OwnerFilterMiddleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	clientHandler *handler.ClientHandler,
	opportunityHandler *handler.OpportunityHandler,
	proposalHandler *handler.ProposalHandler,
	documentHandler *handler.DocumentHandler,
	notificationHandler *handler.NotificationHandler,
	userHandler *handler.UserHandler,
) *Router {
	return &Router{
		cfg:                   cfg,
		logger:                logger,
		db:                    db,
		authMiddleware:        authMiddleware,
		ownerFilterMiddleware: ownerFilterMiddleware,
		rateLimiter:           rateLimiter,
		authHandler:           authHandler,
		clientHandler:         clientHandler,
		opportunityHandler:    opportunityHandler,
		proposalHandler:       proposalHandler,
		documentHandler:       documentHandler,
		notificationHandler:   notificationHandler,
		userHandler:           userHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Liveness probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Readiness probe
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		if !allHealthy {
			status = "unhealthy"
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.ownerFilterMiddleware.Filter)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Clients
			r.Route("/clients", func(r chi.Router) {
				r.Get("/", rt.clientHandler.List)
				r.Post("/", rt.clientHandler.Create)
				r.Get("/{id}", rt.clientHandler.GetByID)
				r.Put("/{id}", rt.clientHandler.Update)
				r.Delete("/{id}", rt.clientHandler.Delete)
			})

			// Opportunities
			r.Route("/opportunities", func(r chi.Router) {
				r.Get("/", rt.opportunityHandler.List)
				r.Post("/", rt.opportunityHandler.Create)
				r.Get("/{id}", rt.opportunityHandler.GetByID)
				r.Put("/{id}", rt.opportunityHandler.Update)
				r.Delete("/{id}", rt.opportunityHandler.Delete)
				r.Post("/{id}/stage", rt.opportunityHandler.SetStage)
				r.Post("/{id}/assign", rt.opportunityHandler.Assign)
				r.Get("/{id}/history", rt.opportunityHandler.GetStageHistory)
			})

			// Proposals
			r.Route("/proposals", func(r chi.Router) {
				r.Get("/", rt.proposalHandler.List)
				r.Post("/", rt.proposalHandler.Create)
				r.Get("/{id}", rt.proposalHandler.GetByID)
				r.Put("/{id}", rt.proposalHandler.Update)
				r.Delete("/{id}", rt.proposalHandler.Delete)

				// Lifecycle
				r.Post("/{id}/submit", rt.proposalHandler.Submit)
				r.Post("/{id}/approve", rt.proposalHandler.Approve)
				r.Post("/{id}/reject", rt.proposalHandler.Reject)

				// Line items
				r.Post("/{id}/items", rt.proposalHandler.AddItem)
				r.Put("/{id}/items/{itemId}", rt.proposalHandler.UpdateItem)
				r.Delete("/{id}/items/{itemId}", rt.proposalHandler.RemoveItem)

				// Documents
				r.Get("/{id}/documents", rt.documentHandler.ListByProposal)
				r.Post("/{id}/documents", rt.documentHandler.Upload)
			})

			// Documents
			r.Route("/documents", func(r chi.Router) {
				r.Get("/{id}", rt.documentHandler.Download)
				r.Delete("/{id}", rt.documentHandler.Delete)
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.ListMine)
				r.Post("/{id}/read", rt.notificationHandler.MarkRead)
			})

			// Users
			r.Route("/users", func(r chi.Router) {
				r.Get("/", rt.userHandler.ListAssignable)
				r.Get("/{id}", rt.userHandler.GetByID)
				r.Post("/sync", rt.userHandler.Sync)
			})
		})
	})

	return r
}
