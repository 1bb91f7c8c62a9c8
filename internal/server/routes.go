package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"linkhive/internal/auth"
	"linkhive/internal/db"
	"linkhive/internal/handlers/api"
	"linkhive/internal/importer"
	"linkhive/internal/metrics"
	"linkhive/internal/middleware"
	"linkhive/internal/queue"
)

// RegisterRoutes registers all application routes. The queue may be nil
// when enrichment is not configured; link creation then skips enqueueing.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, q queue.Queue) error {
	// Bearer-token verification is optional; without it only API keys work.
	var verifier auth.Verifier
	if s.Cfg.HasOIDC() {
		v, err := auth.NewOIDCVerifier(ctx, s.Cfg.OIDCIssuer, s.Cfg.OIDCClientID)
		if err != nil {
			return err
		}
		verifier = v
	} else {
		slog.Warn("no identity provider configured, bearer tokens will be rejected")
	}

	authService := auth.NewService(database, verifier)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	linkHandler := api.NewLinkHandler(database, q)
	collectionHandler := api.NewCollectionHandler(database)
	userHandler := api.NewUserHandler(database, authService)
	importHandler := api.NewImportHandler(importer.NewJSONImporter(database))

	v1 := s.App.Group("/v1")

	v1.Get("/health", api.Health)

	v1.Get("/auth/user", userHandler.Current, authMiddleware.RequireUser())
	v1.Post("/auth/check_user", userHandler.CheckUser, authMiddleware.RequireIdentity())
	v1.Post("/auth/create_api_key", userHandler.CreateAPIKey, authMiddleware.RequireIdentity())

	v1.Get("/links", linkHandler.List, authMiddleware.RequireUser())
	v1.Post("/links", linkHandler.Create, authMiddleware.RequireUser())
	v1.Get("/links/:id", linkHandler.Get, authMiddleware.RequireUser())
	v1.Patch("/links/:id", linkHandler.Update, authMiddleware.RequireUser())
	v1.Delete("/links/:id", linkHandler.Delete, authMiddleware.RequireUser())

	v1.Get("/collections", collectionHandler.List, authMiddleware.RequireUser())
	v1.Post("/collections", collectionHandler.Create, authMiddleware.RequireUser())
	v1.Post("/collections/:id/archive", collectionHandler.Archive, authMiddleware.RequireUser())

	v1.Post("/import", importHandler.Import, authMiddleware.RequireUser())

	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(newRegistry(q), promhttp.HandlerOpts{})))

	return nil
}

// newRegistry assembles the metrics registry: process/go collectors, the
// enrichment counters, and a live queue-depth gauge when the queue can
// report its length.
func newRegistry(q queue.Queue) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterCollectors(registry)
	if lener, ok := q.(metrics.QueueLener); ok {
		registry.MustRegister(metrics.NewQueueDepthCollector(lener))
	}
	return registry
}
