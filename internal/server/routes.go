package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ranktracker/internal/handlers/api"
	"ranktracker/internal/middleware"
)

const callbackPath = "/rank_tracker/obtener"

// Handlers groups the route handlers wired by RegisterRoutes.
type Handlers struct {
	Probe       *api.ProbeHandler
	Callback    *api.CallbackHandler
	Projects    *api.ProjectHandler
	Tasks       *api.TaskHandler
	Comparisons *api.ComparisonHandler
}

// RegisterRoutes registers all application routes. Management routes require a
// bearer token when verifier is non-nil; the provider callback stays public.
func (s *Server) RegisterRoutes(h Handlers, verifier middleware.TokenVerifier) {
	// Kubernetes probes and metrics
	s.App.Get("/healthz", h.Probe.Liveness)
	s.App.Get("/readyz", h.Probe.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	rt := s.App.Group("/rank_tracker")

	// Provider pingback
	rt.Get("/obtener", h.Callback.Obtain)

	requireAuth := func(c fiber.Ctx) error { return c.Next() }
	if verifier != nil {
		requireAuth = middleware.BearerAuth(verifier)
	} else {
		zap.L().Warn("bearer auth is disabled, set OIDC_ISSUER to protect management routes")
	}

	// Management routes
	rt.Post("/crear", requireAuth, h.Projects.Create)
	rt.Post("/ejecutar_proyecto", requireAuth, h.Projects.Run)
	rt.Post("/actualizar", requireAuth, h.Projects.Update)
	rt.Post("/actualizar_estado", requireAuth, h.Projects.UpdateStatus)
	rt.Get("/proyectos/:id", requireAuth, h.Projects.Get)
	rt.Get("/listar_proyectos", requireAuth, h.Projects.List)
	rt.Post("/missing_tasks", requireAuth, h.Tasks.Missing)
	rt.Get("/comparador_semanal", requireAuth, h.Comparisons.Weekly)
	rt.Get("/comparaciones", requireAuth, h.Comparisons.List)
	rt.Get("/snapshot", requireAuth, h.Comparisons.Snapshot)
}
