package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GregMSThompson/quality-dashboard/internal/handlers"
	"github.com/GregMSThompson/quality-dashboard/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	lm := middleware.NewLoggerMiddleware(deps.Log)
	r.Use(chimiddleware.RequestID)
	r.Use(lm.LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	dsh := handlers.NewDashboardHandlers(deps)

	r.Mount("/dashboards", dsh.DashboardRoutes())
	r.Get("/widget-catalog", dsh.GetWidgetCatalog)
	r.Get("/range-presets", dsh.GetRangePresets)
	r.Get("/breakpoints", dsh.GetBreakpoints)
	r.Handle("/metrics", promhttp.Handler())
	return r
}
