package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/shopcore/inventory/api/handler"
)

type Handlers struct {
	Promotion  *apiHandler.PromotionHandler
	Alerts     *apiHandler.AlertsHandler
	Thresholds *apiHandler.ThresholdsHandler
	Health     *apiHandler.HealthHandler
}

func New(handlers Handlers, adminAuth func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Read-only surface
	r.GET("/api/v1/alerts", handlers.Alerts.Get)
	r.GET("/api/v1/alerts/journal", handlers.Alerts.Journal)
	r.GET("/api/v1/thresholds", handlers.Thresholds.Get)

	// Admin triggers
	r.POST("/api/v1/promotions/{id}/activate", adminAuth(handlers.Promotion.Activate))
	r.POST("/api/v1/promotions/{id}/deactivate", adminAuth(handlers.Promotion.Deactivate))
	r.POST("/api/v1/promotions/sweep", adminAuth(handlers.Promotion.Sweep))
	r.POST("/api/v1/alerts/refresh", adminAuth(handlers.Alerts.Refresh))
	r.PUT("/api/v1/thresholds", adminAuth(handlers.Thresholds.Update))
	r.POST("/api/v1/thresholds/apply", adminAuth(handlers.Thresholds.Apply))

	return r
}
