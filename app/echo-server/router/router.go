package router

import (
	"myBookShelf/internal/middleware"
	"myBookShelf/internal/rest"
	"myBookShelf/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	api.GET("/recommendations", handler.Recommend,
		middleware.AuthMiddleware(), metrics.Instrument("recommendations"))

	api.GET("/books/:id/similar", handler.Similar, metrics.Instrument("similar_books"))
}

func SetupRecommendationAdminRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	admin := api.Group("/admin/recommendations", middleware.AuthMiddleware(), middleware.AdminOnly())

	admin.POST("/train", handler.Train, metrics.Instrument("train"))
	admin.POST("/reload", handler.Reload, metrics.Instrument("reload"))
}

func SetupMetricsRoute(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
