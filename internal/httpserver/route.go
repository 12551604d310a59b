package httpserver

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/recommendations/internal/metrics"
)

// MaxBodySize caps request bodies on the recommendation write routes.
const MaxBodySize = "64K"

type Deps struct {
	RecommendationHandler *RecommendationHTTP
}

func Register(e *echo.Echo, d *Deps) {
	h := d.RecommendationHandler

	e.GET("/health/live", h.Live)
	e.GET("/health/ready", h.Ready)
	e.GET("/metrics", metrics.Handler())

	e.GET("/", h.Index)

	limit := echomw.BodyLimit(MaxBodySize)

	recs := e.Group(recommendationsPath)
	recs.GET("", h.ListRecommendations)
	recs.POST("", h.CreateRecommendation, limit)
	recs.GET("/:id", h.GetRecommendation)
	recs.PUT("/:id", h.UpdateRecommendation, limit)
	recs.DELETE("/:id", h.DeleteRecommendation)
	recs.PUT("/:id/enable", h.EnableRecommendation, limit)
	recs.PUT("/:id/disable", h.DisableRecommendation, limit)
}
