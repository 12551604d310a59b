package httpserver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/recommendations/internal/logging"
	"github.com/Skotchmaster/recommendations/internal/models"
	"github.com/Skotchmaster/recommendations/internal/service"
	"github.com/Skotchmaster/recommendations/internal/transport"
)

const (
	serviceName    = "Recommendation REST API Service"
	serviceVersion = "1.0"

	recommendationsPath = "/recommendations"
	jsonMediaType       = echo.MIMEApplicationJSON
)

type RecommendationHTTP struct {
	Svc *service.RecommendationService
}

func absoluteURL(c echo.Context, path string) string {
	return c.Scheme() + "://" + c.Request().Host + path
}

func recommendationURL(c echo.Context, id uint) string {
	return absoluteURL(c, fmt.Sprintf("%s/%d", recommendationsPath, id))
}

func notFound(id string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Recommendation with id '%s' was not found.", id))
}

// pathID parses the :id param. Anything that is not an unsigned integer
// cannot name a recommendation and is reported as not found. stored is
// false for integers past the bigint id column, which no row can carry.
func pathID(c echo.Context) (id uint, stored bool, he *echo.HTTPError) {
	raw := c.Param("id")
	n, err := strconv.ParseUint(raw, 10, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return 0, false, nil
	case err != nil:
		return 0, false, notFound(raw)
	case n > math.MaxInt64:
		return 0, false, nil
	}
	return uint(n), true, nil
}

func checkContentType(c echo.Context) *echo.HTTPError {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	mt, _, err := mime.ParseMediaType(ct)
	if ct == "" || err != nil || mt != jsonMediaType {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, "Content-Type must be "+jsonMediaType)
	}
	return nil
}

// readRecommendation enforces the content type and decodes the body.
func readRecommendation(c echo.Context) (transport.RecommendationRequest, *echo.HTTPError) {
	if he := checkContentType(c); he != nil {
		return transport.RecommendationRequest{}, he
	}
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return transport.RecommendationRequest{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid recommendation: body of request contained bad or no data")
	}
	req, err := transport.DecodeRecommendation(body)
	if err != nil {
		return transport.RecommendationRequest{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return req, nil
}

// serviceError maps service sentinels onto HTTP errors and logs them.
func serviceError(l *slog.Logger, event, id string, err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", http.StatusNotFound, "reason", "recommendation not found", "error", err)
		return notFound(id)
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", http.StatusBadRequest, "reason", "invalid recommendation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnavailable):
		l.Error(event, "status", http.StatusServiceUnavailable, "reason", "database unavailable", "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Could not connect to the database")
	default:
		l.Error(event, "status", http.StatusInternalServerError, "reason", "unexpected error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "An internal error occurred")
	}
}

func (h *RecommendationHTTP) Index(c echo.Context) error {
	logging.FromContext(c.Request().Context()).Info("index_requested")
	return c.JSON(http.StatusOK, transport.IndexResponse{
		Name:    serviceName,
		Version: serviceVersion,
		Paths:   absoluteURL(c, recommendationsPath),
	})
}

func (h *RecommendationHTTP) ListRecommendations(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recommendation.list")

	var q transport.ListQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		l.Warn("list_recommendations_failed", "status", 400, "reason", "invalid query", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	filter, err := q.Filter()
	if err != nil {
		l.Warn("list_recommendations_failed", "status", 400, "reason", "invalid filter", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	items, err := h.Svc.List(ctx, filter)
	if err != nil {
		return serviceError(l, "list_recommendations_failed", "", err)
	}

	l.Info("list_recommendations_success", "count", len(items))
	return c.JSON(http.StatusOK, items)
}

func (h *RecommendationHTTP) GetRecommendation(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recommendation.get")

	id, stored, he := pathID(c)
	if he != nil {
		l.Warn("get_recommendation_failed", "status", 404, "reason", "id is not an integer", "id", c.Param("id"))
		return he
	}
	if !stored {
		l.Warn("get_recommendation_failed", "status", 404, "reason", "id out of range", "id", c.Param("id"))
		return notFound(c.Param("id"))
	}

	rec, err := h.Svc.Get(ctx, id)
	if err != nil {
		return serviceError(l, "get_recommendation_failed", c.Param("id"), err)
	}

	return c.JSON(http.StatusOK, rec)
}

func (h *RecommendationHTTP) CreateRecommendation(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recommendation.create")

	req, he := readRecommendation(c)
	if he != nil {
		l.Warn("create_recommendation_failed", "status", he.Code, "reason", he.Message)
		return he
	}

	rec, err := h.Svc.Create(ctx, req)
	if err != nil {
		return serviceError(l, "create_recommendation_failed", "", err)
	}

	l.Info("create_recommendation_success", "recommendation_id", rec.ID)
	c.Response().Header().Set(echo.HeaderLocation, recommendationURL(c, rec.ID))
	return c.JSON(http.StatusCreated, rec)
}

func (h *RecommendationHTTP) UpdateRecommendation(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recommendation.update")

	id, req, he := h.resolve(c, l, "update_recommendation_failed")
	if he != nil {
		return he
	}

	rec, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return serviceError(l, "update_recommendation_failed", c.Param("id"), err)
	}

	l.Info("update_recommendation_success", "recommendation_id", rec.ID)
	return c.JSON(http.StatusOK, rec)
}

func (h *RecommendationHTTP) EnableRecommendation(c echo.Context) error {
	return h.setStatus(c, models.StatusEnabled)
}

func (h *RecommendationHTTP) DisableRecommendation(c echo.Context) error {
	return h.setStatus(c, models.StatusDisabled)
}

func (h *RecommendationHTTP) setStatus(c echo.Context, status models.Status) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recommendation.set_status", "target_status", status.String())

	id, req, he := h.resolve(c, l, "set_status_failed")
	if he != nil {
		return he
	}

	rec, err := h.Svc.SetStatus(ctx, id, req, status)
	if err != nil {
		return serviceError(l, "set_status_failed", c.Param("id"), err)
	}

	l.Info("set_status_success", "recommendation_id", rec.ID)
	return c.JSON(http.StatusOK, rec)
}

// resolve runs the checks shared by every write on an existing record:
// the record must exist, then the content type must be JSON, then the
// body must decode.
func (h *RecommendationHTTP) resolve(c echo.Context, l *slog.Logger, event string) (uint, transport.RecommendationRequest, *echo.HTTPError) {
	id, stored, he := pathID(c)
	if he != nil {
		l.Warn(event, "status", 404, "reason", "id is not an integer", "id", c.Param("id"))
		return 0, transport.RecommendationRequest{}, he
	}
	if !stored {
		l.Warn(event, "status", 404, "reason", "id out of range", "id", c.Param("id"))
		return 0, transport.RecommendationRequest{}, notFound(c.Param("id"))
	}

	if _, err := h.Svc.Get(c.Request().Context(), id); err != nil {
		return 0, transport.RecommendationRequest{}, serviceError(l, event, c.Param("id"), err)
	}

	req, he := readRecommendation(c)
	if he != nil {
		l.Warn(event, "status", he.Code, "reason", he.Message)
		return 0, transport.RecommendationRequest{}, he
	}
	return id, req, nil
}

func (h *RecommendationHTTP) DeleteRecommendation(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recommendation.delete")

	id, stored, he := pathID(c)
	if he != nil {
		l.Warn("delete_recommendation_failed", "status", 404, "reason", "id is not an integer", "id", c.Param("id"))
		return he
	}
	if !stored {
		l.Info("delete_recommendation_success", "reason", "id out of range", "id", c.Param("id"))
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return serviceError(l, "delete_recommendation_failed", c.Param("id"), err)
	}

	l.Info("delete_recommendation_success", "recommendation_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *RecommendationHTTP) Live(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *RecommendationHTTP) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.Svc.Ready(ctx); err != nil {
		logging.FromContext(ctx).Error("readiness_failed", "status", 503, "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Could not connect to the database")
	}
	return c.NoContent(http.StatusOK)
}
