package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/Skotchmaster/recommendations/internal/events"
	"github.com/Skotchmaster/recommendations/internal/logging"
	"github.com/Skotchmaster/recommendations/internal/metrics"
	"github.com/Skotchmaster/recommendations/internal/models"
	"github.com/Skotchmaster/recommendations/internal/transport"
)

var (
	ErrValidation  = errors.New("validation")  // 400
	ErrNotFound    = errors.New("not found")   // 404
	ErrUnavailable = errors.New("unavailable") // 503
)

const publishTimeout = 5 * time.Second

var tracer = otel.Tracer("recommendations")

// Store is the persistence the service needs; repo.GormRepo implements it.
type Store interface {
	Create(ctx context.Context, rec *models.Recommendation) error
	Find(ctx context.Context, id uint) (*models.Recommendation, error)
	All(ctx context.Context) ([]models.Recommendation, error)
	FindBy(ctx context.Context, field string, value any) ([]models.Recommendation, error)
	Update(ctx context.Context, rec *models.Recommendation) error
	Delete(ctx context.Context, rec *models.Recommendation) error
	Ping(ctx context.Context) error
}

type RecommendationService struct {
	Repo      Store
	Publisher events.Publisher
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}

func (s *RecommendationService) observe(ctx context.Context, span trace.Span, op string, err error) {
	metrics.RecordOperation(op, outcome(err))
	if err == nil {
		return
	}
	span.RecordError(err)
	if errors.Is(err, ErrUnavailable) {
		logging.FromContext(ctx).Error("store_failed", "operation", op, "error", err)
	}
}

func (s *RecommendationService) publish(ctx context.Context, typ string, rec *models.Recommendation) {
	if s.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.Publisher.Publish(ctx, events.NewEvent(typ, rec)); err != nil {
		metrics.RecordPublishFailure()
		logging.FromContext(ctx).Error("publish_event_failed", "event", typ, "recommendation_id", rec.ID, "error", err)
	}
}

// List returns every recommendation, or only those matching f.
func (s *RecommendationService) List(ctx context.Context, f transport.Filter) (items []models.Recommendation, err error) {
	ctx, span := tracer.Start(ctx, "Recommendation.Service.List")
	defer span.End()
	defer func() { s.observe(ctx, span, "list", err) }()

	if f.IsZero() {
		items, err = s.Repo.All(ctx)
	} else {
		span.SetAttributes(attribute.String("filter.field", f.Field))
		items, err = s.Repo.FindBy(ctx, f.Field, f.Value)
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return items, nil
}

func (s *RecommendationService) Get(ctx context.Context, id uint) (rec *models.Recommendation, err error) {
	ctx, span := tracer.Start(ctx, "Recommendation.Service.Get", trace.WithAttributes(attribute.Int64("recommendation.id", int64(id))))
	defer span.End()
	defer func() { s.observe(ctx, span, "get", err) }()

	rec, err = s.Repo.Find(ctx, id)
	if err != nil {
		return nil, unavailable(err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: recommendation with id %d", ErrNotFound, id)
	}
	return rec, nil
}

func (s *RecommendationService) Create(ctx context.Context, req transport.RecommendationRequest) (rec *models.Recommendation, err error) {
	ctx, span := tracer.Start(ctx, "Recommendation.Service.Create")
	defer span.End()
	defer func() { s.observe(ctx, span, "create", err) }()

	rec = req.Model()
	if err = s.Repo.Create(ctx, rec); err != nil {
		return nil, unavailable(err)
	}

	s.publish(ctx, events.RecommendationCreated, rec)
	return rec, nil
}

// Update replaces every mutable field of the recommendation with id.
func (s *RecommendationService) Update(ctx context.Context, id uint, req transport.RecommendationRequest) (rec *models.Recommendation, err error) {
	ctx, span := tracer.Start(ctx, "Recommendation.Service.Update", trace.WithAttributes(attribute.Int64("recommendation.id", int64(id))))
	defer span.End()
	defer func() { s.observe(ctx, span, "update", err) }()

	rec, err = s.replace(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.RecommendationUpdated, rec)
	return rec, nil
}

// SetStatus replaces the recommendation with req, forcing its status.
func (s *RecommendationService) SetStatus(ctx context.Context, id uint, req transport.RecommendationRequest, status models.Status) (rec *models.Recommendation, err error) {
	ctx, span := tracer.Start(ctx, "Recommendation.Service.SetStatus", trace.WithAttributes(
		attribute.Int64("recommendation.id", int64(id)),
		attribute.String("recommendation.status", status.String()),
	))
	defer span.End()
	defer func() { s.observe(ctx, span, "set_status", err) }()

	if !status.Valid() {
		return nil, fmt.Errorf("%w: status %q", ErrValidation, status)
	}

	req.Status = status
	rec, err = s.replace(ctx, id, req)
	if err != nil {
		return nil, err
	}

	typ := events.RecommendationDisabled
	if status == models.StatusEnabled {
		typ = events.RecommendationEnabled
	}
	s.publish(ctx, typ, rec)
	return rec, nil
}

func (s *RecommendationService) replace(ctx context.Context, id uint, req transport.RecommendationRequest) (*models.Recommendation, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: recommendation with id %d", ErrNotFound, id)
	}

	rec := req.Model()
	rec.ID = id
	if err := s.Repo.Update(ctx, rec); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recommendation with id %d", ErrNotFound, id)
		}
		return nil, unavailable(err)
	}
	return rec, nil
}

// Delete removes the recommendation with id. Deleting an absent
// recommendation succeeds.
func (s *RecommendationService) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := tracer.Start(ctx, "Recommendation.Service.Delete", trace.WithAttributes(attribute.Int64("recommendation.id", int64(id))))
	defer span.End()
	defer func() { s.observe(ctx, span, "delete", err) }()

	rec, err := s.Repo.Find(ctx, id)
	if err != nil {
		return unavailable(err)
	}
	if rec == nil {
		return nil
	}

	if err := s.Repo.Delete(ctx, rec); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return unavailable(err)
	}

	s.publish(ctx, events.RecommendationDeleted, rec)
	return nil
}

func (s *RecommendationService) Ready(ctx context.Context) error {
	if err := s.Repo.Ping(ctx); err != nil {
		return unavailable(err)
	}
	return nil
}
