package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/recommendations/internal/models"
)

var (
	ErrMissingID    = errors.New("recommendation id is not set")
	ErrUnknownField = errors.New("unknown filter field")
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Create(ctx context.Context, rec *models.Recommendation) error {
	rec.ID = 0
	return r.DB.WithContext(ctx).Create(rec).Error
}

// Find returns nil, nil when no row has the id.
func (r *GormRepo) Find(ctx context.Context, id uint) (*models.Recommendation, error) {
	var rec models.Recommendation
	if err := r.DB.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *GormRepo) All(ctx context.Context) ([]models.Recommendation, error) {
	items := make([]models.Recommendation, 0)
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) FindBy(ctx context.Context, field string, value any) ([]models.Recommendation, error) {
	switch field {
	case models.FieldSrcProductID, models.FieldRecProductID, models.FieldType:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	items := make([]models.Recommendation, 0)
	if err := r.DB.WithContext(ctx).
		Where(map[string]any{field: value}).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Update replaces every mutable column of the row with rec's id.
func (r *GormRepo) Update(ctx context.Context, rec *models.Recommendation) error {
	if rec.ID == 0 {
		return ErrMissingID
	}

	res := r.DB.WithContext(ctx).
		Model(&models.Recommendation{}).
		Where("id = ?", rec.ID).
		Updates(map[string]any{
			models.FieldSrcProductID: rec.SrcProductID,
			models.FieldRecProductID: rec.RecProductID,
			models.FieldType:         rec.Type,
			models.FieldStatus:       rec.Status,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) Delete(ctx context.Context, rec *models.Recommendation) error {
	if rec.ID == 0 {
		return ErrMissingID
	}

	res := r.DB.WithContext(ctx).Delete(&models.Recommendation{}, rec.ID)

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
