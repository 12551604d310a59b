package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/recommendations/internal/models"
)

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Recommendation{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newRec(src, rec int64, typ models.Type, status models.Status) *models.Recommendation {
	return &models.Recommendation{SrcProductID: src, RecProductID: rec, Type: typ, Status: status}
}

func TestGormRepo_CreateAssignsDistinctIDs(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()

	seen := map[uint]bool{}
	for i := 0; i < 5; i++ {
		rec := newRec(int64(i), 50, models.TypeUpSell, models.StatusEnabled)
		rec.ID = 999
		require.NoError(t, r.Create(ctx, rec))
		require.NotZero(t, rec.ID)
		assert.False(t, seen[rec.ID], "id %d issued twice", rec.ID)
		seen[rec.ID] = true
	}
	assert.False(t, seen[999], "client supplied id must be cleared")
}

func TestGormRepo_FindAfterCreate(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()

	rec := newRec(21, 50, models.TypeAccessory, models.StatusDisabled)
	require.NoError(t, r.Create(ctx, rec))

	got, err := r.Find(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *rec, *got)
}

func TestGormRepo_FindMissingIsNotAnError(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}

	got, err := r.Find(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGormRepo_All(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()

	items, err := r.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)

	for i := 1; i <= 3; i++ {
		require.NoError(t, r.Create(ctx, newRec(int64(i), 1, models.TypeCrossSell, models.StatusEnabled)))
	}

	items, err = r.All(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, it := range items {
		assert.EqualValues(t, i+1, it.SrcProductID)
	}
}

func TestGormRepo_FindBy(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, newRec(1, 10, models.TypeCrossSell, models.StatusEnabled)))
	require.NoError(t, r.Create(ctx, newRec(1, 11, models.TypeUpSell, models.StatusEnabled)))
	require.NoError(t, r.Create(ctx, newRec(2, 10, models.TypeUpSell, models.StatusDisabled)))

	bySrc, err := r.FindBy(ctx, models.FieldSrcProductID, int64(1))
	require.NoError(t, err)
	require.Len(t, bySrc, 2)
	for _, it := range bySrc {
		assert.EqualValues(t, 1, it.SrcProductID)
	}

	byRec, err := r.FindBy(ctx, models.FieldRecProductID, int64(10))
	require.NoError(t, err)
	assert.Len(t, byRec, 2)

	byType, err := r.FindBy(ctx, models.FieldType, models.TypeUpSell)
	require.NoError(t, err)
	assert.Len(t, byType, 2)

	none, err := r.FindBy(ctx, models.FieldSrcProductID, int64(404))
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = r.FindBy(ctx, models.FieldStatus, models.StatusEnabled)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestGormRepo_Update(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()

	rec := newRec(1, 2, models.TypeCrossSell, models.StatusEnabled)
	require.NoError(t, r.Create(ctx, rec))

	rec.SrcProductID = 55
	rec.Type = models.TypeAccessory
	rec.Status = models.StatusDisabled
	require.NoError(t, r.Update(ctx, rec))

	got, err := r.Find(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, *rec, *got)

	err = r.Update(ctx, newRec(1, 2, models.TypeCrossSell, models.StatusEnabled))
	assert.ErrorIs(t, err, ErrMissingID)

	missing := newRec(1, 2, models.TypeCrossSell, models.StatusEnabled)
	missing.ID = 9999
	assert.ErrorIs(t, r.Update(ctx, missing), gorm.ErrRecordNotFound)

	all, err := r.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGormRepo_Delete(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()

	rec := newRec(1, 2, models.TypeCrossSell, models.StatusEnabled)
	require.NoError(t, r.Create(ctx, rec))

	require.NoError(t, r.Delete(ctx, rec))

	got, err := r.Find(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, r.Delete(ctx, rec), gorm.ErrRecordNotFound)
}

func TestGormRepo_Ping(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	require.NoError(t, r.Ping(context.Background()))
}
