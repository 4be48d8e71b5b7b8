package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driprats/storefront-admin/internal/models"
	"github.com/driprats/storefront-admin/internal/repository"
	"github.com/driprats/storefront-admin/internal/repository/repotest"
)

type recordedRepairs struct {
	rows []models.ProjectionRepair
}

func (r *recordedRepairs) RecordRepairs(_ context.Context, repairs []models.ProjectionRepair) error {
	r.rows = append(r.rows, repairs...)
	return nil
}

func newTestProductService(store ProductStore, repairs RepairRecorder) *ProductService {
	svc := NewProductService(store, repairs, []string{"res.cloudinary.com"})
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
	return svc
}

func scarfInput() *models.ProductInput {
	return &models.ProductInput{
		Name:        "Silk Scarf",
		Price:       500,
		Category:    "accessories",
		Description: "Hand-dyed silk",
		ImageUrls:   []string{"scarves/silk-1", "https://res.cloudinary.com/demo/image/upload/silk-2.jpg"},
		Tags:        []string{"silk", " scarf "},
	}
}

func TestCreateWritesAllProjections(t *testing.T) {
	store := repotest.NewMemoryProductStore()
	svc := newTestProductService(store, nil)

	product, err := svc.Create(context.Background(), scarfInput())
	require.NoError(t, err)
	assert.Equal(t, "silk-scarf", product.ProductID)
	assert.Equal(t, 500.0, product.DiscountedPrice)

	assert.Contains(t, store.Products, "silk-scarf")
	assert.Equal(t, models.ProductSummary{ProductID: "silk-scarf", Price: 500}, store.Summaries["silk-scarf"])

	entry := store.Entries["silk-scarf"]
	assert.Equal(t, []string{"silk", "scarf"}, entry.Tags)
	assert.Equal(t, "Silk Scarf", entry.Name)
	assert.Equal(t, product.ImageUrls, entry.ImageUrls)
}

func TestCreateSameNameKeepsIdentifier(t *testing.T) {
	store := repotest.NewMemoryProductStore()
	svc := newTestProductService(store, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, scarfInput())
	require.NoError(t, err)

	in := scarfInput()
	in.Price = 650
	second, err := svc.Create(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.ProductID, second.ProductID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Len(t, store.Products, 1)
	assert.Equal(t, 650.0, store.Summaries["silk-scarf"].Price)
}

func TestCreateRejectsUnusableInput(t *testing.T) {
	svc := newTestProductService(repotest.NewMemoryProductStore(), nil)
	ctx := context.Background()

	in := scarfInput()
	in.Name = "!!!"
	_, err := svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidProductID)

	in = scarfInput()
	in.ImageUrls = []string{"https://evil.example.com/x.jpg"}
	_, err = svc.Create(ctx, in)
	var hostErr *ImageHostError
	assert.ErrorAs(t, err, &hostErr)

	in = scarfInput()
	in.ImageUrls = []string{"http://res.cloudinary.com/x.jpg"}
	_, err = svc.Create(ctx, in)
	assert.ErrorAs(t, err, &hostErr)

	in = scarfInput()
	in.Price = 0
	_, err = svc.Create(ctx, in)
	assert.Error(t, err)
}

func TestUpdateKeepsIdentifierWhenNameChanges(t *testing.T) {
	store := repotest.NewMemoryProductStore()
	svc := newTestProductService(store, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, scarfInput())
	require.NoError(t, err)

	in := scarfInput()
	in.Name = "Silk Scarf Deluxe"
	in.Tags = nil
	updated, err := svc.Update(ctx, "silk-scarf", in)
	require.NoError(t, err)

	assert.Equal(t, "silk-scarf", updated.ProductID)
	assert.Equal(t, "Silk Scarf Deluxe", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.NotContains(t, store.Products, "silk-scarf-deluxe")
	assert.Equal(t, "Silk Scarf Deluxe", store.Entries["silk-scarf"].Name)
	assert.Empty(t, store.Entries["silk-scarf"].Tags)

	_, err = svc.Update(ctx, "missing", scarfInput())
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestDeleteRemovesEveryProjection(t *testing.T) {
	store := repotest.NewMemoryProductStore()
	svc := newTestProductService(store, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, scarfInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "silk-scarf"))
	assert.Empty(t, store.Products)
	assert.Empty(t, store.Summaries)
	assert.Empty(t, store.Entries)

	assert.ErrorIs(t, svc.Delete(ctx, "silk-scarf"), repository.ErrProductNotFound)
}

func TestStoreErrorsPropagate(t *testing.T) {
	store := repotest.NewMemoryProductStore()
	store.Err = errors.New("connection reset")
	svc := newTestProductService(store, nil)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, store.Err)
	_, err = svc.Create(context.Background(), scarfInput())
	assert.ErrorIs(t, err, store.Err)
}

func TestReconcileRepairsDrift(t *testing.T) {
	store := repotest.NewMemoryProductStore()
	repairs := &recordedRepairs{}
	svc := newTestProductService(store, repairs)
	ctx := context.Background()

	_, err := svc.Create(ctx, scarfInput())
	require.NoError(t, err)
	in := scarfInput()
	in.Name = "Gold Hoop Earrings"
	_, err = svc.Create(ctx, in)
	require.NoError(t, err)

	// Simulate a partial fan-out and a stale projection.
	delete(store.Summaries, "silk-scarf")
	stale := store.Entries["gold-hoop-earrings"]
	stale.Price = 1
	store.Entries["gold-hoop-earrings"] = stale
	store.Entries["ghost"] = models.SearchIndexEntry{ProductID: "ghost"}

	report, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Checked)
	assert.Len(t, report.Repaired, 3)

	assert.Equal(t, 500.0, store.Summaries["silk-scarf"].Price)
	assert.Equal(t, 500.0, store.Entries["gold-hoop-earrings"].Price)
	assert.Equal(t, []string{"silk", "scarf"}, store.Entries["gold-hoop-earrings"].Tags, "tags survive a rebuild")
	assert.NotContains(t, store.Entries, "ghost")

	require.Len(t, repairs.rows, 3)

	again, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Repaired)
}
