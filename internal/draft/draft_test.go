package draft

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driprats/storefront-admin/internal/models"
	"github.com/driprats/storefront-admin/internal/repository"
	"github.com/driprats/storefront-admin/internal/repository/repotest"
	"github.com/driprats/storefront-admin/internal/services"
)

func newService() (*services.ProductService, *repotest.MemoryProductStore) {
	store := repotest.NewMemoryProductStore()
	return services.NewProductService(store, nil, []string{"res.cloudinary.com"}), store
}

func TestSteps(t *testing.T) {
	d := New()
	assert.Equal(t, StepBasic, d.Step())
	assert.False(t, d.Prev())

	for _, want := range Steps[1:] {
		assert.True(t, d.Next())
		assert.Equal(t, want, d.Step())
	}
	assert.False(t, d.Next())

	require.NoError(t, d.GoTo(StepImages))
	assert.Equal(t, StepImages, d.Step())
	assert.ErrorIs(t, d.GoTo("shipping"), ErrUnknownStep)
	assert.Equal(t, StepImages, d.Step())
}

func TestValidityGateTracksEveryMutation(t *testing.T) {
	d := New()
	assert.False(t, d.Valid())

	d.SetName("Gold Hoop Earrings")
	d.SetPrice(1999)
	assert.False(t, d.Valid())

	d.AddImage("")
	assert.False(t, d.Valid(), "empty slot does not count")

	require.NoError(t, d.SetImage(0, "earrings/gold"))
	assert.True(t, d.Valid())

	d.SetPrice(0)
	assert.False(t, d.Valid())
	d.SetPrice(1999)

	d.SetName("   ")
	var fe FieldErrors
	require.True(t, errors.As(d.Validate(), &fe))
	assert.Contains(t, fe, "name")
	d.SetName("Gold Hoop Earrings")

	require.NoError(t, d.RemoveImage(0))
	require.True(t, errors.As(d.Validate(), &fe))
	assert.Contains(t, fe, "imageurls")

	assert.ErrorIs(t, d.RemoveImage(3), ErrImageIndex)
	assert.ErrorIs(t, d.SetImage(-1, "x"), ErrImageIndex)
}

func TestValidateReportsEveryField(t *testing.T) {
	d := New()
	neg := -5.0
	d.SetDiscountedPrice(&neg)

	var fe FieldErrors
	require.True(t, errors.As(d.Validate(), &fe))
	assert.Contains(t, fe, "name")
	assert.Contains(t, fe, "price")
	assert.Contains(t, fe, "imageurls")
	assert.Contains(t, fe, "discountedprice")
	assert.Contains(t, fe.Error(), "invalid product draft")
}

func TestValidityGateAppliesServerLimits(t *testing.T) {
	d := New()
	d.SetName("Gold Hoop Earrings")
	d.SetPrice(1999)
	d.AddImage("earrings/gold")
	require.True(t, d.Valid())

	d.SetCategory(strings.Repeat("c", 101))
	assert.False(t, d.Valid())
	d.SetCategory("Jewellery")

	d.SetMetaDescription(strings.Repeat("m", 501))
	var fe FieldErrors
	require.True(t, errors.As(d.Validate(), &fe))
	assert.Contains(t, fe, "metadescription")
}

func TestDetailsFold(t *testing.T) {
	d := New()
	a := d.AddDetail()
	b := d.AddDetail()
	c := d.AddDetail()
	blank := d.AddDetail()

	require.NoError(t, d.UpdateDetail(a, " Material ", " 18k gold "))
	require.NoError(t, d.UpdateDetail(b, "Weight", "4g"))
	require.NoError(t, d.UpdateDetail(c, "Material", "silver"))
	require.NoError(t, d.UpdateDetail(blank, "  ", "ignored"))
	assert.ErrorIs(t, d.UpdateDetail(uuid.New(), "k", "v"), ErrUnknownDetail)

	assert.Len(t, d.Details(), 4)
	assert.Equal(t, map[string]string{"Material": "silver", "Weight": "4g"}, d.Fold())

	assert.True(t, d.RemoveDetail(c))
	assert.False(t, d.RemoveDetail(c))
	assert.Equal(t, map[string]string{"Material": "18k gold", "Weight": "4g"}, d.Fold())
}

func TestTags(t *testing.T) {
	d := New()
	d.SetTagsFromString(" gold, earrings ,, hoops ")
	assert.Equal(t, []string{"gold", "earrings", "hoops"}, d.Tags())
	assert.Equal(t, "gold, earrings, hoops", d.TagsString())

	d.RemoveTag("earrings")
	assert.Equal(t, []string{"gold", "hoops"}, d.Tags())

	d.SetTagsFromString("")
	assert.Empty(t, d.Tags())
}

func TestReview(t *testing.T) {
	d := New()
	d.SetName("Gold Hoop Earrings")
	d.SetPrice(1999)
	sale := 1499.5
	d.SetDiscountedPrice(&sale)
	d.AddImage("earrings/gold")
	d.AddImage(" ")
	d.SetTagsFromString("gold")

	r := d.Review()
	assert.Equal(t, "gold-hoop-earrings", r.ProductID)
	assert.Equal(t, "499.5", r.Savings.String())
	assert.Equal(t, []string{"earrings/gold"}, r.Images)
	assert.True(t, r.InStock)
	assert.True(t, r.Valid)

	d.SetDiscountedPrice(nil)
	r = d.Review()
	assert.True(t, r.DiscountedPrice.Equal(r.Price))
	assert.True(t, r.Savings.IsZero())
}

func TestSubmitCreate(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()

	d := New()
	d.SetName("Gold Hoop Earrings")
	d.SetPrice(1999)
	d.AddImage("earrings/gold")
	id := d.AddDetail()
	require.NoError(t, d.UpdateDetail(id, "Material", "18k gold"))

	p, err := d.Submit(ctx, svc)
	require.NoError(t, err)
	assert.Equal(t, "gold-hoop-earrings", p.ProductID)
	assert.Equal(t, 1999.0, p.DiscountedPrice)
	assert.Equal(t, map[string]string{"Material": "18k gold"}, p.DetailedDescription)

	entry, err := svc.GetSearchEntry(ctx, p.ProductID)
	require.NoError(t, err)
	assert.Empty(t, entry.Tags)
	assert.Contains(t, store.Summaries, p.ProductID)
}

func TestSubmitEditKeepsIdentifier(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	created, err := svc.Create(ctx, &models.ProductInput{
		Name:                "Silk Scarf",
		Price:               500,
		ImageUrls:           []string{"https://res.cloudinary.com/demo/scarf.jpg"},
		DetailedDescription: map[string]string{"Width": "70cm", "Fabric": "silk"},
		Tags:                []string{"silk"},
	})
	require.NoError(t, err)

	d := FromProduct(*created, []string{"silk", " "})
	assert.Equal(t, ModeEdit, d.Mode())
	assert.Equal(t, "silk-scarf", d.ProductID())
	assert.Equal(t, []string{"silk"}, d.Tags())
	details := d.Details()
	require.Len(t, details, 2)
	assert.Equal(t, "Fabric", details[0].Key)
	assert.Equal(t, "Width", details[1].Key)
	assert.True(t, d.Valid())

	d.SetName("Silk Scarf Deluxe")
	d.SetTagsFromString("silk, deluxe")
	updated, err := d.Submit(ctx, svc)
	require.NoError(t, err)
	assert.Equal(t, "silk-scarf", updated.ProductID)
	assert.Equal(t, "Silk Scarf Deluxe", updated.Name)
	assert.Equal(t, 500.0, updated.DiscountedPrice)

	entry, err := svc.GetSearchEntry(ctx, "silk-scarf")
	require.NoError(t, err)
	assert.Equal(t, []string{"silk", "deluxe"}, entry.Tags)
}

func TestSubmitFailureLeavesDraftIntact(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()

	d := New()
	_, err := d.Submit(ctx, svc)
	var fe FieldErrors
	assert.True(t, errors.As(err, &fe))
	assert.Empty(t, store.Products)

	d.SetName("Gold Hoop Earrings")
	d.SetPrice(1999)
	d.AddImage("earrings/gold")
	require.NoError(t, d.GoTo(StepReview))

	store.Err = errors.New("mongo unavailable")
	_, err = d.Submit(ctx, svc)
	assert.ErrorIs(t, err, store.Err)
	assert.Equal(t, StepReview, d.Step())
	assert.Equal(t, "Gold Hoop Earrings", d.Input().Name)

	store.Err = nil
	_, err = d.Submit(ctx, svc)
	require.NoError(t, err)

	edit := FromProduct(models.Product{ProductID: "missing", Name: "Ghost", Price: 10, ImageUrls: []string{"ghost"}}, nil)
	_, err = edit.Submit(ctx, svc)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}
