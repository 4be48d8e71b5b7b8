// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/driprats/storefront-admin/internal/models"
	"github.com/driprats/storefront-admin/internal/repository"
	"github.com/driprats/storefront-admin/internal/utils"
)

var ErrInvalidProductID = errors.New("product name does not produce a usable id")

// ImageHostError rejects an absolute image URL outside the allowed hosts.
type ImageHostError struct {
	URL string
}

func (e *ImageHostError) Error() string {
	return fmt.Sprintf("image host not allowed: %s", e.URL)
}

// ProductStore is the three-projection product storage.
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	GetSearchEntry(ctx context.Context, id string) (*models.SearchIndexEntry, error)
	Save(ctx context.Context, product models.Product, entry models.SearchIndexEntry) error
	Delete(ctx context.Context, id string) error

	ListSummaries(ctx context.Context) ([]models.ProductSummary, error)
	ListSearchEntries(ctx context.Context) ([]models.SearchIndexEntry, error)
	PutSummary(ctx context.Context, summary models.ProductSummary) error
	PutSearchEntry(ctx context.Context, entry models.SearchIndexEntry) error
	DeleteSummary(ctx context.Context, id string) error
	DeleteSearchEntry(ctx context.Context, id string) error
}

// RepairRecorder keeps a history of reconciliation repairs.
type RepairRecorder interface {
	RecordRepairs(ctx context.Context, repairs []models.ProjectionRepair) error
}

type ProductService struct {
	store        ProductStore
	repairs      RepairRecorder
	allowedHosts map[string]bool
	now          func() time.Time
}

type ProductRepair struct {
	ProductID string   `json:"productId"`
	Repaired  []string `json:"repaired"`
	Orphaned  bool     `json:"orphaned"`
}

type ReconcileReport struct {
	Checked  int             `json:"checked"`
	Repaired []ProductRepair `json:"repaired"`
}

// NewProductService wires the store. repairs may be nil; an empty
// allowedHosts list accepts any absolute image URL.
func NewProductService(store ProductStore, repairs RepairRecorder, allowedHosts []string) *ProductService {
	hosts := make(map[string]bool, len(allowedHosts))
	for _, h := range allowedHosts {
		hosts[strings.ToLower(h)] = true
	}
	return &ProductService{
		store:        store,
		repairs:      repairs,
		allowedHosts: hosts,
		now:          time.Now,
	}
}

// ProductID derives the stable identifier for a product name.
func ProductID(name string) string {
	return utils.Slugify(name)
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.store.List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.store.Get(ctx, id)
}

func (s *ProductService) GetSearchEntry(ctx context.Context, id string) (*models.SearchIndexEntry, error) {
	return s.store.GetSearchEntry(ctx, id)
}

// Create writes a product under the id derived from its name. Saving the same
// name again overwrites the record but keeps its creation time.
func (s *ProductService) Create(ctx context.Context, in *models.ProductInput) (*models.Product, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	id := ProductID(in.Name)
	if id == "" {
		return nil, ErrInvalidProductID
	}

	product, err := s.build(id, in)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.Get(ctx, id)
	switch {
	case err == nil:
		product.CreatedAt = existing.CreatedAt
	case !errors.Is(err, repository.ErrProductNotFound):
		return nil, err
	}

	if err := s.store.Save(ctx, product, product.SearchEntry(in.Tags)); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update overwrites every field of an existing product. The id never changes,
// even when the name does.
func (s *ProductService) Update(ctx context.Context, id string, in *models.ProductInput) (*models.Product, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	product, err := s.build(id, in)
	if err != nil {
		return nil, err
	}
	product.CreatedAt = existing.CreatedAt

	if err := s.store.Save(ctx, product, product.SearchEntry(in.Tags)); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *ProductService) build(id string, in *models.ProductInput) (models.Product, error) {
	product := in.Record(id, s.now().UTC())
	for _, raw := range product.ImageUrls {
		if err := s.checkImage(raw); err != nil {
			return models.Product{}, err
		}
	}
	return product, nil
}

// checkImage accepts bare media ids and https URLs on an allowed host.
func (s *ProductService) checkImage(raw string) error {
	if !strings.Contains(raw, "://") {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return &ImageHostError{URL: raw}
	}
	if len(s.allowedHosts) > 0 && !s.allowedHosts[strings.ToLower(u.Hostname())] {
		return &ImageHostError{URL: raw}
	}
	return nil
}

// Reconcile rebuilds missing or stale summaries and search entries from the
// full records and removes projections whose record is gone.
func (s *ProductService) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	products, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	summaryList, err := s.store.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	entryList, err := s.store.ListSearchEntries(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make(map[string]models.ProductSummary, len(summaryList))
	for _, summary := range summaryList {
		summaries[summary.ProductID] = summary
	}
	entries := make(map[string]models.SearchIndexEntry, len(entryList))
	for _, entry := range entryList {
		entries[entry.ProductID] = entry
	}

	report := &ReconcileReport{Checked: len(products), Repaired: []ProductRepair{}}

	for _, product := range products {
		var fixed []string

		if summary, ok := summaries[product.ProductID]; !ok || summary != product.Summary() {
			if err := s.store.PutSummary(ctx, product.Summary()); err != nil {
				return nil, err
			}
			fixed = append(fixed, repository.ProductSummaryCollection)
		}

		entry, ok := entries[product.ProductID]
		want := product.SearchEntry(entry.Tags)
		if !ok || !sameEntry(entry, want) {
			if err := s.store.PutSearchEntry(ctx, want); err != nil {
				return nil, err
			}
			fixed = append(fixed, repository.SearchIndexCollection)
		}

		delete(summaries, product.ProductID)
		delete(entries, product.ProductID)

		if len(fixed) > 0 {
			report.Repaired = append(report.Repaired, ProductRepair{ProductID: product.ProductID, Repaired: fixed})
		}
	}

	orphans := map[string][]string{}
	for id := range summaries {
		if err := s.store.DeleteSummary(ctx, id); err != nil {
			return nil, err
		}
		orphans[id] = append(orphans[id], repository.ProductSummaryCollection)
	}
	for id := range entries {
		if err := s.store.DeleteSearchEntry(ctx, id); err != nil {
			return nil, err
		}
		orphans[id] = append(orphans[id], repository.SearchIndexCollection)
	}
	for id, removed := range orphans {
		report.Repaired = append(report.Repaired, ProductRepair{ProductID: id, Repaired: removed, Orphaned: true})
	}

	if len(report.Repaired) > 0 {
		logrus.WithFields(logrus.Fields{
			"checked":  report.Checked,
			"repaired": len(report.Repaired),
		}).Warn("Product projections repaired")
		s.recordRepairs(ctx, report.Repaired)
	}

	return report, nil
}

func (s *ProductService) recordRepairs(ctx context.Context, repairs []ProductRepair) {
	if s.repairs == nil {
		return
	}

	rows := make([]models.ProjectionRepair, 0, len(repairs))
	for _, r := range repairs {
		rows = append(rows, models.ProjectionRepair{
			ProductID: r.ProductID,
			Repaired:  r.Repaired,
			Orphaned:  r.Orphaned,
		})
	}
	if err := s.repairs.RecordRepairs(ctx, rows); err != nil {
		logrus.WithError(err).Error("Failed to record projection repairs")
	}
}

func sameEntry(a, b models.SearchIndexEntry) bool {
	return a.ProductID == b.ProductID &&
		a.Name == b.Name &&
		a.Category == b.Category &&
		a.Price == b.Price &&
		a.DiscountedPrice == b.DiscountedPrice &&
		slices.Equal(a.Tags, b.Tags) &&
		slices.Equal(a.ImageUrls, b.ImageUrls)
}
