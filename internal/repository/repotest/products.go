// internal/repository/repotest/products.go
package repotest

import (
	"context"
	"sort"
	"sync"

	"github.com/driprats/storefront-admin/internal/models"
	"github.com/driprats/storefront-admin/internal/repository"
)

// MemoryProductStore keeps the three product projections in maps. Setting Err
// makes every call fail with it.
type MemoryProductStore struct {
	mu        sync.Mutex
	Products  map[string]models.Product
	Summaries map[string]models.ProductSummary
	Entries   map[string]models.SearchIndexEntry
	Err       error
}

func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{
		Products:  map[string]models.Product{},
		Summaries: map[string]models.ProductSummary{},
		Entries:   map[string]models.SearchIndexEntry{},
	}
}

func (s *MemoryProductStore) List(_ context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	products := make([]models.Product, 0, len(s.Products))
	for _, p := range s.Products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (s *MemoryProductStore) Get(_ context.Context, id string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	p, ok := s.Products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (s *MemoryProductStore) GetSearchEntry(_ context.Context, id string) (*models.SearchIndexEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	e, ok := s.Entries[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &e, nil
}

func (s *MemoryProductStore) Save(_ context.Context, product models.Product, entry models.SearchIndexEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	s.Products[product.ProductID] = product
	s.Summaries[product.ProductID] = product.Summary()
	s.Entries[product.ProductID] = entry
	return nil
}

func (s *MemoryProductStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	delete(s.Entries, id)
	delete(s.Summaries, id)
	if _, ok := s.Products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(s.Products, id)
	return nil
}

func (s *MemoryProductStore) ListSummaries(_ context.Context) ([]models.ProductSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]models.ProductSummary, 0, len(s.Summaries))
	for _, summary := range s.Summaries {
		out = append(out, summary)
	}
	return out, nil
}

func (s *MemoryProductStore) ListSearchEntries(_ context.Context) ([]models.SearchIndexEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]models.SearchIndexEntry, 0, len(s.Entries))
	for _, entry := range s.Entries {
		out = append(out, entry)
	}
	return out, nil
}

func (s *MemoryProductStore) PutSummary(_ context.Context, summary models.ProductSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Summaries[summary.ProductID] = summary
	return nil
}

func (s *MemoryProductStore) PutSearchEntry(_ context.Context, entry models.SearchIndexEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Entries[entry.ProductID] = entry
	return nil
}

func (s *MemoryProductStore) DeleteSummary(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.Summaries, id)
	return nil
}

func (s *MemoryProductStore) DeleteSearchEntry(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.Entries, id)
	return nil
}
