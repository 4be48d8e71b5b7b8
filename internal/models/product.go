// internal/models/product.go
package models

import (
	"strings"
	"time"
)

// Product is the full catalog record. Tags are deliberately absent; they live
// only in the search index.
type Product struct {
	ProductID           string            `json:"ProductId" bson:"_id"`
	Name                string            `json:"Name" bson:"Name"`
	Price               float64           `json:"Price" bson:"Price"`
	DiscountedPrice     float64           `json:"DiscountedPrice" bson:"DiscountedPrice"`
	InStock             bool              `json:"InStock" bson:"InStock"`
	Category            string            `json:"Category,omitempty" bson:"Category,omitempty"`
	Description         string            `json:"Description" bson:"Description"`
	ImageUrls           []string          `json:"ImageUrls" bson:"ImageUrls"`
	DetailedDescription map[string]string `json:"DetailedDescription,omitempty" bson:"DetailedDescription,omitempty"`
	MetaTitle           string            `json:"MetaTitle,omitempty" bson:"MetaTitle,omitempty"`
	MetaDescription     string            `json:"MetaDescription,omitempty" bson:"MetaDescription,omitempty"`
	CreatedAt           time.Time         `json:"CreatedAt" bson:"CreatedAt"`
	UpdatedAt           time.Time         `json:"UpdatedAt" bson:"UpdatedAt"`
}

// ProductSummary is the lightweight listing projection.
type ProductSummary struct {
	ProductID string  `json:"ProductId" bson:"_id"`
	Price     float64 `json:"Price" bson:"Price"`
}

// SearchIndexEntry holds everything browse and search need without loading
// the full record.
type SearchIndexEntry struct {
	ProductID       string   `json:"ProductId" bson:"_id"`
	Name            string   `json:"Name" bson:"Name"`
	Category        string   `json:"Category" bson:"Category"`
	Tags            []string `json:"Tags" bson:"Tags"`
	Price           float64  `json:"Price" bson:"Price"`
	DiscountedPrice float64  `json:"DiscountedPrice" bson:"DiscountedPrice"`
	ImageUrls       []string `json:"ImageUrls" bson:"ImageUrls"`
}

// ProductInput is the create/update payload. The identifier is never part of it.
type ProductInput struct {
	Name                string            `json:"Name" validate:"required,notblank,max=200"`
	Price               float64           `json:"Price" validate:"gt=0"`
	DiscountedPrice     *float64          `json:"DiscountedPrice,omitempty" validate:"omitempty,gte=0"`
	InStock             *bool             `json:"InStock,omitempty"`
	Category            string            `json:"Category,omitempty" validate:"max=100"`
	Description         string            `json:"Description"`
	ImageUrls           []string          `json:"ImageUrls" validate:"min=1,dive,required"`
	DetailedDescription map[string]string `json:"DetailedDescription,omitempty"`
	Tags                []string          `json:"Tags,omitempty"`
	MetaTitle           string            `json:"MetaTitle,omitempty" validate:"max=200"`
	MetaDescription     string            `json:"MetaDescription,omitempty" validate:"max=500"`
}

// Record materialises the full record. A missing discounted price becomes the
// base price here, at write time.
func (in ProductInput) Record(id string, now time.Time) Product {
	discounted := in.Price
	if in.DiscountedPrice != nil {
		discounted = *in.DiscountedPrice
	}

	inStock := true
	if in.InStock != nil {
		inStock = *in.InStock
	}

	images := make([]string, 0, len(in.ImageUrls))
	for _, url := range in.ImageUrls {
		if url = strings.TrimSpace(url); url != "" {
			images = append(images, url)
		}
	}

	return Product{
		ProductID:           id,
		Name:                strings.TrimSpace(in.Name),
		Price:               in.Price,
		DiscountedPrice:     discounted,
		InStock:             inStock,
		Category:            strings.TrimSpace(in.Category),
		Description:         in.Description,
		ImageUrls:           images,
		DetailedDescription: in.DetailedDescription,
		MetaTitle:           in.MetaTitle,
		MetaDescription:     in.MetaDescription,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// NormalizedTags trims tags and drops empties. The result is never nil.
func (in ProductInput) NormalizedTags() []string {
	return NormalizeTags(in.Tags)
}

func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func (p Product) Summary() ProductSummary {
	return ProductSummary{ProductID: p.ProductID, Price: p.Price}
}

func (p Product) SearchEntry(tags []string) SearchIndexEntry {
	images := p.ImageUrls
	if images == nil {
		images = []string{}
	}
	return SearchIndexEntry{
		ProductID:       p.ProductID,
		Name:            p.Name,
		Category:        p.Category,
		Tags:            NormalizeTags(tags),
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice,
		ImageUrls:       images,
	}
}
