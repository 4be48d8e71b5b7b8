// internal/repository/product_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/driprats/storefront-admin/internal/models"
)

const (
	ProductsCollection       = "Products"
	ProductSummaryCollection = "products_summary"
	SearchIndexCollection    = "search_index"
)

// ErrProductNotFound is returned when no full record exists for an id.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository keeps the full record, summary and search-index documents
// of a product in three collections that share the product id as _id.
type ProductRepository struct {
	client          *mongo.Client
	products        *mongo.Collection
	summaries       *mongo.Collection
	searchIndex     *mongo.Collection
	useTransactions bool
}

func NewProductRepository(client *mongo.Client, database string, useTransactions bool) *ProductRepository {
	db := client.Database(database)
	return &ProductRepository{
		client:          client,
		products:        db.Collection(ProductsCollection),
		summaries:       db.Collection(ProductSummaryCollection),
		searchIndex:     db.Collection(SearchIndexCollection),
		useTransactions: useTransactions,
	}
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.products.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "Name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return &product, nil
}

func (r *ProductRepository) GetSearchEntry(ctx context.Context, id string) (*models.SearchIndexEntry, error) {
	var entry models.SearchIndexEntry
	if err := r.searchIndex.FindOne(ctx, bson.M{"_id": id}).Decode(&entry); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get search entry %s: %w", id, err)
	}
	return &entry, nil
}

// Save upserts all three projections of a product together.
func (r *ProductRepository) Save(ctx context.Context, product models.Product, entry models.SearchIndexEntry) error {
	return r.inTransaction(ctx, func(ctx context.Context) error {
		upsert := options.Replace().SetUpsert(true)

		if _, err := r.products.ReplaceOne(ctx, bson.M{"_id": product.ProductID}, product, upsert); err != nil {
			return fmt.Errorf("failed to write product: %w", err)
		}
		if _, err := r.summaries.ReplaceOne(ctx, bson.M{"_id": product.ProductID}, product.Summary(), upsert); err != nil {
			return fmt.Errorf("failed to write product summary: %w", err)
		}
		if _, err := r.searchIndex.ReplaceOne(ctx, bson.M{"_id": product.ProductID}, entry, upsert); err != nil {
			return fmt.Errorf("failed to write search index: %w", err)
		}
		return nil
	})
}

// Delete removes the projections first and the full record last so no
// projection outlives its record.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.inTransaction(ctx, func(ctx context.Context) error {
		if _, err := r.searchIndex.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			return fmt.Errorf("failed to delete search index: %w", err)
		}
		if _, err := r.summaries.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			return fmt.Errorf("failed to delete product summary: %w", err)
		}

		res, err := r.products.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		if res.DeletedCount == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}

func (r *ProductRepository) ListSummaries(ctx context.Context) ([]models.ProductSummary, error) {
	cursor, err := r.summaries.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}

	summaries := []models.ProductSummary{}
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode summaries: %w", err)
	}
	return summaries, nil
}

func (r *ProductRepository) ListSearchEntries(ctx context.Context) ([]models.SearchIndexEntry, error) {
	cursor, err := r.searchIndex.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list search index: %w", err)
	}

	entries := []models.SearchIndexEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode search index: %w", err)
	}
	return entries, nil
}

func (r *ProductRepository) PutSummary(ctx context.Context, summary models.ProductSummary) error {
	_, err := r.summaries.ReplaceOne(ctx, bson.M{"_id": summary.ProductID}, summary, options.Replace().SetUpsert(true))
	return err
}

func (r *ProductRepository) PutSearchEntry(ctx context.Context, entry models.SearchIndexEntry) error {
	_, err := r.searchIndex.ReplaceOne(ctx, bson.M{"_id": entry.ProductID}, entry, options.Replace().SetUpsert(true))
	return err
}

func (r *ProductRepository) DeleteSummary(ctx context.Context, id string) error {
	_, err := r.summaries.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *ProductRepository) DeleteSearchEntry(ctx context.Context, id string) error {
	_, err := r.searchIndex.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// EnsureIndexes creates the browse indexes on the search index collection.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.searchIndex.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "Category", Value: 1}}},
		{Keys: bson.D{{Key: "Tags", Value: 1}}},
		{Keys: bson.D{{Key: "Name", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create search index indexes: %w", err)
	}
	return nil
}

// inTransaction runs fn inside a multi-document transaction when enabled.
// Standalone servers cannot run transactions; there the reconcile job repairs
// any partial fan-out.
func (r *ProductRepository) inTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !r.useTransactions {
		return fn(ctx)
	}

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
