package catalog

import (
	"context"
	"fmt"

	"product-store/internal/models"
)

// Query is the read-only catalog service, independent of the
// attachment lifecycle.
type Query struct {
	repo Repository
}

func NewQuery(repo Repository) *Query {
	return &Query{repo: repo}
}

// List returns every product, most recent first, without bookkeeping
// fields.
func (q *Query) List(ctx context.Context) ([]models.Product, error) {
	products, err := q.repo.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// GetOne returns the product with the given external id, or nil when
// none matches. A miss is a valid outcome, not an error.
func (q *Query) GetOne(ctx context.Context, id string) (*models.Product, error) {
	p, err := q.repo.FindOne(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetMany returns the products whose external id is in ids, in storage
// order. An empty id set yields an empty result.
func (q *Query) GetMany(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	products, err := q.repo.FindMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	return products, nil
}
