package catalog_test

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"product-store/internal/catalog"
	"product-store/internal/models"
)

// fakeRepo is an in-memory catalog.Repository with switchable failure
// injection, mirroring the contract of the Mongo implementation.
type fakeRepo struct {
	mu       sync.Mutex
	products []*models.Product

	failCreate error
	failUpdate error
	failFind   error
}

func (f *fakeRepo) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreate != nil {
		return nil, f.failCreate
	}

	// Mirrors the unique index on the external id.
	for _, existing := range f.products {
		if existing.ID == p.ID {
			return nil, catalog.ErrDuplicateID
		}
	}

	oid := primitive.NewObjectID()
	now := time.Now()
	p.OID = &oid
	p.CreatedAt = &now
	p.UpdatedAt = &now
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeRepo) FindOneAndUpdate(_ context.Context, id string, fields bson.M) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failUpdate != nil {
		return nil, f.failUpdate
	}

	for _, p := range f.products {
		if p.ID == id {
			applyFields(p, fields)
			now := time.Now()
			p.UpdatedAt = &now
			return p, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeRepo) FindOneAndRemove(_ context.Context, internalID string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, p := range f.products {
		if p.OID != nil && p.OID.Hex() == internalID {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return p, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeRepo) Find(_ context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failFind != nil {
		return nil, f.failFind
	}

	out := make([]models.Product, 0, len(f.products))
	for i := len(f.products) - 1; i >= 0; i-- {
		p := *f.products[i]
		p.OID = nil
		p.CreatedAt = nil
		p.UpdatedAt = nil
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRepo) FindOne(_ context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failFind != nil {
		return nil, f.failFind
	}

	for _, p := range f.products {
		if p.ID == id {
			cp := *p
			cp.UpdatedAt = nil
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindMany(_ context.Context, ids []string) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	out := make([]models.Product, 0)
	for _, p := range f.products {
		if want[p.ID] {
			cp := *p
			cp.UpdatedAt = nil
			out = append(out, cp)
		}
	}
	return out, nil
}

func applyFields(p *models.Product, fields bson.M) {
	for k, v := range fields {
		switch k {
		case "id":
			p.ID = v.(string)
		case "name":
			p.Name = v.(string)
		case "price":
			p.Price = v.(float64)
		case "stock":
			p.Stock = v.(int)
		case "image":
			p.Image = v.([]string)
		case "colors":
			p.Colors, _ = v.([]string)
		case "category":
			p.Category = v.(string)
		case "company":
			p.Company = v.(string)
		case "description":
			p.Description = v.(string)
		case "featured":
			p.Featured = v.(bool)
		case "shipping":
			p.Shipping = v.(bool)
		case "reviews":
			p.Reviews = v.(int)
		case "stars":
			p.Stars = v.(float64)
		}
	}
}
