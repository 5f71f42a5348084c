package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog record. The external id is the lookup key for
// reads and updates; the Mongo ObjectID is only used for deletion.
// Bookkeeping fields are pointers so that read projections which
// exclude them also drop them from the JSON response.
type Product struct {
	OID         *primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	ID          string              `json:"id" bson:"id"`
	Name        string              `json:"name" bson:"name"`
	Price       float64             `json:"price" bson:"price"`
	Stock       int                 `json:"stock" bson:"stock"`
	Image       []string            `json:"image" bson:"image"`
	Colors      []string            `json:"colors" bson:"colors"`
	Category    string              `json:"category" bson:"category"`
	Company     string              `json:"company" bson:"company"`
	Description string              `json:"description" bson:"description"`
	Featured    bool                `json:"featured" bson:"featured"`
	Shipping    bool                `json:"shipping" bson:"shipping"`
	Reviews     int                 `json:"reviews" bson:"reviews"`
	Stars       float64             `json:"stars" bson:"stars"`
	CreatedAt   *time.Time          `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt   *time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// ProductInput is a validated product payload, without file data.
type ProductInput struct {
	ID          string  `validate:"required"`
	Name        string  `validate:"required"`
	Price       float64 `validate:"gte=0"`
	Stock       int     `validate:"gte=0"`
	Colors      []string
	Category    string `validate:"required"`
	Company     string `validate:"required"`
	Description string
	Featured    bool
	Shipping    bool
	Reviews     int     `validate:"gte=0"`
	Stars       float64 `validate:"gte=0,lte=5"`
}

// ToProduct builds a record from the validated fields. The image
// sequence starts empty; attachments are merged in by the caller.
func (in ProductInput) ToProduct() *Product {
	return &Product{
		ID:          in.ID,
		Name:        in.Name,
		Price:       in.Price,
		Stock:       in.Stock,
		Image:       []string{},
		Colors:      in.Colors,
		Category:    in.Category,
		Company:     in.Company,
		Description: in.Description,
		Featured:    in.Featured,
		Shipping:    in.Shipping,
		Reviews:     in.Reviews,
		Stars:       in.Stars,
	}
}

// Fields builds the update document for a whole-record replace of the
// non-file fields. The image sequence is intentionally absent.
func (in ProductInput) Fields() bson.M {
	return bson.M{
		"id":          in.ID,
		"name":        in.Name,
		"price":       in.Price,
		"stock":       in.Stock,
		"colors":      in.Colors,
		"category":    in.Category,
		"company":     in.Company,
		"description": in.Description,
		"featured":    in.Featured,
		"shipping":    in.Shipping,
		"reviews":     in.Reviews,
		"stars":       in.Stars,
	}
}
