package repository

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"product-store/internal/catalog"
	"product-store/internal/models"
)

// ProductRepository persists products in a MongoDB collection. It
// implements catalog.Repository.
type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(collection *mongo.Collection) *ProductRepository {
	r := &ProductRepository{
		collection: collection,
	}
	r.ensureIndexes()
	return r
}

// ensureIndexes backs the uniqueness of the external product id with a
// unique index, so concurrent creates cannot both commit the same id.
func (r *ProductRepository) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Println("⚠️ Could not create unique index on product id:", err)
	}
}

// Create inserts a new product and returns it with its bookkeeping
// fields set.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	oid := primitive.NewObjectID()
	now := time.Now()
	product.OID = &oid
	product.CreatedAt = &now
	product.UpdatedAt = &now

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		if isDuplicateKey(err) {
			return nil, catalog.ErrDuplicateID
		}
		return nil, err
	}
	return product, nil
}

func isDuplicateKey(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}
	return strings.Contains(err.Error(), "E11000 duplicate key error")
}

// FindOneAndUpdate replaces the given fields on the product with the
// matching external id and returns the updated record.
func (r *ProductRepository) FindOneAndUpdate(ctx context.Context, id string, fields bson.M) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	fields["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"id": id},
		bson.M{"$set": fields},
		opts,
	).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}

	return &product, nil
}

// FindOneAndRemove deletes the product with the matching internal id
// and returns the removed record.
func (r *ProductRepository) FindOneAndRemove(ctx context.Context, internalID string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(internalID)
	if err != nil {
		return nil, catalog.ErrNotFound
	}

	var product models.Product
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}

	return &product, nil
}

// Find returns all products in reverse-insertion order, without the
// bookkeeping fields.
func (r *ProductRepository) Find(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetProjection(bson.M{"_id": 0, "createdAt": 0, "updatedAt": 0})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindOne returns the product with the matching external id, or nil
// when none matches.
func (r *ProductRepository) FindOne(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"updatedAt": 0})

	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"id": id}, opts).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &product, nil
}

// FindMany returns the products whose external id is in ids, in
// storage order.
func (r *ProductRepository) FindMany(ctx context.Context, ids []string) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"updatedAt": 0})

	cursor, err := r.collection.Find(ctx, bson.M{"id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}
