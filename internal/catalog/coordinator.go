// Package catalog holds the product catalog core: the attachment
// coordinator that keeps image files and product records consistent,
// and the read-only query service.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"product-store/internal/models"
	"product-store/internal/storage"
	"product-store/internal/uploads"
	"product-store/internal/validate"
)

// Repository is the persistence contract the coordinator depends on.
// FindOneAndUpdate and FindOneAndRemove return ErrNotFound when no
// record matches; FindOne returns (nil, nil) on a miss.
type Repository interface {
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	FindOneAndUpdate(ctx context.Context, id string, fields bson.M) (*models.Product, error)
	FindOneAndRemove(ctx context.Context, internalID string) (*models.Product, error)
	Find(ctx context.Context) ([]models.Product, error)
	FindOne(ctx context.Context, id string) (*models.Product, error)
	FindMany(ctx context.Context, ids []string) ([]models.Product, error)
}

// Coordinator sequences uploads, validation and persistence so that a
// stored file is kept only while a persisted record references it.
// There is no shared transaction between the filesystem and the
// database; every fallible step carries an explicit compensating
// delete of the files this request wrote.
type Coordinator struct {
	repo    Repository
	store   storage.Store
	baseURL string
}

func NewCoordinator(repo Repository, store storage.Store, baseURL string) *Coordinator {
	return &Coordinator{
		repo:    repo,
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// CreateProduct validates the payload, merges in the public URIs of the
// already-written files and persists the record. On validation or
// persistence failure every file of this submission is deleted before
// the error is returned; a create never partially succeeds.
func (co *Coordinator) CreateProduct(ctx context.Context, form validate.Form, files []uploads.StoredFile) (*models.Product, error) {
	in, verr := validate.Product(form)
	if verr != nil {
		return nil, co.withDiscard(verr, files)
	}

	p := in.ToProduct()
	for _, f := range files {
		p.Image = append(p.Image, co.publicURL(f.Name))
	}

	created, err := co.repo.Create(ctx, p)
	if err != nil {
		if !errors.Is(err, ErrDuplicateID) {
			err = fmt.Errorf("create product: %w", err)
		}
		return nil, co.withDiscard(err, files)
	}
	return created, nil
}

// UpdateProduct replaces the non-file fields of the product with the
// given external id. A non-empty files slice replaces the whole image
// sequence; the superseded files are deleted only after the update has
// committed, and a failure to delete them is logged, not returned. On
// any earlier failure the new files are deleted and the previous image
// set stays untouched.
func (co *Coordinator) UpdateProduct(ctx context.Context, id string, form validate.Form, files []uploads.StoredFile) (*models.Product, error) {
	in, verr := validate.Product(form)
	if verr != nil {
		return nil, co.withDiscard(verr, files)
	}

	fields := in.Fields()
	var previous []string
	if len(files) > 0 {
		current, err := co.repo.FindOne(ctx, id)
		if err != nil {
			return nil, co.withDiscard(fmt.Errorf("update product: %w", err), files)
		}
		if current == nil {
			return nil, co.withDiscard(ErrNotFound, files)
		}
		previous = current.Image

		urls := make([]string, 0, len(files))
		for _, f := range files {
			urls = append(urls, co.publicURL(f.Name))
		}
		fields["image"] = urls
	}

	updated, err := co.repo.FindOneAndUpdate(ctx, id, fields)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			err = fmt.Errorf("update product: %w", err)
		}
		return nil, co.withDiscard(err, files)
	}

	for _, uri := range previous {
		if err := co.store.Delete(storedName(uri)); err != nil {
			log.Println("⚠️ Could not remove replaced image:", err)
		}
	}
	return updated, nil
}

// DestroyProduct removes the record with the given internal id, then
// deletes every file it referenced. The record is removed first: a
// file-deletion failure leaves an orphaned file, never a live record
// pointing at a missing one. Such a failure is reported as a
// *CleanupError alongside the already-removed record.
func (co *Coordinator) DestroyProduct(ctx context.Context, internalID string) (*models.Product, error) {
	removed, err := co.repo.FindOneAndRemove(ctx, internalID)
	if err != nil {
		return nil, err
	}

	var firstErr error
	for _, uri := range removed.Image {
		if err := co.store.Delete(storedName(uri)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return removed, &CleanupError{Err: firstErr}
	}
	return removed, nil
}

// withDiscard deletes the files this request wrote and returns the
// primary error, with any deletion failure attached as secondary
// information. The discard runs without the request context so that a
// client disconnect cannot strand the files.
func (co *Coordinator) withDiscard(primary error, files []uploads.StoredFile) error {
	var firstErr error
	for _, f := range files {
		if err := co.store.Delete(f.Name); err != nil {
			log.Println("⚠️ Could not remove uploaded file:", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return errors.Join(primary, firstErr)
	}
	return primary
}

func (co *Coordinator) publicURL(name string) string {
	return co.baseURL + "/uploads/" + name
}

// storedName maps a public image URI back to its name in storage.
func storedName(uri string) string {
	return path.Base(uri)
}
