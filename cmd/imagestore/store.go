// Package imagestore uploads and deletes product images.
package imagestore

import (
	"context"
	"errors"

	"github.com/fidellopezm03/store-catalog-postgresql/cmd/model"
)

var (
	ErrNotImage  = errors.New("file is not an image")
	ErrTooLarge  = errors.New("image exceeds the upload limit")
	ErrEmpty     = errors.New("image is empty")
	ErrNotFound  = errors.New("image not found")
	ErrInvalidID = errors.New("invalid image id")
)

// Result identifies a stored image.
type Result struct {
	URL      string
	PublicID string
}

// Store is the image storage collaborator of the product service.
type Store interface {
	Add(ctx context.Context, img model.ImageUpload) (*Result, error)
	Delete(ctx context.Context, publicID string) error
}
