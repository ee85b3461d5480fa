package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/fidellopezm03/store-catalog-postgresql/cmd/imagestore"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/model"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/repository"
)

type ProductService interface {
	ListProducts(ctx context.Context, params model.ProductParams) (*model.PageList[model.ProductResponse], error)
	GetProduct(ctx context.Context, id int64) (*model.ProductResponse, error)
	GetFilters(ctx context.Context) (*model.Filters, error)
	CreateProduct(ctx context.Context, dto model.CreateProductDto) (*model.ProductResponse, error)
	UpdateProduct(ctx context.Context, dto model.UpdateProductDto) (*model.ProductResponse, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type productService struct {
	repo     repository.ProductRepo
	images   imagestore.Store
	log      *slog.Logger
	validate *validator.Validate
}

// NewProductService builds the service over a repository and an image store.
func NewProductService(r repository.ProductRepo, images imagestore.Store, log *slog.Logger) ProductService {
	return &productService{
		repo:     r,
		images:   images,
		log:      log.With("component", "products"),
		validate: newValidator(),
	}
}

// ListProducts filters, sorts and pages the catalog.
func (s *productService) ListProducts(ctx context.Context, params model.ProductParams) (*model.PageList[model.ProductResponse], error) {
	page, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return model.MapPage(page, model.ToResponse), nil
}

func (s *productService) GetProduct(ctx context.Context, id int64) (*model.ProductResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := model.ToResponse(*p)
	return &resp, nil
}

func (s *productService) GetFilters(ctx context.Context) (*model.Filters, error) {
	return s.repo.Filters(ctx)
}

// CreateProduct stores the optional image first and then the product. A
// failed upload persists nothing; a failed insert discards the new image.
func (s *productService) CreateProduct(ctx context.Context, dto model.CreateProductDto) (*model.ProductResponse, error) {
	if err := validateStruct(s.validate, dto); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "create product", "name", dto.Name, "description", dto.Description)

	p := model.NewProduct(dto)
	if dto.File != nil {
		res, err := s.images.Add(ctx, *dto.File)
		if err != nil {
			s.log.ErrorContext(ctx, "image upload failed", "error", err)
			return nil, &UpstreamError{Op: "upload", Err: err}
		}
		p.PictureURL, p.PublicID = res.URL, res.PublicID
	}

	if err := s.repo.Create(ctx, &p); err != nil {
		s.discardImage(ctx, p.PublicID)
		if errors.Is(err, repository.ErrNoRowsAffected) {
			s.log.WarnContext(ctx, "problem creating new product", "name", dto.Name)
			return nil, ErrNoOp
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.log.InfoContext(ctx, "product created", "id", p.ID)
	resp := model.ToResponse(p)
	return &resp, nil
}

// UpdateProduct applies the fields present in dto. A new image replaces the
// previous one, which is deleted only once the product row points at the new
// image.
func (s *productService) UpdateProduct(ctx context.Context, dto model.UpdateProductDto) (*model.ProductResponse, error) {
	if err := validateStruct(s.validate, dto); err != nil {
		return nil, err
	}

	p, err := s.find(ctx, dto.ID)
	if err != nil {
		return nil, err
	}
	model.ApplyUpdate(dto, p)

	previous := p.PublicID
	uploaded := false
	if dto.File != nil {
		res, err := s.images.Add(ctx, *dto.File)
		if err != nil {
			s.log.ErrorContext(ctx, "image upload failed", "id", p.ID, "error", err)
			return nil, &UpstreamError{Op: "upload", Err: err}
		}
		p.PictureURL, p.PublicID = res.URL, res.PublicID
		uploaded = true
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if uploaded {
			s.discardImage(ctx, p.PublicID)
		}
		if errors.Is(err, repository.ErrNoRowsAffected) {
			s.log.WarnContext(ctx, "problem updating product", "id", p.ID)
			return nil, ErrNoOp
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	if uploaded && previous != "" {
		s.discardImage(ctx, previous)
	}

	resp := model.ToResponse(*p)
	return &resp, nil
}

// DeleteProduct removes the row before its image. A failed image delete is
// only logged.
func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	p, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			s.log.WarnContext(ctx, "problem deleting product", "id", id)
			return ErrNoOp
		}
		return fmt.Errorf("delete product: %w", err)
	}

	s.discardImage(ctx, p.PublicID)
	return nil
}

func (s *productService) find(ctx context.Context, id int64) (*model.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// discardImage deletes an asset that is no longer referenced. Failures leave
// an orphaned file and are only logged.
func (s *productService) discardImage(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	err := s.images.Delete(ctx, publicID)
	switch {
	case err == nil:
	case errors.Is(err, imagestore.ErrNotFound):
		s.log.DebugContext(ctx, "image already gone", "publicId", publicID)
	default:
		s.log.WarnContext(ctx, "orphaned image", "publicId", publicID, "error", err)
	}
}
