package model

import (
	"io"

	"github.com/shopspring/decimal"
)

// ImageUpload is an image payload received with a product form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type CreateProductDto struct {
	Name            string       `form:"name" validate:"required"`
	Description     string       `form:"description" validate:"required"`
	Price           int64        `form:"price" validate:"gte=0"`
	Type            string       `form:"type" validate:"required"`
	Brand           string       `form:"brand" validate:"required"`
	QuantityInStock int          `form:"quantityInStock" validate:"gte=0"`
	File            *ImageUpload `form:"file" validate:"-"`
}

// UpdateProductDto carries a partial update: nil fields are left unchanged.
type UpdateProductDto struct {
	ID              int64        `form:"id" validate:"gt=0"`
	Name            *string      `form:"name" validate:"omitnil,min=1"`
	Description     *string      `form:"description" validate:"omitnil,min=1"`
	Price           *int64       `form:"price" validate:"omitnil,gte=0"`
	Type            *string      `form:"type" validate:"omitnil,min=1"`
	Brand           *string      `form:"brand" validate:"omitnil,min=1"`
	QuantityInStock *int         `form:"quantityInStock" validate:"omitnil,gte=0"`
	File            *ImageUpload `form:"file" validate:"-"`
}

// ProductResponse is the transport shape of a product.
type ProductResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           int64  `json:"price"`
	DisplayPrice    string `json:"displayPrice"`
	PictureURL      string `json:"pictureUrl"`
	Type            string `json:"type"`
	Brand           string `json:"brand"`
	QuantityInStock int    `json:"quantityInStock"`
}

// NewProduct maps a create request onto a fresh entity. Picture fields stay
// empty until an image is stored.
func NewProduct(dto CreateProductDto) Product {
	return Product{
		Name:            dto.Name,
		Description:     dto.Description,
		Price:           dto.Price,
		Type:            dto.Type,
		Brand:           dto.Brand,
		QuantityInStock: dto.QuantityInStock,
	}
}

// ApplyUpdate copies the fields present in dto onto p.
func ApplyUpdate(dto UpdateProductDto, p *Product) {
	if dto.Name != nil {
		p.Name = *dto.Name
	}
	if dto.Description != nil {
		p.Description = *dto.Description
	}
	if dto.Price != nil {
		p.Price = *dto.Price
	}
	if dto.Type != nil {
		p.Type = *dto.Type
	}
	if dto.Brand != nil {
		p.Brand = *dto.Brand
	}
	if dto.QuantityInStock != nil {
		p.QuantityInStock = *dto.QuantityInStock
	}
}

func ToResponse(p Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		DisplayPrice:    decimal.New(p.Price, -2).StringFixed(2),
		PictureURL:      p.PictureURL,
		Type:            p.Type,
		Brand:           p.Brand,
		QuantityInStock: p.QuantityInStock,
	}
}
