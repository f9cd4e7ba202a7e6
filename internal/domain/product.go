package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound        = errors.New("product not found")
	ErrInvalidProductCategory = errors.New("invalid product category")
	ErrProductSlugTaken       = errors.New("product slug already in use")
)

type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Slug        string          `json:"slug" db:"slug"`
	Description *string         `json:"description,omitempty" db:"description"`
	Category    ProductCategory `json:"category" db:"category"`
	PriceCents  int64           `json:"price_cents" db:"price_cents"`
	ImageURL    *string         `json:"image_url,omitempty" db:"image_url"`
	Stock       int             `json:"stock" db:"stock"`
	IsActive    bool            `json:"is_active" db:"is_active"`
	CreatedBy   uuid.UUID       `json:"created_by" db:"created_by"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time      `json:"-" db:"deleted_at"`
}

type ProductCategory string

const (
	CategoryKeychain        ProductCategory = "llavero"
	CategoryPremiumKeychain ProductCategory = "llavero-premium"
	CategoryBracelet        ProductCategory = "pulsera"
	CategoryCustom          ProductCategory = "personalizado"
)

func (c ProductCategory) IsValid() bool {
	switch c {
	case CategoryKeychain, CategoryPremiumKeychain, CategoryBracelet, CategoryCustom:
		return true
	default:
		return false
	}
}

type CreateProductInput struct {
	Name        string          `json:"name" validate:"required,min=2,max=120"`
	Slug        string          `json:"slug" validate:"required,min=2,max=120"`
	Description *string         `json:"description,omitempty"`
	Category    ProductCategory `json:"category" validate:"required"`
	PriceCents  int64           `json:"price_cents" validate:"required,min=0"`
	ImageURL    *string         `json:"image_url,omitempty"`
	Stock       int             `json:"stock" validate:"min=0"`
}

type UpdateProductInput struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Description *string          `json:"description,omitempty"`
	Category    *ProductCategory `json:"category,omitempty"`
	PriceCents  *int64           `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	ImageURL    *string          `json:"image_url,omitempty"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,min=0"`
	IsActive    *bool            `json:"is_active,omitempty"`
}
