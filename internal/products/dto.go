package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/EmilyGongVL/ecommerce-v1/pkg/db/models"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/types"
)

// ProductDTO exposes safe product data in API responses.
type ProductDTO struct {
	ID              uuid.UUID            `json:"id"`
	StoreID         uuid.UUID            `json:"store"`
	Name            string               `json:"name"`
	Slug            string               `json:"slug"`
	Description     string               `json:"description"`
	Price           decimal.Decimal      `json:"price"`
	PriceDiscount   *decimal.Decimal     `json:"priceDiscount,omitempty"`
	Images          []string             `json:"images"`
	Category        string               `json:"category"`
	Subcategory     *string              `json:"subcategory,omitempty"`
	Quantity        int                  `json:"quantity"`
	Rating          float64              `json:"rating"`
	RatingsQuantity int                  `json:"ratingsQuantity"`
	Sales           int64                `json:"sales"`
	Specifications  types.Specifications `json:"specifications"`
	IsOnSale        bool                 `json:"isOnSale"`
	IsFeatured      bool                 `json:"isFeatured"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// CreateProductInput captures the fields accepted when listing a product.
type CreateProductInput struct {
	StoreID        uuid.UUID            `json:"store" validate:"required"`
	Name           string               `json:"name" validate:"required,min=3,max=100"`
	Description    string               `json:"description" validate:"required,max=2000"`
	Price          decimal.Decimal      `json:"price" validate:"required"`
	PriceDiscount  *decimal.Decimal     `json:"priceDiscount,omitempty"`
	Images         []string             `json:"images,omitempty"`
	Category       string               `json:"category" validate:"required"`
	Subcategory    *string              `json:"subcategory,omitempty"`
	Quantity       int                  `json:"quantity" validate:"gte=0"`
	Specifications types.Specifications `json:"specifications,omitempty"`
	IsOnSale       *bool                `json:"isOnSale,omitempty"`
	IsFeatured     *bool                `json:"isFeatured,omitempty"`
}

// UpdateProductInput captures the allowed product fields for mutation.
type UpdateProductInput struct {
	Name           *string               `json:"name,omitempty" validate:"omitempty,min=3,max=100"`
	Description    *string               `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price          *decimal.Decimal      `json:"price,omitempty"`
	PriceDiscount  *decimal.Decimal      `json:"priceDiscount,omitempty"`
	Images         *[]string             `json:"images,omitempty"`
	Category       *string               `json:"category,omitempty"`
	Subcategory    *string               `json:"subcategory,omitempty"`
	Quantity       *int                  `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Rating         *float64              `json:"rating,omitempty"`
	Specifications *types.Specifications `json:"specifications,omitempty"`
	IsOnSale       *bool                 `json:"isOnSale,omitempty"`
	IsFeatured     *bool                 `json:"isFeatured,omitempty"`
}

// FromModel maps the persisted product into a DTO.
func FromModel(m *models.Product) *ProductDTO {
	if m == nil {
		return nil
	}
	return &ProductDTO{
		ID:              m.ID,
		StoreID:         m.StoreID,
		Name:            m.Name,
		Slug:            m.Slug,
		Description:     m.Description,
		Price:           m.Price,
		PriceDiscount:   m.PriceDiscount,
		Images:          m.Images,
		Category:        m.Category,
		Subcategory:     m.Subcategory,
		Quantity:        m.Quantity,
		Rating:          m.Rating,
		RatingsQuantity: m.RatingsQuantity,
		Sales:           m.Sales,
		Specifications:  m.Specifications,
		IsOnSale:        m.IsOnSale,
		IsFeatured:      m.IsFeatured,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromModels maps a page of products into DTOs.
func FromModels(ms []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *FromModel(&ms[i]))
	}
	return out
}

func imagesFromInput(images []string) pq.StringArray {
	if images == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(images)
}
