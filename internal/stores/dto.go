package stores

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/EmilyGongVL/ecommerce-v1/pkg/db/models"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/types"
)

// StoreDTO exposes safe store data in API responses.
type StoreDTO struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name"`
	Slug            string         `json:"slug"`
	Description     string         `json:"description"`
	ImageURL        string         `json:"image"`
	CoverImageURL   *string        `json:"coverImage,omitempty"`
	OwnerID         uuid.UUID      `json:"owner"`
	Rating          float64        `json:"rating"`
	RatingsQuantity int            `json:"ratingsQuantity"`
	Sales           int64          `json:"sales"`
	IsNew           bool           `json:"isNew"`
	IsUpcoming      bool           `json:"isUpcoming"`
	IsStarred       bool           `json:"isStarred"`
	Categories      []string       `json:"categories"`
	Location        types.GeoPoint `json:"location"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// CreateStoreInput captures the fields accepted when opening a store.
type CreateStoreInput struct {
	Name          string          `json:"name" validate:"required,min=3,max=50"`
	Description   string          `json:"description" validate:"required,max=500"`
	ImageURL      string          `json:"image" validate:"required"`
	CoverImageURL *string         `json:"coverImage,omitempty"`
	Categories    []string        `json:"categories,omitempty"`
	Location      *types.GeoPoint `json:"location,omitempty"`
	IsNew         *bool           `json:"isNew,omitempty"`
	IsUpcoming    *bool           `json:"isUpcoming,omitempty"`
	IsStarred     *bool           `json:"isStarred,omitempty"`
}

// UpdateStoreInput captures the allowed store fields for mutation.
type UpdateStoreInput struct {
	Name          *string         `json:"name,omitempty" validate:"omitempty,min=3,max=50"`
	Description   *string         `json:"description,omitempty" validate:"omitempty,max=500"`
	ImageURL      *string         `json:"image,omitempty"`
	CoverImageURL *string         `json:"coverImage,omitempty"`
	Categories    *[]string       `json:"categories,omitempty"`
	Location      *types.GeoPoint `json:"location,omitempty"`
	IsNew         *bool           `json:"isNew,omitempty"`
	IsUpcoming    *bool           `json:"isUpcoming,omitempty"`
	IsStarred     *bool           `json:"isStarred,omitempty"`
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	return &StoreDTO{
		ID:              m.ID,
		Name:            m.Name,
		Slug:            m.Slug,
		Description:     m.Description,
		ImageURL:        m.ImageURL,
		CoverImageURL:   m.CoverImageURL,
		OwnerID:         m.OwnerID,
		Rating:          m.Rating,
		RatingsQuantity: m.RatingsQuantity,
		Sales:           m.Sales,
		IsNew:           m.IsNew,
		IsUpcoming:      m.IsUpcoming,
		IsStarred:       m.IsStarred,
		Categories:      m.Categories,
		Location:        m.Location,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromModels maps a page of stores into DTOs.
func FromModels(ms []models.Store) []StoreDTO {
	out := make([]StoreDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *FromModel(&ms[i]))
	}
	return out
}

func categoriesFromInput(categories []string) pq.StringArray {
	if categories == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(categories)
}
