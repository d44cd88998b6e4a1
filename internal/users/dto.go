package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/EmilyGongVL/ecommerce-v1/pkg/db/models"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/enums"
)

// UserDTO exposes safe user data in API responses.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	ImageURL  string         `json:"image"`
	Role      enums.UserRole `json:"role"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// UpdateMeInput captures the profile fields a user may change. Password
// and role moves go through dedicated endpoints.
type UpdateMeInput struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	ImageURL *string `json:"image,omitempty"`
}

// WishlistItemDTO is one saved product with its joined product summary.
type WishlistItemDTO struct {
	ID        uuid.UUID   `json:"id"`
	ProductID uuid.UUID   `json:"product"`
	Product   *ProductRef `json:"productDetails,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ProductRef is the slice of product data joined into wishlist listings.
type ProductRef struct {
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Price    string  `json:"price"`
	ImageURL *string `json:"image,omitempty"`
}

// FromModel maps the persisted user into a DTO.
func FromModel(m *models.User) *UserDTO {
	if m == nil {
		return nil
	}
	return &UserDTO{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		ImageURL:  m.ImageURL,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromModels maps a page of users.
func FromModels(ms []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *FromModel(&ms[i]))
	}
	return out
}
