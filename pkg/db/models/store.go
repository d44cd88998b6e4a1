package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/EmilyGongVL/ecommerce-v1/pkg/types"
)

// Store represents a seller storefront. Rating, RatingsQuantity, and Sales
// are denormalized from the store's products and recomputed after every
// product write.
type Store struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string         `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Slug            string         `gorm:"column:slug;not null;index" json:"slug"`
	Description     string         `gorm:"column:description;not null" json:"description"`
	ImageURL        string         `gorm:"column:image_url;not null" json:"image"`
	CoverImageURL   *string        `gorm:"column:cover_image_url" json:"coverImage,omitempty"`
	OwnerID         uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index" json:"owner"`
	Rating          float64        `gorm:"column:rating;type:numeric(2,1);not null;default:4.5" json:"rating"`
	RatingsQuantity int            `gorm:"column:ratings_quantity;not null;default:0" json:"ratingsQuantity"`
	Sales           int64          `gorm:"column:sales;not null;default:0" json:"sales"`
	IsNew           bool           `gorm:"column:is_new;not null;default:false" json:"isNew"`
	IsUpcoming      bool           `gorm:"column:is_upcoming;not null;default:false" json:"isUpcoming"`
	IsStarred       bool           `gorm:"column:is_starred;not null;default:false" json:"isStarred"`
	Categories      pq.StringArray `gorm:"column:categories;type:text[]" json:"categories"`
	Location        types.GeoPoint `gorm:"column:location;type:jsonb" json:"location"`
	Active          bool           `gorm:"column:active;not null;default:true" json:"-"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
