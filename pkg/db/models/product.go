package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/EmilyGongVL/ecommerce-v1/pkg/types"
)

// Product represents a listing owned by a store. Writes to this table
// trigger a recomputation of the owning store's aggregate stats.
type Product struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StoreID         uuid.UUID            `gorm:"column:store_id;type:uuid;not null;index" json:"store"`
	Name            string               `gorm:"column:name;not null" json:"name"`
	Slug            string               `gorm:"column:slug;not null;index" json:"slug"`
	Description     string               `gorm:"column:description;not null" json:"description"`
	Price           decimal.Decimal      `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	PriceDiscount   *decimal.Decimal     `gorm:"column:price_discount;type:numeric(10,2)" json:"priceDiscount,omitempty"`
	Images          pq.StringArray       `gorm:"column:images;type:text[]" json:"images"`
	Category        string               `gorm:"column:category;not null;index" json:"category"`
	Subcategory     *string              `gorm:"column:subcategory" json:"subcategory,omitempty"`
	Quantity        int                  `gorm:"column:quantity;not null;default:0" json:"quantity"`
	Rating          float64              `gorm:"column:rating;type:numeric(2,1);not null;default:4.5" json:"rating"`
	RatingsQuantity int                  `gorm:"column:ratings_quantity;not null;default:0" json:"ratingsQuantity"`
	Sales           int64                `gorm:"column:sales;not null;default:0" json:"sales"`
	Specifications  types.Specifications `gorm:"column:specifications;type:jsonb" json:"specifications"`
	IsOnSale        bool                 `gorm:"column:is_on_sale;not null;default:false" json:"isOnSale"`
	IsFeatured      bool                 `gorm:"column:is_featured;not null;default:false" json:"isFeatured"`
	Active          bool                 `gorm:"column:active;not null;default:true" json:"-"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
