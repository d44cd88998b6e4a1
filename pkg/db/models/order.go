package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/EmilyGongVL/ecommerce-v1/pkg/enums"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/types"
)

// Order is a customer purchase. TotalAmount is always recomputed from the
// line items before persisting, never trusted from input.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index" json:"user"`
	Items           []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount     decimal.Decimal       `gorm:"column:total_amount;type:numeric(12,2);not null" json:"totalAmount"`
	Status          enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	ShippingAddress types.ShippingAddress `gorm:"column:shipping_address;type:jsonb" json:"shippingAddress"`
	PaymentMethod   enums.PaymentMethod   `gorm:"column:payment_method;type:text;not null" json:"paymentMethod"`
	PaymentStatus   enums.PaymentStatus   `gorm:"column:payment_status;type:text;not null;default:'pending'" json:"paymentStatus"`
	PaymentID       *string               `gorm:"column:payment_id" json:"paymentId,omitempty"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
