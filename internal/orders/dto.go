package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/EmilyGongVL/ecommerce-v1/pkg/db/models"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/enums"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/types"
)

// OrderDTO exposes an order with its line items in API responses.
type OrderDTO struct {
	ID              uuid.UUID             `json:"id"`
	UserID          uuid.UUID             `json:"user"`
	Items           []OrderItemDTO        `json:"items"`
	TotalAmount     decimal.Decimal       `json:"totalAmount"`
	Status          enums.OrderStatus     `json:"status"`
	ShippingAddress types.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   enums.PaymentMethod   `json:"paymentMethod"`
	PaymentStatus   enums.PaymentStatus   `json:"paymentStatus"`
	PaymentID       *string               `json:"paymentId,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// OrderItemDTO exposes one line item.
type OrderItemDTO struct {
	ProductID uuid.UUID       `json:"product"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// CreateOrderInput captures the payload for placing an order. Item prices
// are snapshots taken by the client at add-to-cart time; the total is
// always recomputed server side.
type CreateOrderInput struct {
	Items           []CreateOrderItemInput `json:"items" validate:"required,min=1,dive"`
	ShippingAddress types.ShippingAddress  `json:"shippingAddress" validate:"required"`
	PaymentMethod   enums.PaymentMethod    `json:"paymentMethod" validate:"required"`
	PaymentID       *string                `json:"paymentId,omitempty"`
}

// CreateOrderItemInput is one requested line item.
type CreateOrderItemInput struct {
	ProductID uuid.UUID       `json:"product" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	Price     decimal.Decimal `json:"price" validate:"required"`
}

// UpdateStatusInput carries a requested lifecycle move.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// FromModel maps the persisted order into a DTO.
func FromModel(m *models.Order) *OrderDTO {
	if m == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, OrderItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return &OrderDTO{
		ID:              m.ID,
		UserID:          m.UserID,
		Items:           items,
		TotalAmount:     m.TotalAmount,
		Status:          m.Status,
		ShippingAddress: m.ShippingAddress,
		PaymentMethod:   m.PaymentMethod,
		PaymentStatus:   m.PaymentStatus,
		PaymentID:       m.PaymentID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromModels maps a page of orders into DTOs.
func FromModels(ms []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *FromModel(&ms[i]))
	}
	return out
}
