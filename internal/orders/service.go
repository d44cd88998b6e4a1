package orders

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/EmilyGongVL/ecommerce-v1/internal/access"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/db/models"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/enums"
	pkgerrors "github.com/EmilyGongVL/ecommerce-v1/pkg/errors"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/listing"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/logger"
)

type orderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, q *listing.Query) ([]models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, q *listing.Query) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementProductSales(ctx context.Context, productID uuid.UUID, qty int) error
	StoreIDForProduct(ctx context.Context, productID uuid.UUID) (uuid.UUID, error)
}

type statsRecalculator interface {
	Recalculate(ctx context.Context, storeID uuid.UUID) error
}

// Service exposes order operations.
type Service interface {
	List(ctx context.Context, actor access.Actor, params url.Values) ([]OrderDTO, error)
	GetByID(ctx context.Context, actor access.Actor, id uuid.UUID) (*OrderDTO, error)
	Create(ctx context.Context, actor access.Actor, input CreateOrderInput) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateStatusInput) (*OrderDTO, error)
	Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error
}

type service struct {
	repo  orderRepository
	stats statsRecalculator
	logg  *logger.Logger
}

// NewService builds an order service with the provided collaborators.
func NewService(repo orderRepository, stats statsRecalculator, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if stats == nil {
		return nil, fmt.Errorf("stats recalculator required")
	}
	return &service{repo: repo, stats: stats, logg: logg}, nil
}

// Schema describes the externally filterable order fields.
func Schema() listing.Schema {
	return listing.Schema{
		Fields: map[string]listing.Field{
			"status":        {Column: "status", Kind: listing.KindString, Sortable: true, Filterable: true},
			"paymentStatus": {Column: "payment_status", Kind: listing.KindString, Filterable: true},
			"paymentMethod": {Column: "payment_method", Kind: listing.KindString, Filterable: true},
			"totalAmount":   {Column: "total_amount", Kind: listing.KindDecimal, Sortable: true, Filterable: true},
			"user":          {Column: "user_id", Kind: listing.KindString, Filterable: true},
		},
	}
}

func (s *service) List(ctx context.Context, actor access.Actor, params url.Values) ([]OrderDTO, error) {
	q, err := listing.Parse(params, Schema())
	if err != nil {
		return nil, err
	}

	var page []models.Order
	if actor.IsAdmin() {
		page, err = s.repo.List(ctx, q)
	} else {
		page, err = s.repo.ListByUser(ctx, actor.UserID, q)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return FromModels(page), nil
}

func (s *service) GetByID(ctx context.Context, actor access.Actor, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CanManage(actor, order.UserID); err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) Create(ctx context.Context, actor access.Actor, input CreateOrderInput) (*OrderDTO, error) {
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	total := decimal.Zero
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
		if item.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
		}
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order := &models.Order{
		UserID:          actor.UserID,
		Items:           items,
		TotalAmount:     total,
		Status:          enums.OrderStatusPending,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   enums.PaymentStatusPending,
		PaymentID:       input.PaymentID,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return FromModel(order), nil
}

func (s *service) UpdateStatus(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateStatusInput) (*OrderDTO, error) {
	target, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
	}

	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CanManage(actor, order.UserID); err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, target))
	}

	if err := s.repo.UpdateStatus(ctx, id, target.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = target

	if target == enums.OrderStatusDelivered {
		s.recordDelivery(ctx, order)
	}

	return FromModel(order), nil
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	order, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := access.CanManage(actor, order.UserID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// recordDelivery bumps each product's sales counter and refreshes the
// affected stores' aggregates. The order is already delivered at this
// point, so failures are aggregated, logged, and swallowed.
func (s *service) recordDelivery(ctx context.Context, order *models.Order) {
	var errs error
	affected := map[uuid.UUID]struct{}{}

	for _, item := range order.Items {
		if err := s.repo.IncrementProductSales(ctx, item.ProductID, item.Quantity); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("increment sales for product %s: %w", item.ProductID, err))
			continue
		}
		storeID, err := s.repo.StoreIDForProduct(ctx, item.ProductID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("resolve store for product %s: %w", item.ProductID, err))
			continue
		}
		affected[storeID] = struct{}{}
	}

	for storeID := range affected {
		if err := s.stats.Recalculate(ctx, storeID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("recalculate store %s: %w", storeID, err))
		}
	}

	if errs != nil && s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, order.ID.String())
		s.logg.Error(ctx, "order.delivery_side_effects_failed", errs)
	}
}
