package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EmilyGongVL/ecommerce-v1/pkg/db/models"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/listing"
)

// Repository handles order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to order operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists the order and its line items in one transaction.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("order is required")
	}
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads an order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns the page of orders described by the query.
func (r *Repository) List(ctx context.Context, q *listing.Query) ([]models.Order, error) {
	var orders []models.Order
	tx := q.Apply(r.db.WithContext(ctx).Model(&models.Order{})).Preload("Items")
	if err := tx.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByUser returns the page of orders placed by one user.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, q *listing.Query) ([]models.Order, error) {
	var orders []models.Order
	tx := q.Apply(r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)).Preload("Items")
	if err := tx.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus persists a lifecycle move.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the order; line items cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementProductSales bumps a product's sales counter atomically.
func (r *Repository) IncrementProductSales(ctx context.Context, productID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("sales", gorm.Expr("sales + ?", qty)).Error
}

// StoreIDForProduct resolves the store owning a product.
func (r *Repository) StoreIDForProduct(ctx context.Context, productID uuid.UUID) (uuid.UUID, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Select("store_id").
		Where("id = ?", productID).
		Take(&product).Error
	if err != nil {
		return uuid.Nil, err
	}
	return product.StoreID, nil
}
