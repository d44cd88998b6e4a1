package stores

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EmilyGongVL/ecommerce-v1/pkg/db/models"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/listing"
)

// Repository handles store persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new store row.
func (r *Repository) Create(ctx context.Context, store *models.Store) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	return r.db.WithContext(ctx).Create(store).Error
}

// FindByID loads an active store by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// List returns the page of active stores described by the query.
func (r *Repository) List(ctx context.Context, q *listing.Query) ([]models.Store, error) {
	var stores []models.Store
	tx := q.Apply(r.db.WithContext(ctx).Model(&models.Store{}))
	if err := tx.Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// TopRated returns the highest rated active stores.
func (r *Repository) TopRated(ctx context.Context, limit int) ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("rating DESC").
		Limit(limit).
		Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// ListFlagged returns active stores carrying the given curation flag.
// The column name is owned by this package, never caller input.
func (r *Repository) ListFlagged(ctx context.Context, column string, limit int) ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.WithContext(ctx).
		Where(fmt.Sprintf("%s = ? AND active = ?", column), true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// Update saves the provided store.
func (r *Repository) Update(ctx context.Context, store *models.Store) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	return r.db.WithContext(ctx).Save(store).Error
}

// Delete removes the store row entirely.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Store{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
