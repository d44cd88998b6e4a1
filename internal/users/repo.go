package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EmilyGongVL/ecommerce-v1/pkg/db/models"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/listing"
)

// Repository exposes user and wishlist persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID loads an active user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns the page of users described by the query.
func (r *Repository) List(ctx context.Context, q *listing.Query) ([]models.User, error) {
	var users []models.User
	if err := q.Apply(r.db.WithContext(ctx).Model(&models.User{})).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies the column map to one user row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// wishlistRow carries the joined product columns for one saved item.
type wishlistRow struct {
	models.WishlistItem
	ProductName  string
	ProductSlug  string
	ProductPrice string
	ProductImage *string
}

// AddWishlistItem saves a product for the user. The unique index on
// (user_id, product_id) makes duplicates surface as a unique violation.
func (r *Repository) AddWishlistItem(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistItem, error) {
	item := models.WishlistItem{UserID: userID, ProductID: productID}
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveWishlistItem deletes one saved product.
func (r *Repository) RemoveWishlistItem(ctx context.Context, userID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListWishlist returns the user's saved products joined with a product summary.
func (r *Repository) ListWishlist(ctx context.Context, userID uuid.UUID) ([]WishlistItemDTO, error) {
	var rows []wishlistRow
	err := r.db.WithContext(ctx).
		Table("wishlist_items").
		Select(`wishlist_items.*,
			products.name AS product_name,
			products.slug AS product_slug,
			products.price AS product_price,
			products.images[1] AS product_image`).
		Joins("JOIN products ON products.id = wishlist_items.product_id AND products.active = ?", true).
		Where("wishlist_items.user_id = ?", userID).
		Order("wishlist_items.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]WishlistItemDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, WishlistItemDTO{
			ID:        row.ID,
			ProductID: row.ProductID,
			CreatedAt: row.CreatedAt,
			Product: &ProductRef{
				Name:     row.ProductName,
				Slug:     row.ProductSlug,
				Price:    row.ProductPrice,
				ImageURL: row.ProductImage,
			},
		})
	}
	return items, nil
}
