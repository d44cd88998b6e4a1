package users

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EmilyGongVL/ecommerce-v1/internal/access"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/db"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/db/models"
	pkgerrors "github.com/EmilyGongVL/ecommerce-v1/pkg/errors"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/listing"
)

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, q *listing.Query) ([]models.User, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	AddWishlistItem(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistItem, error)
	RemoveWishlistItem(ctx context.Context, userID, productID uuid.UUID) error
	ListWishlist(ctx context.Context, userID uuid.UUID) ([]WishlistItemDTO, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes profile and wishlist operations.
type Service interface {
	Me(ctx context.Context, actor access.Actor) (*UserDTO, error)
	UpdateMe(ctx context.Context, actor access.Actor, input UpdateMeInput) (*UserDTO, error)
	List(ctx context.Context, params url.Values) ([]UserDTO, error)
	AddToWishlist(ctx context.Context, actor access.Actor, productID uuid.UUID) error
	RemoveFromWishlist(ctx context.Context, actor access.Actor, productID uuid.UUID) error
	Wishlist(ctx context.Context, actor access.Actor) ([]WishlistItemDTO, error)
}

type service struct {
	repo     userRepository
	products productFinder
}

// NewService builds a users service with the provided repositories.
func NewService(repo userRepository, products productFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, products: products}, nil
}

// Schema describes the externally filterable user fields for admin listings.
func Schema() listing.Schema {
	return listing.Schema{
		Fields: map[string]listing.Field{
			"name":  {Column: "name", Kind: listing.KindString, Sortable: true, Filterable: true},
			"email": {Column: "email", Kind: listing.KindString, Sortable: true, Filterable: true},
			"role":  {Column: "role", Kind: listing.KindString, Filterable: true},
		},
		SoftDelete: true,
	}
}

func (s *service) Me(ctx context.Context, actor access.Actor) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) UpdateMe(ctx context.Context, actor access.Actor, input UpdateMeInput) (*UserDTO, error) {
	fields := map[string]any{}
	if input.Name != nil {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.ImageURL != nil {
		fields["image_url"] = *input.ImageURL
	}
	if len(fields) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no updatable fields provided")
	}

	if err := s.repo.Update(ctx, actor.UserID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return s.Me(ctx, actor)
}

func (s *service) List(ctx context.Context, params url.Values) ([]UserDTO, error) {
	q, err := listing.Parse(params, Schema())
	if err != nil {
		return nil, err
	}
	page, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return FromModels(page), nil
}

// AddToWishlist saves a product for the actor. Re-adding a product that is
// already saved succeeds without creating a duplicate row.
func (s *service) AddToWishlist(ctx context.Context, actor access.Actor, productID uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if _, err := s.repo.AddWishlistItem(ctx, actor.UserID, productID); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist item")
	}
	return nil
}

func (s *service) RemoveFromWishlist(ctx context.Context, actor access.Actor, productID uuid.UUID) error {
	if err := s.repo.RemoveWishlistItem(ctx, actor.UserID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product is not in your wishlist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	return nil
}

func (s *service) Wishlist(ctx context.Context, actor access.Actor) ([]WishlistItemDTO, error) {
	items, err := s.repo.ListWishlist(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	return items, nil
}
