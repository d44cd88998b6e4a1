package products

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/EmilyGongVL/ecommerce-v1/internal/access"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/db/models"
	pkgerrors "github.com/EmilyGongVL/ecommerce-v1/pkg/errors"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/listing"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/logger"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/slug"
)

type productRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, q *listing.Query) ([]models.Product, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, q *listing.Query) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type storeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

type statsRecalculator interface {
	Recalculate(ctx context.Context, storeID uuid.UUID) error
}

// Service exposes product operations.
type Service interface {
	List(ctx context.Context, params url.Values) ([]ProductDTO, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, params url.Values) ([]ProductDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, actor access.Actor, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error
}

type service struct {
	repo   productRepository
	stores storeRepository
	stats  statsRecalculator
	logg   *logger.Logger
}

// NewService builds a product service with the provided collaborators.
func NewService(repo productRepository, stores storeRepository, stats statsRecalculator, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if stats == nil {
		return nil, fmt.Errorf("stats recalculator required")
	}
	return &service{repo: repo, stores: stores, stats: stats, logg: logg}, nil
}

// Schema describes the externally filterable product fields.
func Schema() listing.Schema {
	return listing.Schema{
		Fields: map[string]listing.Field{
			"name":            {Column: "name", Kind: listing.KindString, Sortable: true, Filterable: true},
			"slug":            {Column: "slug", Kind: listing.KindString, Filterable: true},
			"price":           {Column: "price", Kind: listing.KindDecimal, Sortable: true, Filterable: true},
			"category":        {Column: "category", Kind: listing.KindString, Filterable: true},
			"subcategory":     {Column: "subcategory", Kind: listing.KindString, Filterable: true},
			"rating":          {Column: "rating", Kind: listing.KindFloat, Sortable: true, Filterable: true},
			"ratingsQuantity": {Column: "ratings_quantity", Kind: listing.KindInt, Sortable: true, Filterable: true},
			"quantity":        {Column: "quantity", Kind: listing.KindInt, Sortable: true, Filterable: true},
			"sales":           {Column: "sales", Kind: listing.KindInt, Sortable: true, Filterable: true},
			"isOnSale":        {Column: "is_on_sale", Kind: listing.KindBool, Filterable: true},
			"isFeatured":      {Column: "is_featured", Kind: listing.KindBool, Filterable: true},
			"store":           {Column: "store_id", Kind: listing.KindString, Filterable: true},
		},
		SoftDelete: true,
	}
}

func (s *service) List(ctx context.Context, params url.Values) ([]ProductDTO, error) {
	q, err := listing.Parse(params, Schema())
	if err != nil {
		return nil, err
	}
	page, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return FromModels(page), nil
}

func (s *service) ListByStore(ctx context.Context, storeID uuid.UUID, params url.Values) ([]ProductDTO, error) {
	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	q, err := listing.Parse(params, Schema())
	if err != nil {
		return nil, err
	}
	page, err := s.repo.ListByStore(ctx, storeID, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store products")
	}
	return FromModels(page), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return FromModel(product), nil
}

func (s *service) Create(ctx context.Context, actor access.Actor, input CreateProductInput) (*ProductDTO, error) {
	if err := validatePricing(input.Price, input.PriceDiscount); err != nil {
		return nil, err
	}

	store, err := s.stores.FindByID(ctx, input.StoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if err := access.CanManage(actor, store.OwnerID); err != nil {
		return nil, err
	}

	product := &models.Product{
		StoreID:        input.StoreID,
		Name:           input.Name,
		Slug:           slug.Make(input.Name),
		Description:    input.Description,
		Price:          input.Price,
		PriceDiscount:  input.PriceDiscount,
		Images:         imagesFromInput(input.Images),
		Category:       input.Category,
		Subcategory:    input.Subcategory,
		Quantity:       input.Quantity,
		Rating:         4.5,
		Specifications: input.Specifications,
		Active:         true,
	}
	if input.IsOnSale != nil {
		product.IsOnSale = *input.IsOnSale
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	s.recalculateStats(ctx, product.StoreID)

	return FromModel(product), nil
}

func (s *service) Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	store, err := s.stores.FindByID(ctx, product.StoreID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if err := access.CanManage(actor, store.OwnerID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
		product.Slug = slug.Make(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.PriceDiscount != nil {
		product.PriceDiscount = input.PriceDiscount
	}
	if err := validatePricing(product.Price, product.PriceDiscount); err != nil {
		return nil, err
	}
	if input.Images != nil {
		product.Images = imagesFromInput(*input.Images)
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Subcategory != nil {
		product.Subcategory = input.Subcategory
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.Rating != nil {
		rating, err := normalizeRating(*input.Rating)
		if err != nil {
			return nil, err
		}
		product.Rating = rating
	}
	if input.Specifications != nil {
		product.Specifications = *input.Specifications
	}
	if input.IsOnSale != nil {
		product.IsOnSale = *input.IsOnSale
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	s.recalculateStats(ctx, product.StoreID)

	return FromModel(product), nil
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	store, err := s.stores.FindByID(ctx, product.StoreID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if err := access.CanManage(actor, store.OwnerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}

	s.recalculateStats(ctx, product.StoreID)

	return nil
}

// recalculateStats refreshes the owning store's aggregates. Failures are
// logged and swallowed so a stats hiccup never fails the product write.
func (s *service) recalculateStats(ctx context.Context, storeID uuid.UUID) {
	if err := s.stats.Recalculate(ctx, storeID); err != nil && s.logg != nil {
		ctx = s.logg.WithStoreID(ctx, storeID.String())
		s.logg.Error(ctx, "store.stats_recalculate_failed", err)
	}
}

func validatePricing(price decimal.Decimal, discount *decimal.Decimal) error {
	if price.IsNegative() || price.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	}
	if discount != nil && discount.Cmp(price) >= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount price must be below the regular price")
	}
	return nil
}

func normalizeRating(rating float64) (float64, error) {
	rounded := math.Round(rating*10) / 10
	if rounded < 1 || rounded > 5 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1.0 and 5.0")
	}
	return rounded, nil
}
