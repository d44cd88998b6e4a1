package stores

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EmilyGongVL/ecommerce-v1/internal/access"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/db"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/db/models"
	pkgerrors "github.com/EmilyGongVL/ecommerce-v1/pkg/errors"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/listing"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/slug"
)

const (
	topRatedLimit = 5
	curatedLimit  = 10
)

type storeRepository interface {
	Create(ctx context.Context, store *models.Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	List(ctx context.Context, q *listing.Query) ([]models.Store, error)
	TopRated(ctx context.Context, limit int) ([]models.Store, error)
	ListFlagged(ctx context.Context, column string, limit int) ([]models.Store, error)
	Update(ctx context.Context, store *models.Store) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes store operations.
type Service interface {
	List(ctx context.Context, params url.Values) ([]StoreDTO, error)
	TopRated(ctx context.Context) ([]StoreDTO, error)
	New(ctx context.Context) ([]StoreDTO, error)
	Upcoming(ctx context.Context) ([]StoreDTO, error)
	Starred(ctx context.Context) ([]StoreDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error)
	Create(ctx context.Context, actor access.Actor, input CreateStoreInput) (*StoreDTO, error)
	Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateStoreInput) (*StoreDTO, error)
	Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error
}

type service struct {
	repo storeRepository
}

// NewService builds a store service with the provided repository.
func NewService(repo storeRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo}, nil
}

// Schema describes the externally filterable store fields.
func Schema() listing.Schema {
	return listing.Schema{
		Fields: map[string]listing.Field{
			"name":            {Column: "name", Kind: listing.KindString, Sortable: true, Filterable: true},
			"slug":            {Column: "slug", Kind: listing.KindString, Filterable: true},
			"rating":          {Column: "rating", Kind: listing.KindFloat, Sortable: true, Filterable: true},
			"ratingsQuantity": {Column: "ratings_quantity", Kind: listing.KindInt, Sortable: true, Filterable: true},
			"sales":           {Column: "sales", Kind: listing.KindInt, Sortable: true, Filterable: true},
			"isNew":           {Column: "is_new", Kind: listing.KindBool, Filterable: true},
			"isUpcoming":      {Column: "is_upcoming", Kind: listing.KindBool, Filterable: true},
			"isStarred":       {Column: "is_starred", Kind: listing.KindBool, Filterable: true},
			"owner":           {Column: "owner_id", Kind: listing.KindString, Filterable: true},
		},
		SoftDelete: true,
	}
}

func (s *service) List(ctx context.Context, params url.Values) ([]StoreDTO, error) {
	q, err := listing.Parse(params, Schema())
	if err != nil {
		return nil, err
	}
	page, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	return FromModels(page), nil
}

func (s *service) TopRated(ctx context.Context) ([]StoreDTO, error) {
	page, err := s.repo.TopRated(ctx, topRatedLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list top rated stores")
	}
	return FromModels(page), nil
}

func (s *service) New(ctx context.Context) ([]StoreDTO, error) {
	return s.flagged(ctx, "is_new")
}

func (s *service) Upcoming(ctx context.Context) ([]StoreDTO, error) {
	return s.flagged(ctx, "is_upcoming")
}

func (s *service) Starred(ctx context.Context) ([]StoreDTO, error) {
	return s.flagged(ctx, "is_starred")
}

func (s *service) flagged(ctx context.Context, column string) ([]StoreDTO, error) {
	page, err := s.repo.ListFlagged(ctx, column, curatedLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list curated stores")
	}
	return FromModels(page), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return FromModel(store), nil
}

func (s *service) Create(ctx context.Context, actor access.Actor, input CreateStoreInput) (*StoreDTO, error) {
	store := &models.Store{
		Name:          input.Name,
		Slug:          slug.Make(input.Name),
		Description:   input.Description,
		ImageURL:      input.ImageURL,
		CoverImageURL: input.CoverImageURL,
		OwnerID:       actor.UserID,
		Rating:        4.5,
		Categories:    categoriesFromInput(input.Categories),
		Active:        true,
	}
	if input.Location != nil {
		store.Location = *input.Location
	}
	if input.IsNew != nil {
		store.IsNew = *input.IsNew
	}
	if input.IsUpcoming != nil {
		store.IsUpcoming = *input.IsUpcoming
	}
	if input.IsStarred != nil {
		store.IsStarred = *input.IsStarred
	}

	if err := s.repo.Create(ctx, store); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a store with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return FromModel(store), nil
}

func (s *service) Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateStoreInput) (*StoreDTO, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	if err := access.CanManage(actor, store.OwnerID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		store.Name = *input.Name
		store.Slug = slug.Make(*input.Name)
	}
	if input.Description != nil {
		store.Description = *input.Description
	}
	if input.ImageURL != nil {
		store.ImageURL = *input.ImageURL
	}
	if input.CoverImageURL != nil {
		store.CoverImageURL = input.CoverImageURL
	}
	if input.Categories != nil {
		store.Categories = categoriesFromInput(*input.Categories)
	}
	if input.Location != nil {
		store.Location = *input.Location
	}
	if input.IsNew != nil {
		store.IsNew = *input.IsNew
	}
	if input.IsUpcoming != nil {
		store.IsUpcoming = *input.IsUpcoming
	}
	if input.IsStarred != nil {
		store.IsStarred = *input.IsStarred
	}

	if err := s.repo.Update(ctx, store); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a store with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	return FromModel(store), nil
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	if err := access.CanManage(actor, store.OwnerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete store")
	}
	return nil
}
