package users

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EmilyGongVL/ecommerce-v1/internal/access"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/db/models"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/enums"
	pkgerrors "github.com/EmilyGongVL/ecommerce-v1/pkg/errors"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/listing"
)

type stubUserRepo struct {
	users        map[uuid.UUID]*models.User
	updates      map[string]any
	saved        map[uuid.UUID]map[uuid.UUID]bool
	addErr       error
	wishlistDTOs []WishlistItemDTO
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users: map[uuid.UUID]*models.User{},
		saved: map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) List(_ context.Context, _ *listing.Query) ([]models.User, error) {
	var out []models.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUserRepo) Update(_ context.Context, id uuid.UUID, fields map[string]any) error {
	if _, ok := s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.updates = fields
	if email, ok := fields["email"].(string); ok {
		s.users[id].Email = email
	}
	if name, ok := fields["name"].(string); ok {
		s.users[id].Name = name
	}
	return nil
}

func (s *stubUserRepo) AddWishlistItem(_ context.Context, userID, productID uuid.UUID) (*models.WishlistItem, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	if s.saved[userID] == nil {
		s.saved[userID] = map[uuid.UUID]bool{}
	}
	s.saved[userID][productID] = true
	return &models.WishlistItem{ID: uuid.New(), UserID: userID, ProductID: productID}, nil
}

func (s *stubUserRepo) RemoveWishlistItem(_ context.Context, userID, productID uuid.UUID) error {
	if !s.saved[userID][productID] {
		return gorm.ErrRecordNotFound
	}
	delete(s.saved[userID], productID)
	return nil
}

func (s *stubUserRepo) ListWishlist(_ context.Context, _ uuid.UUID) ([]WishlistItemDTO, error) {
	return s.wishlistDTOs, nil
}

type stubProductFinder struct {
	known map[uuid.UUID]bool
}

func (s *stubProductFinder) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if !s.known[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Product{ID: id}, nil
}

func fixture(t *testing.T) (*stubUserRepo, *stubProductFinder, Service, access.Actor) {
	t.Helper()
	repo := newStubUserRepo()
	products := &stubProductFinder{known: map[uuid.UUID]bool{}}
	svc, err := NewService(repo, products)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	userID := uuid.New()
	repo.users[userID] = &models.User{ID: userID, Name: "Ana", Email: "ana@example.com", Role: enums.UserRoleUser}
	return repo, products, svc, access.Actor{UserID: userID, Role: enums.UserRoleUser}
}

func TestMeReturnsProfile(t *testing.T) {
	_, _, svc, actor := fixture(t)

	dto, err := svc.Me(context.Background(), actor)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if dto.Email != "ana@example.com" {
		t.Fatalf("email = %q", dto.Email)
	}
}

func TestMeUnknownUser(t *testing.T) {
	_, _, svc, _ := fixture(t)

	_, err := svc.Me(context.Background(), access.Actor{UserID: uuid.New(), Role: enums.UserRoleUser})
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateMeNormalizesEmail(t *testing.T) {
	repo, _, svc, actor := fixture(t)

	email := "  ANA+new@Example.COM "
	dto, err := svc.UpdateMe(context.Background(), actor, UpdateMeInput{Email: &email})
	if err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}
	if got := repo.updates["email"]; got != "ana+new@example.com" {
		t.Fatalf("persisted email = %v", got)
	}
	if dto.Email != "ana+new@example.com" {
		t.Fatalf("returned email = %q", dto.Email)
	}
}

func TestUpdateMeEmptyInput(t *testing.T) {
	_, _, svc, actor := fixture(t)

	_, err := svc.UpdateMe(context.Background(), actor, UpdateMeInput{})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListRejectsUnknownFilter(t *testing.T) {
	_, _, svc, _ := fixture(t)

	_, err := svc.List(context.Background(), url.Values{"passwordHash": {"x"}})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddToWishlist(t *testing.T) {
	repo, products, svc, actor := fixture(t)
	productID := uuid.New()
	products.known[productID] = true

	if err := svc.AddToWishlist(context.Background(), actor, productID); err != nil {
		t.Fatalf("AddToWishlist: %v", err)
	}
	if !repo.saved[actor.UserID][productID] {
		t.Fatal("item not persisted")
	}
}

func TestAddToWishlistUnknownProduct(t *testing.T) {
	_, _, svc, actor := fixture(t)

	err := svc.AddToWishlist(context.Background(), actor, uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddToWishlistTwiceIsIdempotent(t *testing.T) {
	repo, products, svc, actor := fixture(t)
	productID := uuid.New()
	products.known[productID] = true

	repo.addErr = errors.New(`duplicate key value violates unique constraint "wishlist_items_user_product_key"`)
	if err := svc.AddToWishlist(context.Background(), actor, productID); err != nil {
		t.Fatalf("duplicate add should succeed, got %v", err)
	}
}

func TestRemoveFromWishlist(t *testing.T) {
	repo, products, svc, actor := fixture(t)
	productID := uuid.New()
	products.known[productID] = true
	repo.saved[actor.UserID] = map[uuid.UUID]bool{productID: true}

	if err := svc.RemoveFromWishlist(context.Background(), actor, productID); err != nil {
		t.Fatalf("RemoveFromWishlist: %v", err)
	}

	err := svc.RemoveFromWishlist(context.Background(), actor, productID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found on second remove, got %v", err)
	}
}
