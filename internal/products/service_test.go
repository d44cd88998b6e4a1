package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/EmilyGongVL/ecommerce-v1/internal/access"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/db/models"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/enums"
	pkgerrors "github.com/EmilyGongVL/ecommerce-v1/pkg/errors"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/listing"
)

type stubProductRepo struct {
	products map[uuid.UUID]*models.Product
	created  *models.Product
	updated  *models.Product
	deleted  []uuid.UUID
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: map[uuid.UUID]*models.Product{}}
}

func (s *stubProductRepo) Create(_ context.Context, product *models.Product) error {
	product.ID = uuid.New()
	s.created = product
	s.products[product.ID] = product
	return nil
}

func (s *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubProductRepo) List(_ context.Context, _ *listing.Query) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubProductRepo) ListByStore(_ context.Context, storeID uuid.UUID, _ *listing.Query) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if p.StoreID == storeID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubProductRepo) Update(_ context.Context, product *models.Product) error {
	s.updated = product
	s.products[product.ID] = product
	return nil
}

func (s *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	delete(s.products, id)
	return nil
}

type stubStoreFinder struct {
	stores map[uuid.UUID]*models.Store
}

func (s *stubStoreFinder) FindByID(_ context.Context, id uuid.UUID) (*models.Store, error) {
	store, ok := s.stores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return store, nil
}

type stubStats struct {
	calls []uuid.UUID
	err   error
}

func (s *stubStats) Recalculate(_ context.Context, storeID uuid.UUID) error {
	s.calls = append(s.calls, storeID)
	return s.err
}

type fixture struct {
	svc     Service
	repo    *stubProductRepo
	stats   *stubStats
	storeID uuid.UUID
	ownerID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newStubProductRepo()
	stats := &stubStats{}
	ownerID := uuid.New()
	storeID := uuid.New()
	stores := &stubStoreFinder{stores: map[uuid.UUID]*models.Store{
		storeID: {ID: storeID, OwnerID: ownerID, Active: true},
	}}
	svc, err := NewService(repo, stores, stats, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &fixture{svc: svc, repo: repo, stats: stats, storeID: storeID, ownerID: ownerID}
}

func (f *fixture) owner() access.Actor {
	return access.Actor{UserID: f.ownerID, Role: enums.UserRoleSeller}
}

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestCreateProductTriggersStatsRecalc(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Create(context.Background(), f.owner(), CreateProductInput{
		StoreID:     f.storeID,
		Name:        "Organic Honey",
		Description: "raw honey",
		Price:       price("12.50"),
		Category:    "food",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if dto.Slug != "organic-honey" {
		t.Fatalf("slug = %q", dto.Slug)
	}
	if len(f.stats.calls) != 1 || f.stats.calls[0] != f.storeID {
		t.Fatalf("stats calls = %v", f.stats.calls)
	}
}

func TestCreateProductRejectsBadPricing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.owner(), CreateProductInput{
		StoreID: f.storeID, Name: "Zero", Description: "d", Price: price("0"), Category: "c",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("zero price err = %v", err)
	}

	discount := price("20.00")
	_, err = f.svc.Create(context.Background(), f.owner(), CreateProductInput{
		StoreID: f.storeID, Name: "Bad Discount", Description: "d",
		Price: price("10.00"), PriceDiscount: &discount, Category: "c",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("discount err = %v", err)
	}
}

func TestCreateProductEnforcesStoreOwnership(t *testing.T) {
	f := newFixture(t)

	stranger := access.Actor{UserID: uuid.New(), Role: enums.UserRoleSeller}
	_, err := f.svc.Create(context.Background(), stranger, CreateProductInput{
		StoreID: f.storeID, Name: "Sneaky", Description: "d", Price: price("5"), Category: "c",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if len(f.stats.calls) != 0 {
		t.Fatal("stats must not run on rejected create")
	}
}

func TestUpdateProductNormalizesRating(t *testing.T) {
	f := newFixture(t)
	productID := uuid.New()
	f.repo.products[productID] = &models.Product{
		ID: productID, StoreID: f.storeID, Name: "Item", Price: price("10"), Active: true,
	}

	rating := 4.26
	dto, err := f.svc.Update(context.Background(), f.owner(), productID, UpdateProductInput{Rating: &rating})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if dto.Rating != 4.3 {
		t.Fatalf("rating = %v, want 4.3", dto.Rating)
	}

	bad := 5.6
	_, err = f.svc.Update(context.Background(), f.owner(), productID, UpdateProductInput{Rating: &bad})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("out of range err = %v", err)
	}
}

func TestDeleteProductTriggersStatsRecalc(t *testing.T) {
	f := newFixture(t)
	productID := uuid.New()
	f.repo.products[productID] = &models.Product{
		ID: productID, StoreID: f.storeID, Price: price("10"), Active: true,
	}

	if err := f.svc.Delete(context.Background(), f.owner(), productID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(f.repo.deleted) != 1 {
		t.Fatalf("deleted = %v", f.repo.deleted)
	}
	if len(f.stats.calls) != 1 {
		t.Fatalf("stats calls = %v", f.stats.calls)
	}
}

func TestStatsFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture(t)
	f.stats.err = pkgerrors.New(pkgerrors.CodeDependency, "db busy")

	_, err := f.svc.Create(context.Background(), f.owner(), CreateProductInput{
		StoreID: f.storeID, Name: "Resilient", Description: "d", Price: price("5"), Category: "c",
	})
	if err != nil {
		t.Fatalf("Create() error = %v, stats failure must be swallowed", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetByID(context.Background(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestListByStoreUnknownStore(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ListByStore(context.Background(), uuid.New(), nil)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}
