package stores

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

type stubStoreRepo struct {
	stores  map[uuid.UUID]*models.Store
	created *models.Store
	updated *models.Store
	deleted []uuid.UUID
	listErr error
	flagged map[string][]models.Store
}

func newStubStoreRepo() *stubStoreRepo {
	return &stubStoreRepo{stores: map[uuid.UUID]*models.Store{}, flagged: map[string][]models.Store{}}
}

func (s *stubStoreRepo) Create(_ context.Context, store *models.Store) error {
	store.ID = uuid.New()
	s.created = store
	s.stores[store.ID] = store
	return nil
}

func (s *stubStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Store, error) {
	store, ok := s.stores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return store, nil
}

func (s *stubStoreRepo) List(_ context.Context, _ *listing.Query) ([]models.Store, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Store
	for _, store := range s.stores {
		out = append(out, *store)
	}
	return out, nil
}

func (s *stubStoreRepo) TopRated(_ context.Context, limit int) ([]models.Store, error) {
	return s.flagged["top"], nil
}

func (s *stubStoreRepo) ListFlagged(_ context.Context, column string, limit int) ([]models.Store, error) {
	return s.flagged[column], nil
}

func (s *stubStoreRepo) Update(_ context.Context, store *models.Store) error {
	s.updated = store
	s.stores[store.ID] = store
	return nil
}

func (s *stubStoreRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	delete(s.stores, id)
	return nil
}

func seller(id uuid.UUID) access.Actor {
	return access.Actor{UserID: id, Role: enums.UserRoleSeller}
}

func TestCreateStoreSlugsName(t *testing.T) {
	repo := newStubStoreRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	owner := uuid.New()
	dto, err := svc.Create(context.Background(), seller(owner), CreateStoreInput{
		Name:        "Green Valley Farms",
		Description: "produce",
		ImageURL:    "store.jpg",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if dto.Slug != "green-valley-farms" {
		t.Fatalf("slug = %q", dto.Slug)
	}
	if repo.created.OwnerID != owner {
		t.Fatalf("owner = %s, want actor id", repo.created.OwnerID)
	}
	if repo.created.Rating != 4.5 {
		t.Fatalf("default rating = %v", repo.created.Rating)
	}
	if !repo.created.Active {
		t.Fatal("new store must be active")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := NewService(newStubStoreRepo())
	_, err := svc.GetByID(context.Background(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestUpdateStoreEnforcesOwnership(t *testing.T) {
	repo := newStubStoreRepo()
	owner := uuid.New()
	storeID := uuid.New()
	repo.stores[storeID] = &models.Store{ID: storeID, Name: "Mine", OwnerID: owner, Active: true}

	svc, _ := NewService(repo)

	name := "Renamed Store"
	_, err := svc.Update(context.Background(), seller(uuid.New()), storeID, UpdateStoreInput{Name: &name})
	if !pkgerrors.HasCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("stranger err = %v, want forbidden", err)
	}

	dto, err := svc.Update(context.Background(), seller(owner), storeID, UpdateStoreInput{Name: &name})
	if err != nil {
		t.Fatalf("owner Update() error = %v", err)
	}
	if dto.Name != "Renamed Store" || dto.Slug != "renamed-store" {
		t.Fatalf("dto = %+v", dto)
	}

	admin := access.Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
	if _, err := svc.Update(context.Background(), admin, storeID, UpdateStoreInput{}); err != nil {
		t.Fatalf("admin Update() error = %v", err)
	}
}

func TestDeleteStoreEnforcesOwnership(t *testing.T) {
	repo := newStubStoreRepo()
	owner := uuid.New()
	storeID := uuid.New()
	repo.stores[storeID] = &models.Store{ID: storeID, OwnerID: owner, Active: true}

	svc, _ := NewService(repo)

	err := svc.Delete(context.Background(), seller(uuid.New()), storeID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}

	if err := svc.Delete(context.Background(), seller(owner), storeID); err != nil {
		t.Fatalf("owner Delete() error = %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != storeID {
		t.Fatalf("deleted = %v", repo.deleted)
	}
}

func TestListRejectsUnknownFilter(t *testing.T) {
	svc, _ := NewService(newStubStoreRepo())
	_, err := svc.List(context.Background(), url.Values{"warehouse": {"east"}})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestListWrapsRepoError(t *testing.T) {
	repo := newStubStoreRepo()
	repo.listErr = errors.New("connection reset")
	svc, _ := NewService(repo)

	_, err := svc.List(context.Background(), url.Values{})
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("err = %v, want dependency error", err)
	}
}

func TestCuratedReads(t *testing.T) {
	repo := newStubStoreRepo()
	repo.flagged["top"] = []models.Store{{Name: "Best"}}
	repo.flagged["is_new"] = []models.Store{{Name: "Fresh"}}
	repo.flagged["is_upcoming"] = []models.Store{{Name: "Soon"}}
	repo.flagged["is_starred"] = []models.Store{{Name: "Picked"}}

	svc, _ := NewService(repo)
	ctx := context.Background()

	top, err := svc.TopRated(ctx)
	if err != nil || len(top) != 1 || top[0].Name != "Best" {
		t.Fatalf("TopRated = %v, %v", top, err)
	}
	fresh, err := svc.New(ctx)
	if err != nil || len(fresh) != 1 || fresh[0].Name != "Fresh" {
		t.Fatalf("New = %v, %v", fresh, err)
	}
	soon, err := svc.Upcoming(ctx)
	if err != nil || len(soon) != 1 || soon[0].Name != "Soon" {
		t.Fatalf("Upcoming = %v, %v", soon, err)
	}
	picked, err := svc.Starred(ctx)
	if err != nil || len(picked) != 1 || picked[0].Name != "Picked" {
		t.Fatalf("Starred = %v, %v", picked, err)
	}
}
