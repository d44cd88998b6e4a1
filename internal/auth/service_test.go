package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EmilyGongVL/ecommerce-v1/internal/access"
	pkgauth "github.com/EmilyGongVL/ecommerce-v1/pkg/auth"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/config"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/db/models"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/enums"
	pkgerrors "github.com/EmilyGongVL/ecommerce-v1/pkg/errors"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
	updates map[string]any
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: map[string]*models.User{},
		byID:    map[uuid.UUID]*models.User{},
	}
}

func (s *stubUserRepo) Create(_ context.Context, user *models.User) error {
	if _, exists := s.byEmail[user.Email]; exists {
		return errors.New(`duplicate key value violates unique constraint "users_email_key"`)
	}
	user.ID = uuid.New()
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
	return nil
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.byID[id]
	if !ok || !user.Active {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) Update(_ context.Context, id uuid.UUID, fields map[string]any) error {
	if _, ok := s.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.updates = fields
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "vivamarket-test", ExpirationMinutes: 60}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T) (*stubUserRepo, Service) {
	t.Helper()
	repo := newStubUserRepo()
	svc, err := NewService(repo, testJWTConfig(), testPasswordConfig())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return repo, svc
}

func signup(t *testing.T, svc Service, email, password string) *Session {
	t.Helper()
	session, err := svc.Signup(context.Background(), SignupInput{
		Name:            "Ana",
		Email:           email,
		Password:        password,
		PasswordConfirm: password,
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	return session
}

func TestSignupMintsUsableToken(t *testing.T) {
	repo, svc := newTestService(t)

	session := signup(t, svc, " Ana@Example.COM ", "correct horse battery")

	if _, ok := repo.byEmail["ana@example.com"]; !ok {
		t.Fatal("email was not normalized before persisting")
	}
	if session.User.Role != enums.UserRoleUser {
		t.Fatalf("role = %q", session.User.Role)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), session.Token)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != session.User.ID {
		t.Fatal("token subject mismatch")
	}
}

func TestSignupPasswordMismatch(t *testing.T) {
	_, svc := newTestService(t)

	_, err := svc.Signup(context.Background(), SignupInput{
		Name:            "Ana",
		Email:           "ana@example.com",
		Password:        "one password",
		PasswordConfirm: "another password",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	_, svc := newTestService(t)
	signup(t, svc, "ana@example.com", "correct horse battery")

	_, err := svc.Signup(context.Background(), SignupInput{
		Name:            "Other",
		Email:           "ana@example.com",
		Password:        "correct horse battery",
		PasswordConfirm: "correct horse battery",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	_, svc := newTestService(t)
	signup(t, svc, "ana@example.com", "correct horse battery")

	session, err := svc.Login(context.Background(), LoginInput{
		Email:    "ANA@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Token == "" {
		t.Fatal("no token minted")
	}

	_, err = svc.Login(context.Background(), LoginInput{
		Email:    "ana@example.com",
		Password: "wrong password",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	_, err = svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "correct horse battery",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	repo, svc := newTestService(t)
	session := signup(t, svc, "ana@example.com", "correct horse battery")
	repo.byID[session.User.ID].Active = false

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "ana@example.com",
		Password: "correct horse battery",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestChangePasswordStampsRotation(t *testing.T) {
	repo, svc := newTestService(t)
	session := signup(t, svc, "ana@example.com", "correct horse battery")
	actor := access.Actor{UserID: session.User.ID, Role: enums.UserRoleUser}

	_, err := svc.ChangePassword(context.Background(), actor, ChangePasswordInput{
		CurrentPassword: "wrong password",
		NewPassword:     "fresh new password",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for bad current password, got %v", err)
	}

	fresh, err := svc.ChangePassword(context.Background(), actor, ChangePasswordInput{
		CurrentPassword: "correct horse battery",
		NewPassword:     "fresh new password",
	})
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if fresh.Token == "" {
		t.Fatal("no token minted after rotation")
	}
	if _, ok := repo.updates["password_changed_at"]; !ok {
		t.Fatal("password_changed_at was not stamped")
	}
}

func TestVerifierRejectsStaleTokens(t *testing.T) {
	repo, _ := newTestService(t)
	verifier, err := NewVerifier(repo)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	changed := time.Now().UTC()
	userID := uuid.New()
	repo.byID[userID] = &models.User{ID: userID, Active: true, PasswordChangedAt: &changed}

	err = verifier.VerifyUser(context.Background(), userID, changed.Add(-time.Minute))
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected stale token rejection, got %v", err)
	}
	if err := verifier.VerifyUser(context.Background(), userID, changed.Add(time.Minute)); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}

	err = verifier.VerifyUser(context.Background(), uuid.New(), time.Now())
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected rejection for unknown user, got %v", err)
	}
}
