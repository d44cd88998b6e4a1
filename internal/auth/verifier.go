package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/EmilyGongVL/ecommerce-v1/pkg/errors"
)

// Verifier backs the auth middleware's token checks against user state.
type Verifier struct {
	users userRepository
}

// NewVerifier builds a user verifier for the auth middleware.
func NewVerifier(repo userRepository) (*Verifier, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &Verifier{users: repo}, nil
}

// VerifyUser confirms the token's subject still exists, is active, and has
// not rotated their password since the token was issued.
func (v *Verifier) VerifyUser(ctx context.Context, userID uuid.UUID, issuedAt time.Time) error {
	user, err := v.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "the user belonging to this token no longer exists")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.Active {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "this account has been deactivated")
	}
	if user.PasswordChangedAt != nil && issuedAt.Before(*user.PasswordChangedAt) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "password was changed recently, please log in again")
	}
	return nil
}
