package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/EmilyGongVL/ecommerce-v1/api/middleware"
	"github.com/EmilyGongVL/ecommerce-v1/internal/access"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/enums"
	pkgerrors "github.com/EmilyGongVL/ecommerce-v1/pkg/errors"
)

// actorFromRequest rebuilds the authenticated actor seeded by the auth
// middleware.
func actorFromRequest(r *http.Request) (access.Actor, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return access.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return access.Actor{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return access.Actor{}, pkgerrors.New(pkgerrors.CodeForbidden, "role context missing")
	}
	return access.Actor{UserID: id, Role: role}, nil
}

// pathUUID parses the named chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}
