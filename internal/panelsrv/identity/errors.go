package identity

import (
	"net/http"

	"github.com/syspanel/syspanel/internal/common/apperrors"
)

// Base identity error
var (
	ErrIdentityError apperrors.Error = apperrors.New("identity service error").SetStatusCode(http.StatusBadGateway)
)

// Not found errors
var (
	ErrTenantNotFound apperrors.Error = ErrIdentityError.New("tenant not found").SetStatusCode(http.StatusNotFound)
	ErrUserNotFound   apperrors.Error = ErrIdentityError.New("user not found").SetStatusCode(http.StatusNotFound)
	ErrRoleNotFound   apperrors.Error = ErrIdentityError.New("role not found").SetStatusCode(http.StatusNotFound)
)

// Ops errors
var (
	ErrUnableToListTenants  apperrors.Error = ErrIdentityError.New("unable to retrieve project list").SetExpandError(true)
	ErrUnableToGetTenant    apperrors.Error = ErrIdentityError.New("unable to retrieve project information").SetExpandError(true)
	ErrUnableToCreateTenant apperrors.Error = ErrIdentityError.New("unable to create project").SetExpandError(true)
	ErrUnableToUpdateTenant apperrors.Error = ErrIdentityError.New("unable to update project").SetExpandError(true)
	ErrUnableToDeleteTenant apperrors.Error = ErrIdentityError.New("unable to delete project").SetExpandError(true)
	ErrUnableToListUsers    apperrors.Error = ErrIdentityError.New("unable to retrieve users").SetExpandError(true)
	ErrUnableToListRoles    apperrors.Error = ErrIdentityError.New("unable to retrieve roles").SetExpandError(true)
	ErrUnableToModifyGrant  apperrors.Error = ErrIdentityError.New("unable to modify project membership").SetExpandError(true)
)

// Validation errors
var (
	ErrInvalidTenant apperrors.Error = apperrors.New("invalid project definition").SetStatusCode(http.StatusBadRequest).SetExpandError(true)
)
