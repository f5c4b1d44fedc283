package projects

import (
	"net/http"
	"path"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/syspanel/syspanel/internal/common/httpx"
	"github.com/syspanel/syspanel/pkg/api"
	"github.com/syspanel/syspanel/pkg/types"
)

var addUserValidator = validator.New(validator.WithRequiredStructEnabled())

// usersPath returns the membership page of a tenant.
func usersPath(tenantID string) string {
	return path.Join(projectsListPath, tenantID, "users")
}

// addUserForm renders the add-user form: the assignable roles sorted by ID
// ascending, plus prefilled initial values. The role preselects the identity
// service's default role when one exists and stays null otherwise.
func (h *Handler) addUserForm(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	tenantID := chi.URLParam(r, "tenantID")
	userID := chi.URLParam(r, "userID")

	if _, err := h.Identity.GetTenant(ctx, tenantID); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenantID).Msg("add-user form redirecting to listing")
		return redirectWithMessage(projectsListPath, "Unable to retrieve project information."), nil
	}

	roles, err := h.Identity.ListRoles(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenantID).Msg("add-user form redirecting to users view")
		return redirectWithMessage(usersPath(tenantID), "Unable to retrieve roles."), nil
	}
	sort.Slice(roles, func(i, j int) bool {
		return roles[i].ID < roles[j].ID
	})

	initial := api.AddUserInitial{
		TenantID: tenantID,
		UserID:   userID,
		RoleID:   types.NullString(),
	}
	// A missing default role leaves the selection empty rather than failing
	// the form.
	if role, err := h.Identity.DefaultRole(ctx); err == nil {
		initial.RoleID = types.NullableStringFrom(role.ID)
	}

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: &api.AddUserFormRsp{
			Roles:   toRoles(roles),
			Initial: initial,
		},
	}, nil
}

// addUser grants the submitted role to the user within the tenant and sends
// the caller back to the membership page.
func (h *Handler) addUser(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	tenantID := chi.URLParam(r, "tenantID")
	userID := chi.URLParam(r, "userID")

	req := api.AddUserReq{}
	if err := httpx.GetRequestData(r, &req); err != nil {
		return nil, err
	}
	if err := addUserValidator.Struct(req); err != nil {
		return nil, httpx.ErrInvalidRequest("role_id is required")
	}

	if err := h.Identity.AddTenantUserRole(ctx, tenantID, userID, req.RoleID); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("tenant_id", tenantID).Str("user_id", userID).
			Msg("role grant failed")
		return redirectWithMessage(usersPath(tenantID), "Unable to add user to project."), nil
	}

	return &httpx.Response{
		StatusCode: http.StatusSeeOther,
		Location:   usersPath(tenantID),
		Response: &api.MessagesRsp{
			Messages: []api.Message{api.SuccessMessage("Successfully added user to project.")},
		},
	}, nil
}
