package workflows

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/syspanel/syspanel/internal/common/httpx"
	"github.com/syspanel/syspanel/internal/panelsrv/identity"
	"github.com/syspanel/syspanel/pkg/api"
)

// projectInfo is the flattening shape of the editable tenant fields.
type projectInfo struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Enabled     bool   `mapstructure:"enabled"`
}

// updateProjectForm renders the update-project workflow prefilled with the
// tenant's current info fields and quota. The initial map carries exactly
// the fetched fields; quota limits the service never reported stay null. A
// fetch failure redirects back to the listing.
func (h *Handler) updateProjectForm(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	tenantID := chi.URLParam(r, "tenantID")
	state := newState(updateProjectDefinition())
	state.setInitial("project_id", tenantID)

	tenant, err := h.Identity.GetTenant(ctx, tenantID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenantID).Msg("update workflow redirecting to listing")
		return redirectWithMessage(projectsListPath, "Unable to retrieve project details."), nil
	}
	if err := state.setInitialFrom(projectInfo{
		Name:        tenant.Name,
		Description: tenant.Description,
		Enabled:     tenant.Enabled,
	}); err != nil {
		return nil, httpx.ErrApplicationError(err.Error())
	}

	quota, qerr := h.Compute.GetQuota(ctx, tenantID)
	if qerr != nil {
		log.Ctx(ctx).Error().Err(qerr).Str("tenant_id", tenantID).Msg("update workflow redirecting to listing")
		return redirectWithMessage(projectsListPath, "Unable to retrieve project details."), nil
	}
	state.setQuotaInitial(*quota)

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   state.response(),
	}, nil
}

// updateProject applies a submitted update-project workflow: update the
// tenant info, reconcile the member grants against the submitted
// role-to-users map, and set the quota. The tenant update is the only hard
// failure; membership and quota failures degrade to warnings.
func (h *Handler) updateProject(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	tenantID := chi.URLParam(r, "tenantID")

	req := api.ProjectReq{}
	if err := httpx.GetRequestData(r, &req); err != nil {
		return nil, err
	}
	if err := projectValidator.Struct(req); err != nil {
		return nil, httpx.ErrInvalidRequest("name is required and limited to 64 characters")
	}

	tenant, err := h.Identity.UpdateTenant(ctx, identity.Tenant{
		ID:          tenantID,
		Name:        req.Name,
		Description: req.Description,
		Enabled:     req.Enabled,
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenantID).Msg("project update failed")
		return nil, err
	}

	var warnings []api.Message
	// A submission without a members map leaves membership untouched.
	if req.Members != nil {
		warnings = append(warnings, h.reconcileMembers(r, tenantID, req.Members)...)
	}
	if quotaSubmitted(req.Quota) {
		if err := h.Compute.SetQuota(ctx, tenantID, req.Quota); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenantID).Msg("quota not applied")
			warnings = append(warnings, api.WarningMessage("Unable to set project quota."))
		}
	}

	messages := append([]api.Message{
		api.SuccessMessage(fmt.Sprintf("Modified project %q.", tenant.Name)),
	}, warnings...)

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: &api.ProjectRsp{
			Project: api.Project{
				ID:          tenant.ID,
				Name:        tenant.Name,
				Description: tenant.Description,
				Enabled:     tenant.Enabled,
			},
			Messages: messages,
		},
	}, nil
}

// reconcileMembers diffs the submitted role-to-users grants against the
// tenant's current members: users absent from the submission are removed,
// submitted grants are applied. Each failed step degrades to a warning.
func (h *Handler) reconcileMembers(r *http.Request, tenantID string, members map[string][]string) []api.Message {
	ctx := r.Context()
	var warnings []api.Message

	desired := make(map[string]bool)
	for _, userIDs := range members {
		for _, userID := range userIDs {
			desired[userID] = true
		}
	}

	current, err := h.Identity.ListTenantUsers(ctx, tenantID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenantID).Msg("membership reconcile skipped removals")
		warnings = append(warnings, api.WarningMessage("Unable to retrieve current project members."))
		current = nil
	}
	for _, member := range current {
		if desired[member.ID] {
			continue
		}
		if err := h.Identity.RemoveTenantUser(ctx, tenantID, member.ID); err != nil {
			log.Ctx(ctx).Error().Err(err).
				Str("tenant_id", tenantID).Str("user_id", member.ID).
				Msg("member removal not applied")
			warnings = append(warnings,
				api.WarningMessage(fmt.Sprintf("Unable to remove user %s from the project.", member.ID)))
		}
	}

	warnings = append(warnings, h.grantMembers(r, tenantID, members)...)
	return warnings
}

// redirectWithMessage builds a 303 response to the given panel page carrying
// the error message inline.
func redirectWithMessage(location string, text string) *httpx.Response {
	return &httpx.Response{
		StatusCode: http.StatusSeeOther,
		Location:   location,
		Response: &api.MessagesRsp{
			Messages: []api.Message{api.ErrorMessage(text)},
		},
	}
}
