package workflows

import (
	"context"
	"fmt"
	"net/http"
	"path"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/syspanel/syspanel/internal/common/httpx"
	"github.com/syspanel/syspanel/internal/panelsrv/compute"
	"github.com/syspanel/syspanel/internal/panelsrv/config"
	"github.com/syspanel/syspanel/internal/panelsrv/identity"
	"github.com/syspanel/syspanel/internal/panelsrv/pancommon"
	"github.com/syspanel/syspanel/pkg/api"
)

const projectsListPath = "/projects"

var projectValidator = validator.New(validator.WithRequiredStructEnabled())

// Handler serves the project workflow endpoints over the remote service
// clients.
type Handler struct {
	Identity identity.Client
	Compute  compute.Client
}

// NewHandler creates a workflow handler over the given service clients.
func NewHandler(idc identity.Client, cc compute.Client) *Handler {
	return &Handler{
		Identity: idc,
		Compute:  cc,
	}
}

// createProjectForm renders the create-project workflow. Initial values are
// the quota defaults of the operator's tenant, falling back to the configured
// default tenant; a compute failure flags the quota step and the workflow
// still renders.
func (h *Handler) createProjectForm(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	state := newState(createProjectDefinition())

	defaults, err := h.Compute.QuotaDefaults(ctx, defaultsTenantID(ctx))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("create workflow rendered without quota defaults")
		state.addStepError(stepQuota, "Unable to retrieve default quota values.")
	} else {
		state.setQuotaInitial(*defaults)
	}

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   state.response(),
	}, nil
}

// defaultsTenantID picks the tenant whose quota defaults seed the create
// form: the operator's own tenant when the front end injected one, otherwise
// the configured default.
func defaultsTenantID(ctx context.Context) string {
	if tenantID := pancommon.GetTenantID(ctx); tenantID != "" {
		return string(tenantID)
	}
	return config.Config().DefaultTenantID
}

// createProject applies a submitted create-project workflow: create the
// tenant, grant the member roles, set the quota. Tenant creation is the only
// hard failure; grant and quota failures degrade to warnings on an otherwise
// successful response.
func (h *Handler) createProject(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	req := api.ProjectReq{}
	if err := httpx.GetRequestData(r, &req); err != nil {
		return nil, err
	}
	if err := projectValidator.Struct(req); err != nil {
		return nil, httpx.ErrInvalidRequest("name is required and limited to 64 characters")
	}

	tenant, err := h.Identity.CreateTenant(ctx, identity.Tenant{
		Name:        req.Name,
		Description: req.Description,
		Enabled:     req.Enabled,
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("project", req.Name).Msg("project creation failed")
		return nil, err
	}

	var warnings []api.Message
	warnings = append(warnings, h.grantMembers(r, tenant.ID, req.Members)...)
	if quotaSubmitted(req.Quota) {
		if err := h.Compute.SetQuota(ctx, tenant.ID, req.Quota); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenant.ID).Msg("quota not applied to new project")
			warnings = append(warnings, api.WarningMessage("Unable to set project quota."))
		}
	}

	messages := append([]api.Message{
		api.SuccessMessage(fmt.Sprintf("Created new project %q.", tenant.Name)),
	}, warnings...)

	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   path.Join(projectsListPath, tenant.ID),
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

// grantMembers applies the role-to-users grants and reports each failed
// grant as a warning.
func (h *Handler) grantMembers(r *http.Request, tenantID string, members map[string][]string) []api.Message {
	ctx := r.Context()
	var warnings []api.Message
	for roleID, userIDs := range members {
		for _, userID := range userIDs {
			if err := h.Identity.AddTenantUserRole(ctx, tenantID, userID, roleID); err != nil {
				log.Ctx(ctx).Error().Err(err).
					Str("tenant_id", tenantID).Str("user_id", userID).Str("role_id", roleID).
					Msg("member grant not applied")
				warnings = append(warnings,
					api.WarningMessage(fmt.Sprintf("Unable to add user %s to the project.", userID)))
			}
		}
	}
	return warnings
}

// quotaSubmitted reports whether the form carried any quota value.
func quotaSubmitted(quota api.QuotaSet) bool {
	for _, f := range quota.Fields() {
		if f.Value.Valid {
			return true
		}
	}
	return false
}
