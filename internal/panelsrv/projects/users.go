package projects

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/syspanel/syspanel/internal/common/httpx"
	"github.com/syspanel/syspanel/pkg/api"
)

// projectUsers renders the tenant's membership view: current members plus
// the users that can still be added. The tenant, member list, and full user
// list are fetched once and both tables render from that snapshot. Any fetch
// failure redirects back to the listing.
func (h *Handler) projectUsers(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	tenantID := chi.URLParam(r, "tenantID")

	shared, err := h.loadSharedData(ctx, tenantID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenantID).Msg("users view redirecting to listing")
		return redirectWithMessage(projectsListPath, "Unable to retrieve users."), nil
	}

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: &api.ProjectUsersRsp{
			Tenant:       toProject(shared.Tenant),
			Members:      toUsers(shared.Members),
			AddableUsers: toUsers(addableUsers(shared.AllUsers, shared.Members)),
		},
	}, nil
}
