package projects

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/syspanel/syspanel/internal/common/httpx"
	"github.com/syspanel/syspanel/pkg/api"
)

// removeUser revokes the user's membership in the tenant. A failure sends
// the caller back to the membership page with a message rather than an error
// status.
func (h *Handler) removeUser(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	tenantID := chi.URLParam(r, "tenantID")
	userID := chi.URLParam(r, "userID")

	if err := h.Identity.RemoveTenantUser(ctx, tenantID, userID); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("tenant_id", tenantID).Str("user_id", userID).
			Msg("member removal failed")
		return redirectWithMessage(usersPath(tenantID), "Unable to remove user from project."), nil
	}

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: &api.MessagesRsp{
			Messages: []api.Message{api.SuccessMessage("Successfully removed user from project.")},
		},
	}, nil
}

// deleteProject deletes the tenant. A failure sends the caller back to the
// listing with a message.
func (h *Handler) deleteProject(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	tenantID := chi.URLParam(r, "tenantID")

	if err := h.Identity.DeleteTenant(ctx, tenantID); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenantID).Msg("project delete failed")
		return redirectWithMessage(projectsListPath, "Unable to delete project."), nil
	}

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: &api.MessagesRsp{
			Messages: []api.Message{api.SuccessMessage("Successfully deleted project.")},
		},
	}, nil
}
