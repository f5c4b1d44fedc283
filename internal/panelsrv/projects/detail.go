package projects

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/syspanel/syspanel/internal/common/httpx"
	"github.com/syspanel/syspanel/pkg/api"
)

// getProject renders a single project with its current quota. A missing
// tenant redirects back to the listing; a quota failure degrades to a null
// quota with a message.
func (h *Handler) getProject(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	tenantID := chi.URLParam(r, "tenantID")

	tenant, err := h.Identity.GetTenant(ctx, tenantID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenantID).Msg("project detail redirecting to listing")
		return redirectWithMessage(projectsListPath, "Unable to retrieve project information."), nil
	}

	rsp := &api.ProjectDetailRsp{Project: toProject(*tenant)}
	quota, err := h.Compute.GetQuota(ctx, tenantID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenantID).Msg("project detail rendered without quota")
		rsp.Messages = append(rsp.Messages, api.ErrorMessage("Unable to retrieve project quota."))
	} else {
		rsp.Quota = *quota
	}

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
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
