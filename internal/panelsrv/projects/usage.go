package projects

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/syspanel/syspanel/internal/common/httpx"
	"github.com/syspanel/syspanel/pkg/api"
)

// tenantUsage renders the per-instance usage report for the tenant. A
// compute failure degrades to an empty report with a message.
func (h *Handler) tenantUsage(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	tenantID := chi.URLParam(r, "tenantID")

	rsp := &api.UsageRsp{
		TenantID:  tenantID,
		Instances: []api.InstanceUsage{},
	}
	instances, err := h.Compute.TenantUsage(ctx, tenantID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenantID).Msg("usage view degraded to empty")
		rsp.Messages = append(rsp.Messages, api.ErrorMessage("Unable to retrieve usage information."))
	} else if len(instances) > 0 {
		rsp.Instances = instances
	}

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}
