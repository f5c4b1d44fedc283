package projects

import (
	"net/http"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/syspanel/syspanel/internal/common/httpx"
	"github.com/syspanel/syspanel/pkg/api"
)

// listProjects renders the tenant listing sorted by ID descending. An
// identity failure degrades to an empty listing with an error message; the
// listing page always renders.
func (h *Handler) listProjects(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	tenants, err := h.Identity.ListTenants(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("project listing degraded to empty")
		return &httpx.Response{
			StatusCode: http.StatusOK,
			Response: &api.ProjectListRsp{
				Projects: []api.Project{},
				Messages: []api.Message{api.ErrorMessage("Unable to retrieve project list.")},
			},
		}, nil
	}

	projects := toProjects(tenants)
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].ID > projects[j].ID
	})

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   &api.ProjectListRsp{Projects: projects},
	}, nil
}
