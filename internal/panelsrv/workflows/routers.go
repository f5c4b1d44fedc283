package workflows

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/syspanel/syspanel/internal/common/httpx"
)

type responseHandlerParam struct {
	Method  string
	Path    string
	Handler httpx.RequestHandler
}

// Router registers the project workflow endpoints on the given router.
func (h *Handler) Router(r chi.Router) chi.Router {
	handlers := []responseHandlerParam{
		{
			Method:  http.MethodGet,
			Path:    "/projects/create",
			Handler: h.createProjectForm,
		},
		{
			Method:  http.MethodPost,
			Path:    "/projects/create",
			Handler: h.createProject,
		},
		{
			Method:  http.MethodGet,
			Path:    "/projects/{tenantID}/update",
			Handler: h.updateProjectForm,
		},
		{
			Method:  http.MethodPost,
			Path:    "/projects/{tenantID}/update",
			Handler: h.updateProject,
		},
	}
	for _, handler := range handlers {
		r.Method(handler.Method, handler.Path, httpx.WrapHttpRsp(handler.Handler))
	}
	return r
}
