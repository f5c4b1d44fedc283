package projects

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

// Router registers the project panel endpoints on the given router.
func (h *Handler) Router(r chi.Router) chi.Router {
	handlers := []responseHandlerParam{
		{
			Method:  http.MethodGet,
			Path:    "/projects",
			Handler: h.listProjects,
		},
		{
			Method:  http.MethodGet,
			Path:    "/projects/{tenantID}",
			Handler: h.getProject,
		},
		{
			Method:  http.MethodDelete,
			Path:    "/projects/{tenantID}",
			Handler: h.deleteProject,
		},
		{
			Method:  http.MethodGet,
			Path:    "/projects/{tenantID}/users",
			Handler: h.projectUsers,
		},
		{
			Method:  http.MethodGet,
			Path:    "/projects/{tenantID}/users/{userID}/add",
			Handler: h.addUserForm,
		},
		{
			Method:  http.MethodPost,
			Path:    "/projects/{tenantID}/users/{userID}/add",
			Handler: h.addUser,
		},
		{
			Method:  http.MethodDelete,
			Path:    "/projects/{tenantID}/users/{userID}",
			Handler: h.removeUser,
		},
		{
			Method:  http.MethodGet,
			Path:    "/projects/{tenantID}/usage",
			Handler: h.tenantUsage,
		},
	}
	for _, handler := range handlers {
		r.Method(handler.Method, handler.Path, httpx.WrapHttpRsp(handler.Handler))
	}
	return r
}
