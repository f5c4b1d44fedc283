// Package projects implements the admin project panel: tenant listing,
// membership management, and usage reports. Every endpoint fetches fresh data
// from the remote services; nothing is cached across requests. Upstream
// failures never surface as raw errors here: listing endpoints degrade to an
// empty collection with a message, detail endpoints redirect to the listing.
package projects

import (
	"context"

	"github.com/syspanel/syspanel/internal/common/apperrors"
	"github.com/syspanel/syspanel/internal/panelsrv/compute"
	"github.com/syspanel/syspanel/internal/panelsrv/identity"
	"github.com/syspanel/syspanel/pkg/api"
)

// projectsListPath is the safe parent page failed detail views redirect to.
const projectsListPath = "/projects"

// Handler serves the project panel endpoints over the remote service clients.
type Handler struct {
	Identity identity.Client
	Compute  compute.Client
}

// NewHandler creates a panel handler over the given service clients.
func NewHandler(idc identity.Client, cc compute.Client) *Handler {
	return &Handler{
		Identity: idc,
		Compute:  cc,
	}
}

// sharedData is the per-request working set of the users view: the tenant,
// its members, and the full user list. Loaded once per request so the member
// table and the addable-user table render from the same snapshot.
type sharedData struct {
	Tenant   identity.Tenant
	AllUsers []identity.User
	Members  []identity.User
}

func (h *Handler) loadSharedData(ctx context.Context, tenantID string) (*sharedData, apperrors.Error) {
	tenant, err := h.Identity.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	allUsers, err := h.Identity.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	members, err := h.Identity.ListTenantUsers(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &sharedData{
		Tenant:   *tenant,
		AllUsers: allUsers,
		Members:  members,
	}, nil
}

// addableUsers returns the users not yet associated with the tenant,
// preserving the order of the full user list.
func addableUsers(all []identity.User, members []identity.User) []identity.User {
	memberIDs := make(map[string]bool, len(members))
	for _, u := range members {
		memberIDs[u.ID] = true
	}
	addable := make([]identity.User, 0, len(all))
	for _, u := range all {
		if !memberIDs[u.ID] {
			addable = append(addable, u)
		}
	}
	return addable
}

func toProject(t identity.Tenant) api.Project {
	return api.Project{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Enabled:     t.Enabled,
	}
}

func toProjects(tenants []identity.Tenant) []api.Project {
	projects := make([]api.Project, 0, len(tenants))
	for _, t := range tenants {
		projects = append(projects, toProject(t))
	}
	return projects
}

func toUsers(users []identity.User) []api.User {
	out := make([]api.User, 0, len(users))
	for _, u := range users {
		out = append(out, api.User{
			ID:      u.ID,
			Name:    u.Name,
			Email:   u.Email,
			Enabled: u.Enabled,
		})
	}
	return out
}

func toRoles(roles []identity.Role) []api.Role {
	out := make([]api.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, api.Role{ID: r.ID, Name: r.Name})
	}
	return out
}
