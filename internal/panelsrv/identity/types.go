// Package identity provides the client for the remote identity service. The
// panel owns none of these entities; everything is fetched fresh per request
// and discarded with the response.
package identity

// Tenant is a tenant/project record as returned by the identity service.
type Tenant struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required,max=64"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// User is a user record as returned by the identity service. TenantID is the
// user's primary tenant and may be empty.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Enabled  bool   `json:"enabled"`
	TenantID string `json:"tenant_id,omitempty"`
}

// Role is an access-level grant assignable to a user within a tenant.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
