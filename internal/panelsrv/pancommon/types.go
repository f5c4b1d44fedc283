// Package pancommon provides context management utilities and shared
// constants for the panel service.
package pancommon

// TenantID identifies a tenant/project in the managed cloud. IDs are opaque
// strings minted by the identity service.
type TenantID string

const (
	// ServerVersion is the panel server release version.
	ServerVersion = "0.3.0"
	// ApiVersion is the version of the REST API surface.
	ApiVersion = "0.3"
)
