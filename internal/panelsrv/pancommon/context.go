package pancommon

import (
	"context"
)

// ctxKeyType represents the type for all context keys
type ctxKeyType string

const ctxTenantIdKey = ctxKeyType("PanelTenantId")

// WithTenantID sets the operator's tenant ID in the provided context. The
// panel does not own authentication; whatever fronts it injects the
// operator's home tenant here.
func WithTenantID(ctx context.Context, tenantID TenantID) context.Context {
	return context.WithValue(ctx, ctxTenantIdKey, tenantID)
}

// GetTenantID retrieves the operator's tenant ID from the provided context.
// Returns the empty TenantID when none was injected.
func GetTenantID(ctx context.Context) TenantID {
	if tenantID, ok := ctx.Value(ctxTenantIdKey).(TenantID); ok {
		return tenantID
	}
	return ""
}
