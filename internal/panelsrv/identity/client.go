package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/syspanel/syspanel/internal/common/apperrors"
	"github.com/syspanel/syspanel/internal/common/httpclient"
	"github.com/syspanel/syspanel/internal/panelsrv/metrics"
	"github.com/tidwall/gjson"
)

// Client defines the identity service operations the panel consumes. The
// transport is an opaque collaborator with call-and-response semantics; each
// method issues one request and reports failure without retrying.
type Client interface {
	ListTenants(ctx context.Context) ([]Tenant, apperrors.Error)
	GetTenant(ctx context.Context, tenantID string) (*Tenant, apperrors.Error)
	CreateTenant(ctx context.Context, tenant Tenant) (*Tenant, apperrors.Error)
	UpdateTenant(ctx context.Context, tenant Tenant) (*Tenant, apperrors.Error)
	DeleteTenant(ctx context.Context, tenantID string) apperrors.Error

	ListUsers(ctx context.Context) ([]User, apperrors.Error)
	ListTenantUsers(ctx context.Context, tenantID string) ([]User, apperrors.Error)

	ListRoles(ctx context.Context) ([]Role, apperrors.Error)
	DefaultRole(ctx context.Context) (*Role, apperrors.Error)

	AddTenantUserRole(ctx context.Context, tenantID, userID, roleID string) apperrors.Error
	RemoveTenantUser(ctx context.Context, tenantID, userID string) apperrors.Error

	// Ping checks reachability of the identity service. Used by readiness
	// probes only.
	Ping(ctx context.Context) error
}

var tenantValidator = validator.New(validator.WithRequiredStructEnabled())

// restClient implements Client over the generic REST client.
type restClient struct {
	rest httpclient.HTTPClientInterface
}

var _ Client = (*restClient)(nil)

// NewClient creates an identity client talking to the service described by
// the Configurator.
func NewClient(config httpclient.Configurator, opts ...httpclient.ClientOptions) Client {
	return &restClient{
		rest: httpclient.NewClient(config, opts...),
	}
}

// NewClientWithRest creates an identity client over an existing REST client.
// Tests use this to substitute the transport.
func NewClientWithRest(rest httpclient.HTTPClientInterface) Client {
	return &restClient{rest: rest}
}

func (c *restClient) ListTenants(ctx context.Context) ([]Tenant, apperrors.Error) {
	body, err := c.rest.ListResources("tenants", nil)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("identity: tenant list failed")
		metrics.RecordUpstreamFailure("identity", "list_tenants")
		return nil, ErrUnableToListTenants.Err(err)
	}
	var tenants []Tenant
	if err := unmarshalCollection(body, "tenants", &tenants); err != nil {
		return nil, ErrUnableToListTenants.Err(err)
	}
	return tenants, nil
}

func (c *restClient) GetTenant(ctx context.Context, tenantID string) (*Tenant, apperrors.Error) {
	body, err := c.rest.GetResource("tenants", tenantID, nil)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenantID).Msg("identity: tenant get failed")
		metrics.RecordUpstreamFailure("identity", "get_tenant")
		return nil, mapNotFound(err, ErrTenantNotFound, ErrUnableToGetTenant)
	}
	var tenant Tenant
	if err := unmarshalObject(body, "tenant", &tenant); err != nil {
		return nil, ErrUnableToGetTenant.Err(err)
	}
	return &tenant, nil
}

func (c *restClient) CreateTenant(ctx context.Context, tenant Tenant) (*Tenant, apperrors.Error) {
	if err := tenantValidator.Struct(tenant); err != nil {
		return nil, ErrInvalidTenant.Err(err)
	}
	data, jerr := json.Marshal(map[string]Tenant{"tenant": tenant})
	if jerr != nil {
		return nil, ErrUnableToCreateTenant.Err(jerr)
	}
	body, _, err := c.rest.CreateResource("tenants", data, nil)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant", tenant.Name).Msg("identity: tenant create failed")
		metrics.RecordUpstreamFailure("identity", "create_tenant")
		return nil, ErrUnableToCreateTenant.Err(err)
	}
	var created Tenant
	if err := unmarshalObject(body, "tenant", &created); err != nil {
		return nil, ErrUnableToCreateTenant.Err(err)
	}
	return &created, nil
}

func (c *restClient) UpdateTenant(ctx context.Context, tenant Tenant) (*Tenant, apperrors.Error) {
	if tenant.ID == "" {
		return nil, ErrInvalidTenant.Msg("tenant id is required for update")
	}
	if err := tenantValidator.Struct(tenant); err != nil {
		return nil, ErrInvalidTenant.Err(err)
	}
	data, jerr := json.Marshal(tenant)
	if jerr != nil {
		return nil, ErrUnableToUpdateTenant.Err(jerr)
	}
	body, err := c.rest.UpdateResource("tenants", data, nil)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenant.ID).Msg("identity: tenant update failed")
		metrics.RecordUpstreamFailure("identity", "update_tenant")
		return nil, mapNotFound(err, ErrTenantNotFound, ErrUnableToUpdateTenant)
	}
	var updated Tenant
	if err := unmarshalObject(body, "tenant", &updated); err != nil {
		return nil, ErrUnableToUpdateTenant.Err(err)
	}
	return &updated, nil
}

func (c *restClient) DeleteTenant(ctx context.Context, tenantID string) apperrors.Error {
	if err := c.rest.DeleteResource("tenants", tenantID, nil); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenantID).Msg("identity: tenant delete failed")
		metrics.RecordUpstreamFailure("identity", "delete_tenant")
		return mapNotFound(err, ErrTenantNotFound, ErrUnableToDeleteTenant)
	}
	return nil
}

func (c *restClient) ListUsers(ctx context.Context) ([]User, apperrors.Error) {
	return c.listUsers(ctx, nil)
}

func (c *restClient) ListTenantUsers(ctx context.Context, tenantID string) ([]User, apperrors.Error) {
	return c.listUsers(ctx, map[string]string{"tenant_id": tenantID})
}

func (c *restClient) listUsers(ctx context.Context, queryParams map[string]string) ([]User, apperrors.Error) {
	body, err := c.rest.ListResources("users", queryParams)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("identity: user list failed")
		metrics.RecordUpstreamFailure("identity", "list_users")
		return nil, ErrUnableToListUsers.Err(err)
	}
	var users []User
	if err := unmarshalCollection(body, "users", &users); err != nil {
		return nil, ErrUnableToListUsers.Err(err)
	}
	return users, nil
}

func (c *restClient) ListRoles(ctx context.Context) ([]Role, apperrors.Error) {
	body, err := c.rest.ListResources("roles", nil)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("identity: role list failed")
		metrics.RecordUpstreamFailure("identity", "list_roles")
		return nil, ErrUnableToListRoles.Err(err)
	}
	var roles []Role
	if err := unmarshalCollection(body, "roles", &roles); err != nil {
		return nil, ErrUnableToListRoles.Err(err)
	}
	return roles, nil
}

func (c *restClient) DefaultRole(ctx context.Context) (*Role, apperrors.Error) {
	body, err := c.rest.GetResource("roles", "default", nil)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("identity: default role fetch failed")
		metrics.RecordUpstreamFailure("identity", "default_role")
		return nil, mapNotFound(err, ErrRoleNotFound, ErrUnableToListRoles)
	}
	var role Role
	if err := unmarshalObject(body, "role", &role); err != nil {
		return nil, ErrUnableToListRoles.Err(err)
	}
	return &role, nil
}

func (c *restClient) AddTenantUserRole(ctx context.Context, tenantID, userID, roleID string) apperrors.Error {
	opts := httpclient.RequestOptions{
		Method: http.MethodPut,
		Path:   path.Join("tenants", tenantID, "users", userID, "roles", roleID),
	}
	if _, _, err := c.rest.DoRequest(opts); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("tenant_id", tenantID).Str("user_id", userID).Str("role_id", roleID).
			Msg("identity: role grant failed")
		metrics.RecordUpstreamFailure("identity", "add_role")
		return ErrUnableToModifyGrant.Err(err)
	}
	return nil
}

func (c *restClient) RemoveTenantUser(ctx context.Context, tenantID, userID string) apperrors.Error {
	opts := httpclient.RequestOptions{
		Method: http.MethodDelete,
		Path:   path.Join("tenants", tenantID, "users", userID),
	}
	if _, _, err := c.rest.DoRequest(opts); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("tenant_id", tenantID).Str("user_id", userID).
			Msg("identity: member removal failed")
		metrics.RecordUpstreamFailure("identity", "remove_user")
		return ErrUnableToModifyGrant.Err(err)
	}
	return nil
}

func (c *restClient) Ping(ctx context.Context) error {
	_, err := c.rest.ListResources("tenants", map[string]string{"limit": "1"})
	return err
}

// unmarshalCollection decodes the named array from a keyed response
// envelope. A missing key decodes as an empty collection.
func unmarshalCollection(body []byte, key string, out any) error {
	raw := gjson.GetBytes(body, key)
	if !raw.Exists() {
		return nil
	}
	return json.Unmarshal([]byte(raw.Raw), out)
}

// unmarshalObject decodes the named object from a keyed response envelope.
// Falls back to decoding the whole body when the key is absent.
func unmarshalObject(body []byte, key string, out any) error {
	raw := gjson.GetBytes(body, key)
	if raw.Exists() {
		return json.Unmarshal([]byte(raw.Raw), out)
	}
	return json.Unmarshal(body, out)
}

// mapNotFound converts an upstream 404 into the given not-found error;
// everything else maps to the fallback.
func mapNotFound(err error, notFound, fallback apperrors.Error) apperrors.Error {
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
		return notFound.Err(err)
	}
	return fallback.Err(err)
}
