// Package compute provides the client for the remote compute service: tenant
// quota limits and per-instance usage reports. Quota values are nullable so
// a limit the service never reported stays distinguishable from zero.
package compute

import (
	"context"
	"encoding/json"
	"net/http"
	"path"

	"github.com/rs/zerolog/log"
	"github.com/syspanel/syspanel/internal/common/apperrors"
	"github.com/syspanel/syspanel/internal/common/httpclient"
	"github.com/syspanel/syspanel/internal/panelsrv/metrics"
	"github.com/syspanel/syspanel/pkg/api"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Client defines the compute service operations the panel consumes. Each
// method issues one request and reports failure without retrying.
type Client interface {
	QuotaDefaults(ctx context.Context, tenantID string) (*api.QuotaSet, apperrors.Error)
	GetQuota(ctx context.Context, tenantID string) (*api.QuotaSet, apperrors.Error)
	SetQuota(ctx context.Context, tenantID string, quota api.QuotaSet) apperrors.Error
	TenantUsage(ctx context.Context, tenantID string) ([]api.InstanceUsage, apperrors.Error)
}

// restClient implements Client over the generic REST client.
type restClient struct {
	rest httpclient.HTTPClientInterface
}

var _ Client = (*restClient)(nil)

// NewClient creates a compute client talking to the service described by the
// Configurator.
func NewClient(config httpclient.Configurator, opts ...httpclient.ClientOptions) Client {
	return &restClient{
		rest: httpclient.NewClient(config, opts...),
	}
}

// NewClientWithRest creates a compute client over an existing REST client.
// Tests use this to substitute the transport.
func NewClientWithRest(rest httpclient.HTTPClientInterface) Client {
	return &restClient{rest: rest}
}

func (c *restClient) QuotaDefaults(ctx context.Context, tenantID string) (*api.QuotaSet, apperrors.Error) {
	body, err := c.rest.GetResource(path.Join("quota-sets", tenantID), "defaults", nil)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenantID).Msg("compute: quota defaults fetch failed")
		metrics.RecordUpstreamFailure("compute", "quota_defaults")
		return nil, ErrUnableToGetQuotaDefaults.Err(err)
	}
	return decodeQuotaSet(body, ErrUnableToGetQuotaDefaults)
}

func (c *restClient) GetQuota(ctx context.Context, tenantID string) (*api.QuotaSet, apperrors.Error) {
	body, err := c.rest.GetResource("quota-sets", tenantID, nil)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenantID).Msg("compute: quota fetch failed")
		metrics.RecordUpstreamFailure("compute", "get_quota")
		return nil, ErrUnableToGetQuota.Err(err)
	}
	return decodeQuotaSet(body, ErrUnableToGetQuota)
}

// SetQuota sends only the limits that carry a value; limits left null are
// not touched on the remote side.
func (c *restClient) SetQuota(ctx context.Context, tenantID string, quota api.QuotaSet) apperrors.Error {
	body, err := sparseQuotaBody(quota)
	if err != nil {
		return ErrUnableToSetQuota.Err(err)
	}
	opts := httpclient.RequestOptions{
		Method: http.MethodPut,
		Path:   path.Join("quota-sets", tenantID),
		Body:   body,
	}
	if _, _, err := c.rest.DoRequest(opts); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenantID).Msg("compute: quota update failed")
		metrics.RecordUpstreamFailure("compute", "set_quota")
		return ErrUnableToSetQuota.Err(err)
	}
	return nil
}

func (c *restClient) TenantUsage(ctx context.Context, tenantID string) ([]api.InstanceUsage, apperrors.Error) {
	body, err := c.rest.GetResource("usage", tenantID, nil)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", tenantID).Msg("compute: usage fetch failed")
		metrics.RecordUpstreamFailure("compute", "tenant_usage")
		return nil, ErrUnableToGetUsage.Err(err)
	}
	var instances []api.InstanceUsage
	raw := gjson.GetBytes(body, "tenant_usage.instances")
	if !raw.Exists() {
		return instances, nil
	}
	if err := json.Unmarshal([]byte(raw.Raw), &instances); err != nil {
		return nil, ErrUnableToGetUsage.Err(err)
	}
	return instances, nil
}

// decodeQuotaSet parses a quota-set envelope into a QuotaSet.
func decodeQuotaSet(body []byte, failure apperrors.Error) (*api.QuotaSet, apperrors.Error) {
	raw := gjson.GetBytes(body, "quota_set")
	if raw.Exists() {
		body = []byte(raw.Raw)
	}
	var quota api.QuotaSet
	if err := json.Unmarshal(body, &quota); err != nil {
		return nil, failure.Err(err)
	}
	return &quota, nil
}

// sparseQuotaBody builds the update envelope containing only the valid
// limits.
func sparseQuotaBody(quota api.QuotaSet) ([]byte, error) {
	body := []byte(`{"quota_set":{}}`)
	var err error
	for _, f := range quota.Fields() {
		if !f.Value.Valid {
			continue
		}
		body, err = sjson.SetBytes(body, "quota_set."+f.Name, f.Value.Value)
		if err != nil {
			return nil, err
		}
	}
	return body, nil
}
