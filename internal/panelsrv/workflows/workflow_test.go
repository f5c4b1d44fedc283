package workflows

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syspanel/syspanel/internal/common/apperrors"
	"github.com/syspanel/syspanel/internal/panelsrv/compute"
	"github.com/syspanel/syspanel/internal/panelsrv/config"
	"github.com/syspanel/syspanel/internal/panelsrv/identity"
	"github.com/syspanel/syspanel/internal/panelsrv/pancommon"
	"github.com/syspanel/syspanel/pkg/api"
	"github.com/syspanel/syspanel/pkg/types"
)

func TestMain(m *testing.M) {
	config.TestInit()
	m.Run()
}

// fakeIdentity is a canned identity service for workflow tests.
type fakeIdentity struct {
	tenants     map[string]identity.Tenant
	tenantUsers []identity.User
	fail        bool

	created  []identity.Tenant
	updated  []identity.Tenant
	grants   []string
	removals []string
}

var _ identity.Client = (*fakeIdentity)(nil)

func (f *fakeIdentity) ListTenants(ctx context.Context) ([]identity.Tenant, apperrors.Error) {
	return nil, nil
}

func (f *fakeIdentity) GetTenant(ctx context.Context, tenantID string) (*identity.Tenant, apperrors.Error) {
	if f.fail {
		return nil, identity.ErrUnableToGetTenant
	}
	if t, ok := f.tenants[tenantID]; ok {
		return &t, nil
	}
	return nil, identity.ErrTenantNotFound
}

func (f *fakeIdentity) CreateTenant(ctx context.Context, tenant identity.Tenant) (*identity.Tenant, apperrors.Error) {
	if f.fail {
		return nil, identity.ErrUnableToCreateTenant
	}
	tenant.ID = "t-new"
	f.created = append(f.created, tenant)
	return &tenant, nil
}

func (f *fakeIdentity) UpdateTenant(ctx context.Context, tenant identity.Tenant) (*identity.Tenant, apperrors.Error) {
	if f.fail {
		return nil, identity.ErrUnableToUpdateTenant
	}
	f.updated = append(f.updated, tenant)
	return &tenant, nil
}

func (f *fakeIdentity) DeleteTenant(ctx context.Context, tenantID string) apperrors.Error {
	return nil
}

func (f *fakeIdentity) ListUsers(ctx context.Context) ([]identity.User, apperrors.Error) {
	return nil, nil
}

func (f *fakeIdentity) ListTenantUsers(ctx context.Context, tenantID string) ([]identity.User, apperrors.Error) {
	if f.fail {
		return nil, identity.ErrUnableToListUsers
	}
	return f.tenantUsers, nil
}

func (f *fakeIdentity) ListRoles(ctx context.Context) ([]identity.Role, apperrors.Error) {
	return nil, nil
}

func (f *fakeIdentity) DefaultRole(ctx context.Context) (*identity.Role, apperrors.Error) {
	return nil, identity.ErrRoleNotFound
}

func (f *fakeIdentity) AddTenantUserRole(ctx context.Context, tenantID, userID, roleID string) apperrors.Error {
	if f.fail {
		return identity.ErrUnableToModifyGrant
	}
	f.grants = append(f.grants, tenantID+"/"+userID+"/"+roleID)
	return nil
}

func (f *fakeIdentity) RemoveTenantUser(ctx context.Context, tenantID, userID string) apperrors.Error {
	if f.fail {
		return identity.ErrUnableToModifyGrant
	}
	f.removals = append(f.removals, tenantID+"/"+userID)
	return nil
}

func (f *fakeIdentity) Ping(ctx context.Context) error {
	return nil
}

// fakeCompute is a canned compute service for workflow tests.
type fakeCompute struct {
	defaults     api.QuotaSet
	quota        api.QuotaSet
	failDefaults bool
	failQuota    bool
	failSet      bool

	defaultsTenants []string
	setQuotas       map[string]api.QuotaSet
}

var _ compute.Client = (*fakeCompute)(nil)

func (f *fakeCompute) QuotaDefaults(ctx context.Context, tenantID string) (*api.QuotaSet, apperrors.Error) {
	f.defaultsTenants = append(f.defaultsTenants, tenantID)
	if f.failDefaults {
		return nil, compute.ErrUnableToGetQuotaDefaults
	}
	q := f.defaults
	return &q, nil
}

func (f *fakeCompute) GetQuota(ctx context.Context, tenantID string) (*api.QuotaSet, apperrors.Error) {
	if f.failQuota {
		return nil, compute.ErrUnableToGetQuota
	}
	q := f.quota
	return &q, nil
}

func (f *fakeCompute) SetQuota(ctx context.Context, tenantID string, quota api.QuotaSet) apperrors.Error {
	if f.failSet {
		return compute.ErrUnableToSetQuota
	}
	if f.setQuotas == nil {
		f.setQuotas = make(map[string]api.QuotaSet)
	}
	f.setQuotas[tenantID] = quota
	return nil
}

func (f *fakeCompute) TenantUsage(ctx context.Context, tenantID string) ([]api.InstanceUsage, apperrors.Error) {
	return nil, nil
}

func newTestRouter(idc identity.Client, cc compute.Client) chi.Router {
	r := chi.NewRouter()
	NewHandler(idc, cc).Router(r)
	return r
}

func doRequest(t *testing.T, router chi.Router, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateFormPrefillsQuotaDefaults(t *testing.T) {
	cc := &fakeCompute{defaults: api.QuotaSet{
		Cores: types.NullableInt64From(20),
		RAM:   types.NullableInt64From(51200),
	}}
	router := newTestRouter(&fakeIdentity{}, cc)

	w := doRequest(t, router, http.MethodGet, "/projects/create", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rsp api.WorkflowStateRsp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	assert.Equal(t, "create_project", rsp.Slug)
	require.Len(t, rsp.Steps, 3)
	assert.Equal(t, float64(20), rsp.Initial["cores"])
	assert.Equal(t, float64(51200), rsp.Initial["ram"])
	assert.Nil(t, rsp.Initial["volumes"])
	assert.Empty(t, rsp.StepErrors)
}

func TestCreateFormUsesOperatorTenantForDefaults(t *testing.T) {
	cc := &fakeCompute{}
	router := newTestRouter(&fakeIdentity{}, cc)

	req, err := http.NewRequest(http.MethodGet, "/projects/create", nil)
	require.NoError(t, err)
	ctx := pancommon.WithTenantID(req.Context(), "op-tenant")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"op-tenant"}, cc.defaultsTenants)
}

func TestCreateFormFallsBackToConfiguredTenant(t *testing.T) {
	cc := &fakeCompute{}
	router := newTestRouter(&fakeIdentity{}, cc)

	w := doRequest(t, router, http.MethodGet, "/projects/create", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{config.Config().DefaultTenantID}, cc.defaultsTenants)
}

func TestCreateFormQuotaFailureFlagsQuotaStep(t *testing.T) {
	router := newTestRouter(&fakeIdentity{}, &fakeCompute{failDefaults: true})

	w := doRequest(t, router, http.MethodGet, "/projects/create", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rsp api.WorkflowStateRsp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	require.Contains(t, rsp.StepErrors, "update_quota")
	assert.Equal(t, []string{"Unable to retrieve default quota values."}, rsp.StepErrors["update_quota"])
	assert.NotContains(t, rsp.Initial, "cores")
}

func TestCreateProject(t *testing.T) {
	idc := &fakeIdentity{}
	cc := &fakeCompute{}
	router := newTestRouter(idc, cc)

	body := []byte(`{"name":"alpha","description":"first","enabled":true,` +
		`"members":{"r1":["u1","u2"]},"quota":{"cores":8,"ram":16384}}`)
	w := doRequest(t, router, http.MethodPost, "/projects/create", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/projects/t-new", w.Header().Get("Location"))

	require.Len(t, idc.created, 1)
	assert.Equal(t, "alpha", idc.created[0].Name)
	assert.ElementsMatch(t, []string{"t-new/u1/r1", "t-new/u2/r1"}, idc.grants)
	require.Contains(t, cc.setQuotas, "t-new")
	assert.Equal(t, int64(8), cc.setQuotas["t-new"].Cores.Value)

	var rsp api.ProjectRsp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	assert.Equal(t, "t-new", rsp.Project.ID)
	require.NotEmpty(t, rsp.Messages)
	assert.Equal(t, api.SeveritySuccess, rsp.Messages[0].Severity)
}

func TestCreateProjectRequiresName(t *testing.T) {
	router := newTestRouter(&fakeIdentity{}, &fakeCompute{})

	w := doRequest(t, router, http.MethodPost, "/projects/create", []byte(`{"description":"x"}`))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProjectQuotaFailureDegradesToWarning(t *testing.T) {
	idc := &fakeIdentity{}
	router := newTestRouter(idc, &fakeCompute{failSet: true})

	body := []byte(`{"name":"alpha","enabled":true,"quota":{"cores":8}}`)
	w := doRequest(t, router, http.MethodPost, "/projects/create", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var rsp api.ProjectRsp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	require.Len(t, rsp.Messages, 2)
	assert.Equal(t, api.SeverityWarning, rsp.Messages[1].Severity)
	assert.Equal(t, "Unable to set project quota.", rsp.Messages[1].Text)
}

// The update form must carry exactly the fetched project info and quota
// fields, with limits the compute service never reported staying null.
func TestUpdateFormInitialValues(t *testing.T) {
	idc := &fakeIdentity{tenants: map[string]identity.Tenant{
		"t1": {ID: "t1", Name: "alpha", Description: "first", Enabled: true},
	}}
	cc := &fakeCompute{quota: api.QuotaSet{
		Cores:     types.NullableInt64From(16),
		Instances: types.NullableInt64From(5),
	}}
	router := newTestRouter(idc, cc)

	w := doRequest(t, router, http.MethodGet, "/projects/t1/update", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rsp api.WorkflowStateRsp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	assert.Equal(t, "update_project", rsp.Slug)
	assert.Equal(t, "t1", rsp.Initial["project_id"])
	assert.Equal(t, "alpha", rsp.Initial["name"])
	assert.Equal(t, "first", rsp.Initial["description"])
	assert.Equal(t, true, rsp.Initial["enabled"])
	assert.Equal(t, float64(16), rsp.Initial["cores"])
	assert.Equal(t, float64(5), rsp.Initial["instances"])
	require.Contains(t, rsp.Initial, "ram")
	assert.Nil(t, rsp.Initial["ram"])
	require.Contains(t, rsp.Initial, "floating_ips")
	assert.Nil(t, rsp.Initial["floating_ips"])
}

func TestUpdateFormFetchFailureRedirects(t *testing.T) {
	router := newTestRouter(&fakeIdentity{fail: true}, &fakeCompute{})

	w := doRequest(t, router, http.MethodGet, "/projects/t1/update", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/projects", w.Header().Get("Location"))

	var rsp api.MessagesRsp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	require.Len(t, rsp.Messages, 1)
	assert.Equal(t, "Unable to retrieve project details.", rsp.Messages[0].Text)
}

func TestUpdateFormQuotaFailureRedirects(t *testing.T) {
	idc := &fakeIdentity{tenants: map[string]identity.Tenant{
		"t1": {ID: "t1", Name: "alpha", Enabled: true},
	}}
	router := newTestRouter(idc, &fakeCompute{failQuota: true})

	w := doRequest(t, router, http.MethodGet, "/projects/t1/update", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/projects", w.Header().Get("Location"))
}

func TestUpdateProjectReconcilesMembers(t *testing.T) {
	idc := &fakeIdentity{
		tenants:     map[string]identity.Tenant{"t1": {ID: "t1", Name: "alpha", Enabled: true}},
		tenantUsers: []identity.User{{ID: "u1"}, {ID: "u2"}},
	}
	router := newTestRouter(idc, &fakeCompute{})

	body := []byte(`{"name":"alpha","enabled":true,"members":{"r1":["u2","u3"]}}`)
	w := doRequest(t, router, http.MethodPost, "/projects/t1/update", body)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, idc.updated, 1)
	assert.Equal(t, "t1", idc.updated[0].ID)
	assert.Equal(t, []string{"t1/u1"}, idc.removals)
	assert.ElementsMatch(t, []string{"t1/u2/r1", "t1/u3/r1"}, idc.grants)
}

func TestUpdateProjectWithoutMembersLeavesMembershipAlone(t *testing.T) {
	idc := &fakeIdentity{
		tenants:     map[string]identity.Tenant{"t1": {ID: "t1", Name: "alpha", Enabled: true}},
		tenantUsers: []identity.User{{ID: "u1"}},
	}
	router := newTestRouter(idc, &fakeCompute{})

	body := []byte(`{"name":"renamed","enabled":false}`)
	w := doRequest(t, router, http.MethodPost, "/projects/t1/update", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, idc.removals)
	assert.Empty(t, idc.grants)
}
