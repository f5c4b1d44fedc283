package projects

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
	"github.com/syspanel/syspanel/internal/panelsrv/identity"
	"github.com/syspanel/syspanel/pkg/api"
	"github.com/syspanel/syspanel/pkg/types"
)

// fakeIdentity is a canned identity service. Setting fail makes every call
// return the identity error for its operation.
type fakeIdentity struct {
	tenants     []identity.Tenant
	users       []identity.User
	tenantUsers map[string][]identity.User
	roles       []identity.Role
	defaultRole *identity.Role
	fail        bool

	listUserCalls int
	grants        []string
	removals      []string
	deletions     []string
}

var _ identity.Client = (*fakeIdentity)(nil)

func (f *fakeIdentity) ListTenants(ctx context.Context) ([]identity.Tenant, apperrors.Error) {
	if f.fail {
		return nil, identity.ErrUnableToListTenants
	}
	return f.tenants, nil
}

func (f *fakeIdentity) GetTenant(ctx context.Context, tenantID string) (*identity.Tenant, apperrors.Error) {
	if f.fail {
		return nil, identity.ErrUnableToGetTenant
	}
	for _, t := range f.tenants {
		if t.ID == tenantID {
			return &t, nil
		}
	}
	return nil, identity.ErrTenantNotFound
}

func (f *fakeIdentity) CreateTenant(ctx context.Context, tenant identity.Tenant) (*identity.Tenant, apperrors.Error) {
	if f.fail {
		return nil, identity.ErrUnableToCreateTenant
	}
	tenant.ID = "t-new"
	f.tenants = append(f.tenants, tenant)
	return &tenant, nil
}

func (f *fakeIdentity) UpdateTenant(ctx context.Context, tenant identity.Tenant) (*identity.Tenant, apperrors.Error) {
	if f.fail {
		return nil, identity.ErrUnableToUpdateTenant
	}
	return &tenant, nil
}

func (f *fakeIdentity) DeleteTenant(ctx context.Context, tenantID string) apperrors.Error {
	if f.fail {
		return identity.ErrUnableToDeleteTenant
	}
	f.deletions = append(f.deletions, tenantID)
	return nil
}

func (f *fakeIdentity) ListUsers(ctx context.Context) ([]identity.User, apperrors.Error) {
	if f.fail {
		return nil, identity.ErrUnableToListUsers
	}
	f.listUserCalls++
	return f.users, nil
}

func (f *fakeIdentity) ListTenantUsers(ctx context.Context, tenantID string) ([]identity.User, apperrors.Error) {
	if f.fail {
		return nil, identity.ErrUnableToListUsers
	}
	return f.tenantUsers[tenantID], nil
}

func (f *fakeIdentity) ListRoles(ctx context.Context) ([]identity.Role, apperrors.Error) {
	if f.fail {
		return nil, identity.ErrUnableToListRoles
	}
	return f.roles, nil
}

func (f *fakeIdentity) DefaultRole(ctx context.Context) (*identity.Role, apperrors.Error) {
	if f.defaultRole == nil {
		return nil, identity.ErrRoleNotFound
	}
	return f.defaultRole, nil
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

// fakeCompute is a canned compute service.
type fakeCompute struct {
	quota     api.QuotaSet
	defaults  api.QuotaSet
	usage     []api.InstanceUsage
	fail      bool
	setQuotas map[string]api.QuotaSet
}

var _ compute.Client = (*fakeCompute)(nil)

func (f *fakeCompute) QuotaDefaults(ctx context.Context, tenantID string) (*api.QuotaSet, apperrors.Error) {
	if f.fail {
		return nil, compute.ErrUnableToGetQuotaDefaults
	}
	q := f.defaults
	return &q, nil
}

func (f *fakeCompute) GetQuota(ctx context.Context, tenantID string) (*api.QuotaSet, apperrors.Error) {
	if f.fail {
		return nil, compute.ErrUnableToGetQuota
	}
	q := f.quota
	return &q, nil
}

func (f *fakeCompute) SetQuota(ctx context.Context, tenantID string, quota api.QuotaSet) apperrors.Error {
	if f.fail {
		return compute.ErrUnableToSetQuota
	}
	if f.setQuotas == nil {
		f.setQuotas = make(map[string]api.QuotaSet)
	}
	f.setQuotas[tenantID] = quota
	return nil
}

func (f *fakeCompute) TenantUsage(ctx context.Context, tenantID string) ([]api.InstanceUsage, apperrors.Error) {
	if f.fail {
		return nil, compute.ErrUnableToGetUsage
	}
	return f.usage, nil
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

func TestListProjectsSortedByIDDescending(t *testing.T) {
	idc := &fakeIdentity{tenants: []identity.Tenant{
		{ID: "a1", Name: "alpha", Enabled: true},
		{ID: "c3", Name: "gamma", Enabled: true},
		{ID: "b2", Name: "beta", Enabled: false},
	}}
	router := newTestRouter(idc, &fakeCompute{})

	w := doRequest(t, router, http.MethodGet, "/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rsp api.ProjectListRsp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	require.Len(t, rsp.Projects, 3)
	assert.Equal(t, "c3", rsp.Projects[0].ID)
	assert.Equal(t, "b2", rsp.Projects[1].ID)
	assert.Equal(t, "a1", rsp.Projects[2].ID)
	assert.Empty(t, rsp.Messages)
}

func TestListProjectsFailureDegradesToEmpty(t *testing.T) {
	router := newTestRouter(&fakeIdentity{fail: true}, &fakeCompute{})

	w := doRequest(t, router, http.MethodGet, "/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rsp api.ProjectListRsp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	assert.Empty(t, rsp.Projects)
	require.Len(t, rsp.Messages, 1)
	assert.Equal(t, api.SeverityError, rsp.Messages[0].Severity)
	assert.Equal(t, "Unable to retrieve project list.", rsp.Messages[0].Text)
}

func TestProjectUsersAddableExcludesMembers(t *testing.T) {
	idc := &fakeIdentity{
		tenants: []identity.Tenant{{ID: "t1", Name: "alpha", Enabled: true}},
		users: []identity.User{
			{ID: "u1", Name: "ann"},
			{ID: "u2", Name: "bob"},
			{ID: "u3", Name: "cal"},
		},
		tenantUsers: map[string][]identity.User{
			"t1": {{ID: "u2", Name: "bob"}},
		},
	}
	router := newTestRouter(idc, &fakeCompute{})

	w := doRequest(t, router, http.MethodGet, "/projects/t1/users", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rsp api.ProjectUsersRsp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	assert.Equal(t, "t1", rsp.Tenant.ID)
	require.Len(t, rsp.Members, 1)
	assert.Equal(t, "u2", rsp.Members[0].ID)

	var addableIDs []string
	for _, u := range rsp.AddableUsers {
		addableIDs = append(addableIDs, u.ID)
	}
	assert.Equal(t, []string{"u1", "u3"}, addableIDs)
}

func TestProjectUsersSingleUserListFetch(t *testing.T) {
	idc := &fakeIdentity{
		tenants:     []identity.Tenant{{ID: "t1", Name: "alpha", Enabled: true}},
		users:       []identity.User{{ID: "u1", Name: "ann"}},
		tenantUsers: map[string][]identity.User{"t1": {{ID: "u1", Name: "ann"}}},
	}
	router := newTestRouter(idc, &fakeCompute{})

	w := doRequest(t, router, http.MethodGet, "/projects/t1/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, idc.listUserCalls)
}

func TestProjectUsersFailureRedirectsToListing(t *testing.T) {
	router := newTestRouter(&fakeIdentity{fail: true}, &fakeCompute{})

	w := doRequest(t, router, http.MethodGet, "/projects/t1/users", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/projects", w.Header().Get("Location"))

	var rsp api.MessagesRsp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	require.Len(t, rsp.Messages, 1)
	assert.Equal(t, "Unable to retrieve users.", rsp.Messages[0].Text)
}

func TestAddUserFormRolesSortedAscending(t *testing.T) {
	idc := &fakeIdentity{
		tenants: []identity.Tenant{{ID: "t1", Name: "alpha", Enabled: true}},
		roles: []identity.Role{
			{ID: "r3", Name: "admin"},
			{ID: "r1", Name: "member"},
			{ID: "r2", Name: "viewer"},
		},
		defaultRole: &identity.Role{ID: "r1", Name: "member"},
	}
	router := newTestRouter(idc, &fakeCompute{})

	w := doRequest(t, router, http.MethodGet, "/projects/t1/users/u9/add", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rsp api.AddUserFormRsp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	require.Len(t, rsp.Roles, 3)
	assert.Equal(t, "r1", rsp.Roles[0].ID)
	assert.Equal(t, "r2", rsp.Roles[1].ID)
	assert.Equal(t, "r3", rsp.Roles[2].ID)
	assert.Equal(t, "t1", rsp.Initial.TenantID)
	assert.Equal(t, "u9", rsp.Initial.UserID)
	assert.Equal(t, types.NullableStringFrom("r1"), rsp.Initial.RoleID)
}

func TestAddUserFormNoDefaultRoleLeavesSelectionNull(t *testing.T) {
	idc := &fakeIdentity{
		tenants: []identity.Tenant{{ID: "t1", Name: "alpha", Enabled: true}},
		roles:   []identity.Role{{ID: "r1", Name: "member"}},
	}
	router := newTestRouter(idc, &fakeCompute{})

	w := doRequest(t, router, http.MethodGet, "/projects/t1/users/u9/add", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rsp api.AddUserFormRsp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	assert.True(t, rsp.Initial.RoleID.IsNil())
}

func TestAddUserGrantsRole(t *testing.T) {
	idc := &fakeIdentity{
		tenants: []identity.Tenant{{ID: "t1", Name: "alpha", Enabled: true}},
	}
	router := newTestRouter(idc, &fakeCompute{})

	body := []byte(`{"role_id":"r1"}`)
	w := doRequest(t, router, http.MethodPost, "/projects/t1/users/u9/add", body)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/projects/t1/users", w.Header().Get("Location"))
	assert.Equal(t, []string{"t1/u9/r1"}, idc.grants)

	var rsp api.MessagesRsp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	require.Len(t, rsp.Messages, 1)
	assert.Equal(t, api.SeveritySuccess, rsp.Messages[0].Severity)
}

func TestAddUserRequiresRoleID(t *testing.T) {
	router := newTestRouter(&fakeIdentity{}, &fakeCompute{})

	w := doRequest(t, router, http.MethodPost, "/projects/t1/users/u9/add", []byte(`{}`))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveUser(t *testing.T) {
	idc := &fakeIdentity{}
	router := newTestRouter(idc, &fakeCompute{})

	w := doRequest(t, router, http.MethodDelete, "/projects/t1/users/u2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"t1/u2"}, idc.removals)
}

func TestDeleteProject(t *testing.T) {
	idc := &fakeIdentity{}
	router := newTestRouter(idc, &fakeCompute{})

	w := doRequest(t, router, http.MethodDelete, "/projects/t1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"t1"}, idc.deletions)
}

func TestDeleteProjectFailureRedirects(t *testing.T) {
	router := newTestRouter(&fakeIdentity{fail: true}, &fakeCompute{})

	w := doRequest(t, router, http.MethodDelete, "/projects/t1", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/projects", w.Header().Get("Location"))
}

func TestGetProjectWithQuota(t *testing.T) {
	idc := &fakeIdentity{tenants: []identity.Tenant{{ID: "t1", Name: "alpha", Enabled: true}}}
	cc := &fakeCompute{quota: api.QuotaSet{Cores: types.NullableInt64From(16)}}
	router := newTestRouter(idc, cc)

	w := doRequest(t, router, http.MethodGet, "/projects/t1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rsp api.ProjectDetailRsp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	assert.Equal(t, "alpha", rsp.Project.Name)
	assert.Equal(t, int64(16), rsp.Quota.Cores.Value)
	assert.False(t, rsp.Quota.RAM.Valid)
}

func TestTenantUsageDegradesToEmpty(t *testing.T) {
	idc := &fakeIdentity{tenants: []identity.Tenant{{ID: "t1", Name: "alpha", Enabled: true}}}
	router := newTestRouter(idc, &fakeCompute{fail: true})

	w := doRequest(t, router, http.MethodGet, "/projects/t1/usage", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rsp api.UsageRsp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	assert.Empty(t, rsp.Instances)
	require.Len(t, rsp.Messages, 1)
	assert.Equal(t, "Unable to retrieve usage information.", rsp.Messages[0].Text)
}
