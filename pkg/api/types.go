// Package api defines the public request and response payloads of the panel
// service, along with a typed client for consuming them. The server renders
// these types; the CLI and other integrations parse them.
package api

import (
	"github.com/syspanel/syspanel/pkg/types"
)

// Severity classifies user-facing messages attached to panel responses.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Message is a user-facing notice carried inside a response payload. The
// panel has no server-side session, so notices that a browser dashboard
// would flash are returned inline with the data they describe.
type Message struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

// InfoMessage returns an informational message.
func InfoMessage(text string) Message {
	return Message{Severity: SeverityInfo, Text: text}
}

// SuccessMessage returns a success message.
func SuccessMessage(text string) Message {
	return Message{Severity: SeveritySuccess, Text: text}
}

// WarningMessage returns a warning message.
func WarningMessage(text string) Message {
	return Message{Severity: SeverityWarning, Text: text}
}

// ErrorMessage returns an error message.
func ErrorMessage(text string) Message {
	return Message{Severity: SeverityError, Text: text}
}

// Project is a tenant as rendered by the panel.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// User is an identity-service user as rendered by the panel.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Enabled bool   `json:"enabled"`
}

// Role is an access-level grant assignable to a user within a tenant.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// QuotaSet carries the named numeric resource limits attached to a tenant.
// Limits the remote service did not report marshal as null.
type QuotaSet struct {
	MetadataItems            types.NullableInt64 `json:"metadata_items" mapstructure:"metadata_items"`
	Cores                    types.NullableInt64 `json:"cores" mapstructure:"cores"`
	Instances                types.NullableInt64 `json:"instances" mapstructure:"instances"`
	InjectedFiles            types.NullableInt64 `json:"injected_files" mapstructure:"injected_files"`
	InjectedFileContentBytes types.NullableInt64 `json:"injected_file_content_bytes" mapstructure:"injected_file_content_bytes"`
	Volumes                  types.NullableInt64 `json:"volumes" mapstructure:"volumes"`
	Gigabytes                types.NullableInt64 `json:"gigabytes" mapstructure:"gigabytes"`
	RAM                      types.NullableInt64 `json:"ram" mapstructure:"ram"`
	FloatingIPs              types.NullableInt64 `json:"floating_ips" mapstructure:"floating_ips"`
}

// QuotaField pairs a quota limit name with its nullable value.
type QuotaField struct {
	Name  string
	Value types.NullableInt64
}

// Fields returns the quota limits in wire order.
func (q QuotaSet) Fields() []QuotaField {
	return []QuotaField{
		{"metadata_items", q.MetadataItems},
		{"cores", q.Cores},
		{"instances", q.Instances},
		{"injected_files", q.InjectedFiles},
		{"injected_file_content_bytes", q.InjectedFileContentBytes},
		{"volumes", q.Volumes},
		{"gigabytes", q.Gigabytes},
		{"ram", q.RAM},
		{"floating_ips", q.FloatingIPs},
	}
}

// InstanceUsage is one row of a tenant's usage report.
type InstanceUsage struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	VCPUs    int64   `json:"vcpus"`
	MemoryMB int64   `json:"memory_mb"`
	DiskGB   int64   `json:"disk_gb"`
	Hours    float64 `json:"hours"`
	State    string  `json:"state"`
}

// ProjectListRsp is the response of the project listing endpoint. On upstream
// failure Projects is empty and Messages carries the error notice.
type ProjectListRsp struct {
	Projects []Project `json:"projects"`
	Messages []Message `json:"messages,omitempty"`
}

// ProjectDetailRsp is the response of the single-project endpoint: the
// tenant's info fields plus its current quota.
type ProjectDetailRsp struct {
	Project  Project   `json:"project"`
	Quota    QuotaSet  `json:"quota"`
	Messages []Message `json:"messages,omitempty"`
}

// ProjectUsersRsp is the response of the tenant users endpoint. AddableUsers
// holds every user not yet associated with the tenant.
type ProjectUsersRsp struct {
	Tenant       Project   `json:"tenant"`
	Members      []User    `json:"members"`
	AddableUsers []User    `json:"addable_users"`
	Messages     []Message `json:"messages,omitempty"`
}

// AddUserInitial holds the prefilled values of the add-user form.
type AddUserInitial struct {
	TenantID string               `json:"tenant_id"`
	UserID   string               `json:"user_id"`
	RoleID   types.NullableString `json:"role_id"`
}

// AddUserFormRsp is the response of the add-user form endpoint: assignable
// roles sorted by ID plus prefilled initial values.
type AddUserFormRsp struct {
	Roles    []Role         `json:"roles"`
	Initial  AddUserInitial `json:"initial"`
	Messages []Message      `json:"messages,omitempty"`
}

// AddUserReq is the submit payload of the add-user form.
type AddUserReq struct {
	RoleID string `json:"role_id" validate:"required"`
}

// MessagesRsp is a response carrying only user-facing messages. Redirecting
// endpoints use it as the body alongside the Location header.
type MessagesRsp struct {
	Messages []Message `json:"messages"`
}

// UsageRsp is the response of the tenant usage endpoint.
type UsageRsp struct {
	TenantID  string          `json:"tenant_id"`
	Instances []InstanceUsage `json:"instances"`
	Messages  []Message       `json:"messages,omitempty"`
}

// WorkflowField describes one input of a workflow step.
type WorkflowField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// WorkflowStep is one step of a multi-step workflow.
type WorkflowStep struct {
	Slug   string          `json:"slug"`
	Name   string          `json:"name"`
	Fields []WorkflowField `json:"fields"`
}

// WorkflowStateRsp is the response of a workflow GET: the step layout, the
// prefilled initial values, and any step-scoped errors raised while
// assembling them.
type WorkflowStateRsp struct {
	Slug       string              `json:"slug"`
	Name       string              `json:"name"`
	Steps      []WorkflowStep      `json:"steps"`
	Initial    map[string]any      `json:"initial"`
	StepErrors map[string][]string `json:"step_errors,omitempty"`
	Messages   []Message           `json:"messages,omitempty"`
}

// ProjectReq is the submit payload of the create/update project workflows.
// Members maps role IDs to the user IDs that should hold that role.
type ProjectReq struct {
	Name        string              `json:"name" validate:"required,max=64"`
	Description string              `json:"description"`
	Enabled     bool                `json:"enabled"`
	Members     map[string][]string `json:"members,omitempty"`
	Quota       QuotaSet            `json:"quota"`
}

// ProjectRsp is the response of a workflow submit.
type ProjectRsp struct {
	Project  Project   `json:"project"`
	Messages []Message `json:"messages,omitempty"`
}

// VersionRsp is the response of the version endpoint.
type VersionRsp struct {
	ServerVersion string `json:"serverVersion"`
	ApiVersion    string `json:"apiVersion"`
}
