package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Client is a typed client for the panel service REST API.
type Client struct {
	httpClient *http.Client
	serverURL  string
	config     clientConfig
}

// ClientOption is a function type for configuring client behavior.
type ClientOption func(*clientConfig)

type clientConfig struct {
	timeout time.Duration
	apiKey  string
}

// WithTimeout sets the per-request timeout for the client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithAPIKey sets the API key sent as a bearer token on every request.
func WithAPIKey(key string) ClientOption {
	return func(c *clientConfig) {
		c.apiKey = key
	}
}

// NewClient creates a new Client for the panel service at serverURL.
// Returns an error if the server URL is empty or unparseable.
func NewClient(serverURL string, opts ...ClientOption) (*Client, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("server URL cannot be empty")
	}
	if _, err := url.Parse(serverURL); err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	config := clientConfig{
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(&config)
	}

	return &Client{
		// The server reports form/detail failures as 303 redirects whose
		// body carries the error messages. Redirects are not followed so
		// that body is never discarded.
		httpClient: &http.Client{
			Timeout: config.timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		serverURL: serverURL,
		config:    config,
	}, nil
}

// ListProjects retrieves the project listing.
func (c *Client) ListProjects(ctx context.Context) (*ProjectListRsp, error) {
	var rsp ProjectListRsp
	if err := c.do(ctx, http.MethodGet, "projects", nil, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// GetProject retrieves a single project with its quota.
func (c *Client) GetProject(ctx context.Context, tenantID string) (*ProjectDetailRsp, error) {
	var rsp ProjectDetailRsp
	if err := c.do(ctx, http.MethodGet, path.Join("projects", tenantID), nil, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// ProjectUsers retrieves the member and addable-user lists for a tenant.
func (c *Client) ProjectUsers(ctx context.Context, tenantID string) (*ProjectUsersRsp, error) {
	var rsp ProjectUsersRsp
	if err := c.do(ctx, http.MethodGet, path.Join("projects", tenantID, "users"), nil, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// AddUserForm retrieves the add-user form state for a tenant and user.
func (c *Client) AddUserForm(ctx context.Context, tenantID, userID string) (*AddUserFormRsp, error) {
	var rsp AddUserFormRsp
	p := path.Join("projects", tenantID, "users", userID, "add")
	if err := c.do(ctx, http.MethodGet, p, nil, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// AddUser grants roleID to userID within tenantID. The server answers with a
// redirect to the membership page; the returned messages carry the outcome.
func (c *Client) AddUser(ctx context.Context, tenantID, userID, roleID string) (*MessagesRsp, error) {
	req := AddUserReq{RoleID: roleID}
	var rsp MessagesRsp
	p := path.Join("projects", tenantID, "users", userID, "add")
	if err := c.do(ctx, http.MethodPost, p, req, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// RemoveUser removes userID from tenantID.
func (c *Client) RemoveUser(ctx context.Context, tenantID, userID string) error {
	p := path.Join("projects", tenantID, "users", userID)
	return c.do(ctx, http.MethodDelete, p, nil, nil)
}

// CreateProjectForm retrieves the create-project workflow state.
func (c *Client) CreateProjectForm(ctx context.Context) (*WorkflowStateRsp, error) {
	var rsp WorkflowStateRsp
	if err := c.do(ctx, http.MethodGet, "projects/create", nil, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// CreateProject submits the create-project workflow.
func (c *Client) CreateProject(ctx context.Context, req ProjectReq) (*ProjectRsp, error) {
	var rsp ProjectRsp
	if err := c.do(ctx, http.MethodPost, "projects/create", req, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// UpdateProjectForm retrieves the update-project workflow state for a tenant.
func (c *Client) UpdateProjectForm(ctx context.Context, tenantID string) (*WorkflowStateRsp, error) {
	var rsp WorkflowStateRsp
	p := path.Join("projects", tenantID, "update")
	if err := c.do(ctx, http.MethodGet, p, nil, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// UpdateProject submits the update-project workflow for a tenant.
func (c *Client) UpdateProject(ctx context.Context, tenantID string, req ProjectReq) (*ProjectRsp, error) {
	var rsp ProjectRsp
	p := path.Join("projects", tenantID, "update")
	if err := c.do(ctx, http.MethodPost, p, req, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// DeleteProject deletes a tenant.
func (c *Client) DeleteProject(ctx context.Context, tenantID string) error {
	return c.do(ctx, http.MethodDelete, path.Join("projects", tenantID), nil, nil)
}

// Usage retrieves the per-instance usage report for a tenant.
func (c *Client) Usage(ctx context.Context, tenantID string) (*UsageRsp, error) {
	var rsp UsageRsp
	p := path.Join("projects", tenantID, "usage")
	if err := c.do(ctx, http.MethodGet, p, nil, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// Version retrieves the server and API versions.
func (c *Client) Version(ctx context.Context) (*VersionRsp, error) {
	var rsp VersionRsp
	if err := c.do(ctx, http.MethodGet, "version", nil, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// do performs one request against the panel service. A non-2xx response is
// returned as an error carrying the server's error envelope when present.
func (c *Client) do(ctx context.Context, method, p string, reqBody any, out any) error {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	u.Path = path.Join(u.Path, p)

	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, envelope.Error)
		}
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(data))
	}

	// A redirect is the server sending the caller back to a safe parent
	// page. Its body is a MessagesRsp; error-severity messages mean the
	// operation failed.
	if resp.StatusCode >= 300 && len(data) > 0 {
		var messages MessagesRsp
		if err := json.Unmarshal(data, &messages); err != nil {
			return fmt.Errorf("failed to parse redirect response: %w", err)
		}
		var failures []string
		for _, m := range messages.Messages {
			if m.Severity == SeverityError {
				failures = append(failures, m.Text)
			}
		}
		if len(failures) > 0 {
			return fmt.Errorf("%s", strings.Join(failures, " "))
		}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
