package httpclient

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Configurator defines the interface for providing server configuration and
// authentication details. Implementations must provide the server URL, API
// key, and token management capabilities.
type Configurator interface {
	GetServerURL() string
	GetAPIKey() string
	GetToken() string
	GetTokenExpiry() time.Time
}

// ServerError represents an error response from the server with a result code
// and error message.
type ServerError struct {
	Result int    `json:"result"` // HTTP status code or result code from server
	Error  string `json:"error"`  // Error message from server
}

// HTTPError represents an error response from the server with HTTP status
// code and message.
type HTTPError struct {
	StatusCode int    // HTTP status code of the error
	Message    string // Error message or response body
}

// Error implements the error interface for HTTPError.
func (e *HTTPError) Error() string {
	return e.Message
}

// HTTPClient represents a client for making HTTP requests to a REST API
// server. It handles authentication, request building, and response
// processing.
type HTTPClient struct {
	config     Configurator
	httpClient *http.Client
}

// ClientOptions contains options for configuring the HTTP client.
type ClientOptions struct {
	DisableCertValidation bool          // If true, skips SSL certificate validation
	Timeout               time.Duration // Per-request timeout; zero means no timeout
}

// NewClient creates a new HTTP client using the provided configuration.
// The config parameter must implement the Configurator interface.
func NewClient(config Configurator, opts ...ClientOptions) *HTTPClient {
	clientOpts := ClientOptions{}
	if strings.HasPrefix(config.GetServerURL(), "https://") {
		clientOpts.DisableCertValidation = true
	}
	if len(opts) > 0 {
		clientOpts = opts[0]
	}
	return NewClientWithOptions(config, clientOpts)
}

// NewClientWithOptions creates a new HTTP client using the provided
// configuration and options.
func NewClientWithOptions(config Configurator, opts ClientOptions) *HTTPClient {
	httpClient := &http.Client{
		Timeout: opts.Timeout,
	}

	if opts.DisableCertValidation {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		}
	}

	return &HTTPClient{
		config:     config,
		httpClient: httpClient,
	}
}

// RequestOptions contains options for making HTTP requests.
// All fields are required except QueryParams and Body.
type RequestOptions struct {
	Method      string            // HTTP method (GET, POST, PUT, DELETE)
	Path        string            // API endpoint path
	QueryParams map[string]string // Optional query parameters
	Body        []byte            // Optional request body
}

// DoRequest makes an HTTP request with the given options.
// Returns the response body, Location header (if present), and any error that
// occurred. Handles authentication using either token or API key based on
// availability and validity.
func (c *HTTPClient) DoRequest(opts RequestOptions) ([]byte, string, error) {
	u, err := url.Parse(c.config.GetServerURL())
	if err != nil {
		return nil, "", fmt.Errorf("invalid server URL: %v", err)
	}
	u.Path = path.Join(u.Path, opts.Path)

	q := u.Query()
	for k, v := range opts.QueryParams {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	bodyReader := bytes.NewBuffer(opts.Body)
	req, err := http.NewRequest(opts.Method, u.String(), bodyReader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode >= 400 {
		var serverErr ServerError
		if err := json.Unmarshal(body, &serverErr); err == nil && serverErr.Error != "" {
			return nil, "", &HTTPError{
				StatusCode: resp.StatusCode,
				Message:    serverErr.Error,
			}
		}
		return nil, "", &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	return body, resp.Header.Get("Location"), nil
}

// setAuthHeader sets the Authorization header. A valid unexpired token wins
// over the API key.
func (c *HTTPClient) setAuthHeader(req *http.Request) {
	if c.config.GetToken() != "" && !c.config.GetTokenExpiry().IsZero() {
		expiry := c.config.GetTokenExpiry()
		if time.Now().Before(expiry) {
			req.Header.Set("Authorization", "Bearer "+c.config.GetToken())
			return
		}
	}
	if c.config.GetAPIKey() != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.GetAPIKey())
	}
}

// CreateResource creates a new resource using the given JSON data.
// Returns the response body, Location header, and any error that occurred.
func (c *HTTPClient) CreateResource(resourceType string, data []byte, queryParams map[string]string) ([]byte, string, error) {
	opts := RequestOptions{
		Method:      http.MethodPost,
		Path:        strings.Trim(resourceType, "/"),
		QueryParams: queryParams,
		Body:        data,
	}
	return c.DoRequest(opts)
}

// GetResource retrieves a resource using the given resource name.
func (c *HTTPClient) GetResource(resourceType string, resourceName string, queryParams map[string]string) ([]byte, error) {
	opts := RequestOptions{
		Method:      http.MethodGet,
		Path:        joinResourcePath(resourceType, resourceName),
		QueryParams: queryParams,
	}
	body, _, err := c.DoRequest(opts)
	return body, err
}

// DeleteResource deletes a resource using the given resource name.
func (c *HTTPClient) DeleteResource(resourceType string, resourceName string, queryParams map[string]string) error {
	opts := RequestOptions{
		Method:      http.MethodDelete,
		Path:        joinResourcePath(resourceType, resourceName),
		QueryParams: queryParams,
	}
	_, _, err := c.DoRequest(opts)
	return err
}

// UpdateResource updates an existing resource using the given JSON data.
// The data must contain an id field identifying the resource.
func (c *HTTPClient) UpdateResource(resourceType string, data []byte, queryParams map[string]string) ([]byte, error) {
	resourceName := gjson.GetBytes(data, "id").String()
	if resourceName == "" {
		return nil, fmt.Errorf("id is required for update")
	}

	opts := RequestOptions{
		Method:      http.MethodPut,
		Path:        joinResourcePath(resourceType, resourceName),
		QueryParams: queryParams,
		Body:        data,
	}
	body, _, err := c.DoRequest(opts)
	return body, err
}

// ListResources lists resources of a specific type.
func (c *HTTPClient) ListResources(resourceType string, queryParams map[string]string) ([]byte, error) {
	opts := RequestOptions{
		Method:      http.MethodGet,
		Path:        strings.Trim(resourceType, "/"),
		QueryParams: queryParams,
	}
	body, _, err := c.DoRequest(opts)
	return body, err
}

// joinResourcePath joins a resource type and name into a clean request path.
func joinResourcePath(resourceType, resourceName string) string {
	resourceType = strings.Trim(resourceType, "/")
	resourceName = strings.Trim(resourceName, "/")
	return resourceType + "/" + resourceName
}
