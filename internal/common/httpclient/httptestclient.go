package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"strings"

	"github.com/tidwall/gjson"
)

// TestHTTPClient represents a test client for making HTTP requests directly
// to a mounted server handler. It uses httptest.NewRecorder to capture
// responses without making actual network calls.
type TestHTTPClient struct {
	config  Configurator
	handler http.Handler
}

// NewTestClient creates a new test HTTP client over an already mounted
// handler, typically the panel server's router.
func NewTestClient(config Configurator, handler http.Handler) *TestHTTPClient {
	return &TestHTTPClient{
		config:  config,
		handler: handler,
	}
}

// DoRequest makes an HTTP request with the given options directly to the
// test server. Uses httptest.NewRecorder to capture the response without
// making network calls. Returns the response body, Location header (if
// present), and any error that occurred.
func (c *TestHTTPClient) DoRequest(opts RequestOptions) ([]byte, string, error) {
	u, err := url.Parse(c.config.GetServerURL())
	if err != nil {
		return nil, "", fmt.Errorf("invalid server URL: %v", err)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	u.Path = path.Join(u.Path, opts.Path)

	q := u.Query()
	for k, v := range opts.QueryParams {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req := httptest.NewRequest(opts.Method, u.String(), bytes.NewBuffer(opts.Body))
	req.Header.Set("Content-Type", "application/json")
	if c.config.GetAPIKey() != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.GetAPIKey())
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	resp := rec.Result()
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

// CreateResource creates a new resource using the given JSON data against
// the test server.
func (c *TestHTTPClient) CreateResource(resourceType string, data []byte, queryParams map[string]string) ([]byte, string, error) {
	opts := RequestOptions{
		Method:      http.MethodPost,
		Path:        strings.Trim(resourceType, "/"),
		QueryParams: queryParams,
		Body:        data,
	}
	return c.DoRequest(opts)
}

// GetResource retrieves a resource using the given resource name against the
// test server.
func (c *TestHTTPClient) GetResource(resourceType string, resourceName string, queryParams map[string]string) ([]byte, error) {
	opts := RequestOptions{
		Method:      http.MethodGet,
		Path:        joinResourcePath(resourceType, resourceName),
		QueryParams: queryParams,
	}
	body, _, err := c.DoRequest(opts)
	return body, err
}

// DeleteResource deletes a resource using the given resource name against
// the test server.
func (c *TestHTTPClient) DeleteResource(resourceType string, resourceName string, queryParams map[string]string) error {
	opts := RequestOptions{
		Method:      http.MethodDelete,
		Path:        joinResourcePath(resourceType, resourceName),
		QueryParams: queryParams,
	}
	_, _, err := c.DoRequest(opts)
	return err
}

// UpdateResource updates an existing resource using the given JSON data
// against the test server. The data must contain an id field.
func (c *TestHTTPClient) UpdateResource(resourceType string, data []byte, queryParams map[string]string) ([]byte, error) {
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

// ListResources lists resources of a specific type against the test server.
func (c *TestHTTPClient) ListResources(resourceType string, queryParams map[string]string) ([]byte, error) {
	opts := RequestOptions{
		Method:      http.MethodGet,
		Path:        strings.Trim(resourceType, "/"),
		QueryParams: queryParams,
	}
	body, _, err := c.DoRequest(opts)
	return body, err
}
