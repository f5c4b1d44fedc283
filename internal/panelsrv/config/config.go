// Package config loads and validates the panel server configuration. The
// config file is TOML; upstream service credentials may be supplied through
// the environment (optionally via a .env file) so they stay out of the
// config file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Version is the supported config file format version.
const Version = "0.3"

const (
	identityTokenEnv = "SYSPANEL_IDENTITY_TOKEN"
	computeTokenEnv  = "SYSPANEL_COMPUTE_TOKEN"
)

// UpstreamConfig holds the connection settings for one remote service
// (identity or compute). It implements httpclient.Configurator so the
// outbound REST client can consume it directly.
type UpstreamConfig struct {
	Endpoint       string `toml:"endpoint"`        // Base URL of the service
	APIToken       string `toml:"-"`               // Bearer token, from environment
	RequestTimeout string `toml:"request_timeout"` // Per-request timeout
}

// GetServerURL returns the service base URL.
func (u *UpstreamConfig) GetServerURL() string { return u.Endpoint }

// GetAPIKey returns the bearer token for the service.
func (u *UpstreamConfig) GetAPIKey() string { return u.APIToken }

// GetToken returns the short-lived token. The panel only uses static API
// tokens, so this is always empty.
func (u *UpstreamConfig) GetToken() string { return "" }

// GetTokenExpiry returns the token expiry. Always zero; see GetToken.
func (u *UpstreamConfig) GetTokenExpiry() time.Time { return time.Time{} }

// GetRequestTimeout returns the per-request timeout as time.Duration.
func (u *UpstreamConfig) GetRequestTimeout() (time.Duration, error) {
	return ParseDuration(u.RequestTimeout)
}

// GetRequestTimeoutOrDefault returns the per-request timeout as
// time.Duration or panics if the value is invalid.
func (u *UpstreamConfig) GetRequestTimeoutOrDefault() time.Duration {
	duration, err := u.GetRequestTimeout()
	if err != nil {
		panic(fmt.Sprintf("invalid request timeout: %v", err))
	}
	return duration
}

// ConfigParam holds all configuration parameters for the panel service
type ConfigParam struct {
	// Configuration version
	FormatVersion string `toml:"format_version"` // Version of this configuration file format

	// Server configuration
	ServerHostName     string   `toml:"server_hostname"`       // Hostname for the server
	ServerPort         string   `toml:"server_port"`           // Port for the server
	HandleCORS         bool     `toml:"handle_cors"`           // Whether to handle CORS
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`  // Origins allowed when CORS handling is on
	MaxRequestBodySize int64    `toml:"max_request_body_size"` // Maximum size of request body in bytes
	RequestTimeout     string   `toml:"request_timeout"`       // Per-request handling timeout
	SupportTLS         bool     `toml:"support_tls"`           // Whether to support TLS
	TLSCertFile        string   `toml:"tls_cert_file"`         // Path to TLS certificate file
	TLSKeyFile         string   `toml:"tls_key_file"`          // Path to TLS key file
	TLSCertPEM         []byte   `toml:"-"`                     // PEM encoded TLS certificate
	TLSKeyPEM          []byte   `toml:"-"`                     // PEM encoded TLS key

	// DefaultTenantID is the tenant used when asking the compute service for
	// quota defaults and no operator tenant is present on the request.
	DefaultTenantID string `toml:"default_tenant_id"`

	// Identity service configuration
	Identity UpstreamConfig `toml:"identity"`

	// Compute service configuration
	Compute UpstreamConfig `toml:"compute"`
}

var cfg *ConfigParam

// Config returns the current configuration
func Config() *ConfigParam {
	return cfg
}

// GetRequestTimeout returns the request handling timeout as time.Duration.
func (c *ConfigParam) GetRequestTimeout() (time.Duration, error) {
	return ParseDuration(c.RequestTimeout)
}

// GetRequestTimeoutOrDefault returns the request handling timeout as
// time.Duration or panics if the value is invalid.
func (c *ConfigParam) GetRequestTimeoutOrDefault() time.Duration {
	duration, err := c.GetRequestTimeout()
	if err != nil {
		panic(fmt.Sprintf("invalid request timeout: %v", err))
	}
	return duration
}

// LoadConfig reads the config file at the given path, overlays environment
// values, and validates the result. A .env file in the working directory is
// loaded first so local deployments can keep tokens out of the environment.
func LoadConfig(path string) error {
	_ = godotenv.Load() // no error if .env doesn't exist

	newCfg := &ConfigParam{}
	if _, err := toml.DecodeFile(path, newCfg); err != nil {
		return fmt.Errorf("unable to parse config file: %w", err)
	}

	newCfg.Identity.APIToken = os.Getenv(identityTokenEnv)
	newCfg.Compute.APIToken = os.Getenv(computeTokenEnv)

	if err := ValidateConfig(newCfg); err != nil {
		return err
	}

	if newCfg.SupportTLS {
		certPEM, err := os.ReadFile(newCfg.TLSCertFile)
		if err != nil {
			return fmt.Errorf("unable to read TLS certificate: %w", err)
		}
		keyPEM, err := os.ReadFile(newCfg.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("unable to read TLS key: %w", err)
		}
		newCfg.TLSCertPEM = certPEM
		newCfg.TLSKeyPEM = keyPEM
	}

	cfg = newCfg
	return nil
}

// ParseDuration parses a duration string in the format "<number><unit>"
// where unit can be:
// - s: seconds
// - m: minutes
// - h: hours
// - d: days
func ParseDuration(input string) (time.Duration, error) {
	if len(input) < 2 {
		return 0, fmt.Errorf("invalid input format")
	}

	unit := input[len(input)-1:]
	valueStr := input[:len(input)-1]
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", err)
	}

	var duration time.Duration
	switch unit {
	case "s":
		duration = time.Duration(value) * time.Second
	case "m":
		duration = time.Duration(value) * time.Minute
	case "h":
		duration = time.Duration(value) * time.Hour
	case "d":
		duration = time.Duration(value) * 24 * time.Hour
	default:
		return 0, fmt.Errorf("unknown time unit: %s", unit)
	}

	return duration, nil
}

// ValidateConfig checks if all required configuration values are present and valid
func ValidateConfig(cfg *ConfigParam) error {
	if err := validateConfigFormatVersion(cfg); err != nil {
		return err
	}
	if err := validateServerConfig(cfg); err != nil {
		return err
	}
	if err := validateUpstreamConfig("identity", &cfg.Identity); err != nil {
		return err
	}
	if err := validateUpstreamConfig("compute", &cfg.Compute); err != nil {
		return err
	}
	if err := validateTLSConfig(cfg); err != nil {
		return err
	}
	return nil
}

func validateConfigFormatVersion(cfg *ConfigParam) error {
	if cfg.FormatVersion != Version {
		return fmt.Errorf("unsupported config file format version: %s", cfg.FormatVersion)
	}
	return nil
}

func validateServerConfig(cfg *ConfigParam) error {
	if cfg.ServerPort == "" {
		return fmt.Errorf("server_port is required")
	}
	if cfg.RequestTimeout == "" {
		return fmt.Errorf("request_timeout is required")
	}
	if _, err := ParseDuration(cfg.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request_timeout: %v", err)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return fmt.Errorf("max_request_body_size must be positive")
	}
	if cfg.HandleCORS && len(cfg.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("cors_allowed_origins is required when handle_cors is set")
	}
	return nil
}

func validateUpstreamConfig(name string, u *UpstreamConfig) error {
	if u.Endpoint == "" {
		return fmt.Errorf("%s.endpoint is required", name)
	}
	if u.RequestTimeout == "" {
		return fmt.Errorf("%s.request_timeout is required", name)
	}
	if _, err := ParseDuration(u.RequestTimeout); err != nil {
		return fmt.Errorf("invalid %s.request_timeout: %v", name, err)
	}
	return nil
}

func validateTLSConfig(cfg *ConfigParam) error {
	if !cfg.SupportTLS {
		return nil
	}
	if cfg.TLSCertFile == "" {
		return fmt.Errorf("tls_cert_file is required when support_tls is set")
	}
	if cfg.TLSKeyFile == "" {
		return fmt.Errorf("tls_key_file is required when support_tls is set")
	}
	return nil
}

// TestInit initializes a self-contained configuration for unit tests. The
// upstream endpoints point at localhost and are expected to be overridden by
// the test's own httptest servers.
func TestInit() {
	cfg = &ConfigParam{
		FormatVersion:      Version,
		ServerHostName:     "localhost",
		ServerPort:         "8190",
		MaxRequestBodySize: 1 << 20,
		RequestTimeout:     "30s",
		DefaultTenantID:    "admin-tenant",
		Identity: UpstreamConfig{
			Endpoint:       "http://localhost:35357",
			RequestTimeout: "5s",
		},
		Compute: UpstreamConfig{
			Endpoint:       "http://localhost:8774",
			RequestTimeout: "5s",
		},
	}
}
