package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// Config represents the configuration for the Syspanel CLI
// It contains server connection details and authentication information
type Config struct {
	// Version of the configuration file format
	Version string `yaml:"version"`
	// ServerURL is the URL and port of the panel server
	ServerURL string `yaml:"server_url"`
	// APIKey is the authentication token for the panel server
	APIKey string `yaml:"api_key"`
}

var config *Config

// GetDefaultConfigPath returns the default path for the config file
// It uses the OS-specific config directory (e.g., ~/.config/syspanel on Linux)
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "syspanel", DefaultConfigFile), nil
}

// LoadConfig loads the configuration from the specified file
// If no file is specified, it uses the default config location
func LoadConfig(file string) error {
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	yamlStr, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("unable to read config file: %w", err)
	}

	var c Config
	if err = yaml.Unmarshal(yamlStr, &c); err != nil {
		return fmt.Errorf("unable to parse config file: %w", err)
	}

	if c.ServerURL == "" {
		return errors.New("server:port is required")
	}
	if !strings.Contains(c.ServerURL, ":") {
		return errors.New("server:port must include port number")
	}

	c.ServerURL = MorphServer(c.ServerURL)

	config = &c
	return nil
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	return config
}

// WriteConfig writes the current configuration to the specified file
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	err := os.MkdirAll(filepath.Dir(file), os.ModePerm)
	if err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	yamlStr, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("unable to generate configuration: %w", err)
	}

	err = os.WriteFile(file, yamlStr, os.FileMode(0600))
	if err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}

	return nil
}

// MorphServer ensures the server URL is properly formatted
// Adds https:// prefix if missing and removes trailing slashes
func MorphServer(server string) string {
	if server == "" {
		return server
	}

	server = strings.TrimRight(server, "/")

	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		server = "https://" + server
	}

	return server
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long:  `Manage CLI configuration settings like server connection and authentication.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Help()
		return nil
	},
}

// configCreateCmd represents the config create command
var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new CLI configuration",
	Long: `Create a new CLI configuration pointing at a panel server.

Example:
  syspanel config create --server panel.example.com:8678 --api-key KEY`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, _ := cmd.Flags().GetString("server")
		apiKey, _ := cmd.Flags().GetString("api-key")

		if server == "" {
			return errors.New("--server is required")
		}
		if !strings.Contains(server, ":") {
			return errors.New("server must include port number (e.g., example.com:8678)")
		}

		configPath := configFile
		if configPath == "" {
			var err error
			configPath, err = GetDefaultConfigPath()
			if err != nil {
				return fmt.Errorf("failed to get default config path: %w", err)
			}
		}

		cfg := &Config{
			Version:   "0.1.0",
			ServerURL: MorphServer(server),
			APIKey:    apiKey,
		}

		if err := cfg.WriteConfig(configPath); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		if jsonOutput {
			printJSON(map[string]string{
				"server":      cfg.ServerURL,
				"config_file": configPath,
			})
		} else {
			fmt.Printf("Server configured: %s\n", cfg.ServerURL)
			fmt.Printf("Config file: %s\n", configPath)
		}

		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current CLI configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := LoadConfig(configFile); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Println("Syspanel config file not found. Configure syspanel with \"syspanel config create\" first.")
				os.Exit(1)
			}
			return err
		}
		cfg := GetConfig()
		if jsonOutput {
			printJSON(map[string]string{
				"server":      cfg.ServerURL,
				"config_file": configFile,
			})
		} else {
			fmt.Printf("Server: %s\n", cfg.ServerURL)
		}
		return nil
	},
}

func init() {
	configCreateCmd.Flags().String("server", "", "Server URL and port (e.g., panel.example.com:8678)")
	configCreateCmd.Flags().String("api-key", "", "API key for the panel server")

	configCmd.AddCommand(configCreateCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
