// Package cli implements the syspanel command line interface. It talks to
// the panel server through the typed client in pkg/api and renders either
// human-readable output or JSON.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/syspanel/syspanel/internal/panelsrv/pancommon"
	"github.com/syspanel/syspanel/pkg/api"
)

var (
	// Global flags
	jsonOutput bool
	configFile string
)

var ErrAlreadyHandled = errors.New("already handled")

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)
var warnLabel = color.New(color.FgYellow)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "syspanel [command] [flags]",
	Short: "Syspanel CLI - A command line interface for the admin project panel",
	Long: `Syspanel CLI is a command line interface for the admin project panel.
It lists projects, manages project membership, and drives the create and
update project workflows against the panel server.

Examples:
  # List all projects
  syspanel list projects

  # Show a project with its quota
  syspanel get project TENANT_ID

  # Show members and addable users of a project
  syspanel users TENANT_ID

  # Create a project from a YAML definition
  syspanel create -f project.yaml

  # Delete a project
  syspanel delete project TENANT_ID`,
	PersistentPreRun: preRunHandlePersistents,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")

	rootCmd.AddCommand(newVersionCmd())
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	err := rootCmd.Execute()
	if err != nil {
		if errors.Is(err, ErrAlreadyHandled) {
			os.Exit(1)
		}
		if jsonOutput {
			kv := map[string]string{
				"error": err.Error(),
			}
			printJSON(kv)
		} else {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// preRunHandlePersistents loads the CLI configuration before command
// execution. Commands that manage the configuration itself run without it.
func preRunHandlePersistents(cmd *cobra.Command, args []string) {
	if configFile == "" {
		var err error
		configFile, err = GetDefaultConfigPath()
		if err != nil {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	skipConfig := false
	c := cmd
	for c != nil {
		if c.Name() == "config" || c.Name() == "version" {
			skipConfig = true
			break
		}
		c = c.Parent()
	}

	if !skipConfig {
		if err := LoadConfig(configFile); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Println("Syspanel config file not found. Configure syspanel with \"syspanel config create\" first.")
				os.Exit(1)
			}
			fmt.Printf("%s\n", err.Error())
			os.Exit(1)
		}
	}
}

// panelClient builds the typed client from the loaded configuration.
func panelClient() (*api.Client, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return api.NewClient(cfg.ServerURL, api.WithAPIKey(cfg.APIKey))
}

// newVersionCmd creates and returns a new version command. When a server is
// configured it also reports the server version and whether this CLI is
// compatible with it.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of syspanel-cli and the configured server",
		Run: func(cmd *cobra.Command, args []string) {
			configPath, err := GetDefaultConfigPath()
			if err != nil {
				configPath = "unknown"
			}

			serverVersion := ""
			compatible := false
			if LoadConfig(configFile) == nil {
				if client, err := panelClient(); err == nil {
					ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
					defer cancel()
					if rsp, err := client.Version(ctx); err == nil {
						serverVersion = rsp.ServerVersion
						compatible = pancommon.IsVersionCompatible(serverApiVersion(rsp))
					}
				}
			}

			if jsonOutput {
				kv := map[string]any{
					"version":     getCLIVersion(),
					"config_file": configPath,
				}
				if serverVersion != "" {
					kv["server_version"] = serverVersion
					kv["compatible"] = compatible
				}
				printJSON(kv)
				return
			}

			cmd.Printf("syspanel CLI %s\n", getCLIVersion())
			cmd.Printf("Config file: %s\n", configPath)
			if serverVersion != "" {
				cmd.Printf("Server: %s\n", serverVersion)
				if compatible {
					okLabel.Fprintf(os.Stdout, "[OK] ")
					fmt.Fprintln(os.Stdout, "Server version is compatible")
				} else {
					errorLabel.Fprintf(os.Stdout, "[ERROR] ")
					fmt.Fprintln(os.Stdout, "Server version is not compatible with this CLI")
				}
			}
		},
	}
}

// serverApiVersion extracts the bare semantic version from the server's
// version banner ("Syspanel Server: 0.3.0").
func serverApiVersion(rsp *api.VersionRsp) string {
	version := rsp.ServerVersion
	if i := strings.LastIndex(version, " "); i >= 0 {
		return version[i+1:]
	}
	return version
}

// printJSON prints the given value as JSON to stdout
func printJSON(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(jsonData))
}

// getCLIVersion returns the current CLI version
func getCLIVersion() string {
	return "v" + pancommon.ServerVersion
}
