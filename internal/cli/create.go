package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create -f FILENAME [flags]",
	Short: "Create a project from a file",
	Long: `Create a project from a YAML definition file. The file sets the project
name, description, and enabled flag, and may also assign members and quota
limits. Values of the form {{ .ENV.VAR }} are substituted from the
environment or a .env file.

Example definition:
  name: engineering
  description: Engineering tenant
  enabled: true
  members:
    ROLE_ID:
      - USER_ID
  quota:
    cores: 32
    ram: 65536

Examples:
  # Create a project
  syspanel create -f project.yaml`,
	RunE: createProject,
}

// createProject loads the project definition and submits the create workflow
func createProject(cmd *cobra.Command, args []string) error {
	filename, err := cmd.Flags().GetString("filename")
	if err != nil {
		return err
	}
	if filename == "" {
		return fmt.Errorf("filename is required")
	}

	req, err := LoadProjectFile(filename)
	if err != nil {
		return err
	}

	client, err := panelClient()
	if err != nil {
		return err
	}

	rsp, err := client.CreateProject(cmd.Context(), *req)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]any{
			"result": 1,
			"value":  rsp,
		})
		return nil
	}

	printMessages(rsp.Messages)
	fmt.Printf("Project ID: %s\n", rsp.Project.ID)
	return nil
}

func init() {
	createCmd.Flags().StringP("filename", "f", "", "Path to the YAML file containing the project definition")
	createCmd.MarkFlagRequired("filename")
	rootCmd.AddCommand(createCmd)
}
