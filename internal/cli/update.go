package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update TENANT_ID -f FILENAME [flags]",
	Short: "Update a project from a file",
	Long: `Update a project from a YAML definition file. The file uses the same
shape as the create command. When a members section is present the project's
membership is reconciled to match it; when it is omitted membership is left
untouched.

Examples:
  # Update a project
  syspanel update TENANT_ID -f project.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: updateProject,
}

// updateProject loads the project definition and submits the update workflow
func updateProject(cmd *cobra.Command, args []string) error {
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

	rsp, err := client.UpdateProject(cmd.Context(), args[0], *req)
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
	return nil
}

func init() {
	updateCmd.Flags().StringP("filename", "f", "", "Path to the YAML file containing the project definition")
	updateCmd.MarkFlagRequired("filename")
	rootCmd.AddCommand(updateCmd)
}
