package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete RESOURCE_TYPE ID [flags]",
	Short: "Delete a resource by ID",
	Long: `Delete a resource by ID. Supported resource types include:
  - project

Examples:
  # Delete a project
  syspanel delete project TENANT_ID`,
	Args: cobra.ExactArgs(2),
	RunE: deleteResource,
}

// deleteResource deletes a single resource
func deleteResource(cmd *cobra.Command, args []string) error {
	resourceType := args[0]
	if resourceType != "project" {
		return fmt.Errorf("unsupported resource type: %s", resourceType)
	}

	client, err := panelClient()
	if err != nil {
		return err
	}

	if err := client.DeleteProject(cmd.Context(), args[1]); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]int{"result": 1})
	} else {
		okLabel.Printf("[OK] ")
		fmt.Printf("Deleted: %s\n", args[1])
	}
	return nil
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
