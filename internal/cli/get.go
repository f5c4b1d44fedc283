package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get RESOURCE_TYPE ID [flags]",
	Short: "Get a resource by ID",
	Long: `Get a resource by ID. Supported resource types include:
  - project

Examples:
  # Show a project with its quota
  syspanel get project TENANT_ID

  # Show a project in JSON format
  syspanel get project TENANT_ID -j`,
	Args: cobra.ExactArgs(2),
	RunE: getResource,
}

// getResource retrieves a single resource and prints it
func getResource(cmd *cobra.Command, args []string) error {
	resourceType := args[0]
	if resourceType != "project" {
		return fmt.Errorf("unsupported resource type: %s", resourceType)
	}

	client, err := panelClient()
	if err != nil {
		return err
	}

	rsp, err := client.GetProject(cmd.Context(), args[1])
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
	fmt.Printf("Project: %s\n", rsp.Project.Name)
	fmt.Printf("  ID:          %s\n", rsp.Project.ID)
	if rsp.Project.Description != "" {
		fmt.Printf("  Description: %s\n", rsp.Project.Description)
	}
	fmt.Printf("  Status:      %s\n", formatEnabled(rsp.Project.Enabled))
	fmt.Println("  Quota:")
	for _, f := range rsp.Quota.Fields() {
		fmt.Printf("    %-28s %s\n", f.Name, formatQuotaValue(f.Value))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(getCmd)
}
