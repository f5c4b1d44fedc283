package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list RESOURCE_TYPE [flags]",
	Short: "List resources of a specific type",
	Long: `List resources of a specific type. Supported resource types include:
  - projects

Examples:
  # List all projects
  syspanel list projects

  # List projects in JSON format
  syspanel list projects -j`,
	Args: cobra.ExactArgs(1),
	RunE: listResources,
}

// listResources handles listing resources of a specific type
func listResources(cmd *cobra.Command, args []string) error {
	resourceType := args[0]
	if resourceType != "projects" && resourceType != "project" {
		return fmt.Errorf("unsupported resource type: %s", resourceType)
	}

	client, err := panelClient()
	if err != nil {
		return err
	}

	rsp, err := client.ListProjects(cmd.Context())
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
	fmt.Printf("%s:\n", cases.Title(language.English).String("projects"))
	for _, p := range rsp.Projects {
		fmt.Printf("- %s  %s  (%s)\n", p.ID, p.Name, formatEnabled(p.Enabled))
	}
	if hasErrorMessage(rsp.Messages) {
		return ErrAlreadyHandled
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
}
