package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// usageCmd represents the usage command
var usageCmd = &cobra.Command{
	Use:   "usage TENANT_ID [flags]",
	Short: "Show the per-instance usage report of a project",
	Long: `Show the per-instance usage report of a project.

Examples:
  # Show usage for a project
  syspanel usage TENANT_ID

  # Show usage in JSON format
  syspanel usage TENANT_ID -j`,
	Args: cobra.ExactArgs(1),
	RunE: showUsage,
}

// showUsage prints a tenant's usage report
func showUsage(cmd *cobra.Command, args []string) error {
	client, err := panelClient()
	if err != nil {
		return err
	}

	rsp, err := client.Usage(cmd.Context(), args[0])
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
	fmt.Printf("Usage for project %s:\n", rsp.TenantID)
	if len(rsp.Instances) == 0 {
		fmt.Println("No instances.")
		return nil
	}
	fmt.Printf("%-36s %-20s %6s %10s %8s %10s %-10s\n",
		"ID", "NAME", "VCPUS", "MEMORY_MB", "DISK_GB", "HOURS", "STATE")
	for _, inst := range rsp.Instances {
		fmt.Printf("%-36s %-20s %6d %10d %8d %10.2f %-10s\n",
			inst.ID, inst.Name, inst.VCPUs, inst.MemoryMB, inst.DiskGB, inst.Hours, inst.State)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(usageCmd)
}
