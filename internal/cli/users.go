package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addUserRole string

// usersCmd represents the users command
var usersCmd = &cobra.Command{
	Use:   "users TENANT_ID [flags]",
	Short: "Show and manage the users of a project",
	Long: `Show the members of a project along with the users that can still be
added to it, and add or remove members.

Examples:
  # Show members and addable users of a project
  syspanel users TENANT_ID

  # Add a user to a project with the default role
  syspanel users add TENANT_ID USER_ID

  # Add a user to a project with an explicit role
  syspanel users add TENANT_ID USER_ID --role ROLE_ID

  # Remove a user from a project
  syspanel users remove TENANT_ID USER_ID`,
	Args: cobra.ExactArgs(1),
	RunE: showProjectUsers,
}

// showProjectUsers prints the member and addable-user lists of a tenant
func showProjectUsers(cmd *cobra.Command, args []string) error {
	client, err := panelClient()
	if err != nil {
		return err
	}

	rsp, err := client.ProjectUsers(cmd.Context(), args[0])
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
	fmt.Printf("Project: %s\n", rsp.Tenant.Name)
	fmt.Println("Members:")
	for _, u := range rsp.Members {
		fmt.Printf("- %s  %s\n", u.ID, u.Name)
	}
	fmt.Println("Addable users:")
	for _, u := range rsp.AddableUsers {
		fmt.Printf("- %s  %s\n", u.ID, u.Name)
	}
	if hasErrorMessage(rsp.Messages) {
		return ErrAlreadyHandled
	}
	return nil
}

// usersAddCmd represents the users add command
var usersAddCmd = &cobra.Command{
	Use:   "add TENANT_ID USER_ID [flags]",
	Short: "Add a user to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tenantID, userID := args[0], args[1]

		client, err := panelClient()
		if err != nil {
			return err
		}

		roleID := addUserRole
		if roleID == "" {
			// No role given: take the prefilled default from the add-user form.
			form, err := client.AddUserForm(cmd.Context(), tenantID, userID)
			if err != nil {
				return err
			}
			if form.Initial.RoleID.IsNil() {
				return fmt.Errorf("no default role configured; pass one with --role")
			}
			roleID = form.Initial.RoleID.Value
		}

		rsp, err := client.AddUser(cmd.Context(), tenantID, userID, roleID)
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
	},
}

// usersRemoveCmd represents the users remove command
var usersRemoveCmd = &cobra.Command{
	Use:   "remove TENANT_ID USER_ID",
	Short: "Remove a user from a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := panelClient()
		if err != nil {
			return err
		}

		if err := client.RemoveUser(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}

		if jsonOutput {
			printJSON(map[string]int{"result": 1})
		} else {
			okLabel.Printf("[OK] ")
			fmt.Printf("Removed user %s from project %s\n", args[1], args[0])
		}
		return nil
	},
}

func init() {
	usersAddCmd.Flags().StringVar(&addUserRole, "role", "", "Role ID to grant (defaults to the server's default role)")

	usersCmd.AddCommand(usersAddCmd)
	usersCmd.AddCommand(usersRemoveCmd)
	rootCmd.AddCommand(usersCmd)
}
