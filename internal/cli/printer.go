package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/syspanel/syspanel/pkg/api"
	"github.com/syspanel/syspanel/pkg/types"
)

// printMessages renders the user-facing messages attached to a panel response.
// Severity maps to the label color; errors and warnings go to stderr.
func printMessages(messages []api.Message) {
	for _, m := range messages {
		switch m.Severity {
		case api.SeveritySuccess:
			okLabel.Fprintf(os.Stdout, "[OK] ")
			fmt.Fprintln(os.Stdout, m.Text)
		case api.SeverityWarning:
			warnLabel.Fprintf(os.Stderr, "[WARN] ")
			fmt.Fprintln(os.Stderr, m.Text)
		case api.SeverityError:
			errorLabel.Fprintf(os.Stderr, "[ERROR] ")
			fmt.Fprintln(os.Stderr, m.Text)
		default:
			fmt.Fprintln(os.Stdout, m.Text)
		}
	}
}

// hasErrorMessage reports whether any of the messages carries error severity.
func hasErrorMessage(messages []api.Message) bool {
	for _, m := range messages {
		if m.Severity == api.SeverityError {
			return true
		}
	}
	return false
}

// formatEnabled renders a tenant's enabled flag the way the panel does.
func formatEnabled(enabled bool) string {
	if enabled {
		return color.GreenString("enabled")
	}
	return color.RedString("disabled")
}

// formatQuotaValue renders a nullable quota limit, using "-" for limits the
// remote service did not report.
func formatQuotaValue(v types.NullableInt64) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%d", v.Value)
}
