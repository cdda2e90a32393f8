// ABOUTME: CLI commands to delete conversations or wipe the vault
// ABOUTME: delete removes one conversation with its tags and nuggets; clear removes everything
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCmd creates delete command
func NewDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id> [id...]",
		Short: "Delete saved conversations",
		Long: `Delete conversations together with their messages, tags and nuggets.

Deleting an id that does not exist is not an error.

Examples:
  oogvault delete 6f1c2a
  oogvault delete 6f1c2a 90be41`,
		Args: cobra.MinimumNArgs(1),
		RunE: runDelete,
	}

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	for _, id := range args {
		if err := a.store.DeleteConversation(cmd.Context(), id); err != nil {
			return fmt.Errorf("deleting %s: %w", id, err)
		}
		say(cmd, "✓ Deleted %s\n", id)
	}
	return nil
}

// NewClearCmd creates clear command
func NewClearCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all data in the vault",
		Long: `Delete every conversation, message, tag and nugget.

WARNING: This cannot be undone. Export first if you want a backup:
  oogvault export --type json --output backup.json
  oogvault clear --confirm`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "This will delete ALL saved conversations!")
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Run with --confirm to proceed")
				return nil
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.ClearAll(cmd.Context()); err != nil {
				return fmt.Errorf("clearing vault: %w", err)
			}

			say(cmd, "All data cleared\n")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm deleting everything")

	return cmd
}
