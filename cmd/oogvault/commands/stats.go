// ABOUTME: CLI command to show vault statistics
// ABOUTME: Counts conversations, messages, nuggets and tags
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCmd creates stats command
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show vault statistics",
		Long: `Show how many conversations, messages, nuggets and tags are stored.

Examples:
  oogvault stats
  oogvault stats --format json`,
		Args: cobra.NoArgs,
		RunE: runStats,
	}

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.store.GetStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("getting stats: %w", err)
	}

	if jsonOutput() {
		return printJSON(cmd, stats)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Conversations: %d\n", stats.Conversations)
	_, _ = fmt.Fprintf(out, "Messages:      %d\n", stats.Messages)
	_, _ = fmt.Fprintf(out, "Nuggets:       %d\n", stats.Nuggets)
	_, _ = fmt.Fprintf(out, "Tags:          %d\n", stats.Tags)
	if !quiet {
		_, _ = fmt.Fprintf(out, "Database:      %s\n", a.store.Path())
	}
	return nil
}
