// ABOUTME: CLI command to build a continue-conversation prompt
// ABOUTME: Paste the output into a new chat to pick up where you left off
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/oogvault/internal/core"
)

// NewSummaryCmd creates summary command
func NewSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <id>",
		Short: "Print a prompt to continue a conversation",
		Long: `Print a prompt that summarizes a saved conversation: the topics you
asked about and the last exchange. Paste it into a new chat to continue.

Examples:
  oogvault summary 6f1c2a
  oogvault summary 6f1c2a | pbcopy`,
		Args: cobra.ExactArgs(1),
		RunE: runSummary,
	}

	return cmd
}

func runSummary(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	msgs, err := a.store.GetMessagesForConversation(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting messages: %w", err)
	}

	summary := core.ConversationSummary(msgs)
	if jsonOutput() {
		return printJSON(cmd, map[string]string{
			"conversation_id": args[0],
			"summary":         summary,
		})
	}
	if summary == "" {
		return fmt.Errorf("conversation %s has no messages", args[0])
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), summary)
	return nil
}
