// ABOUTME: CLI command to show one conversation
// ABOUTME: Prints metadata, tags and the full message history
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/oogvault/internal/models"
)

// NewGetCmd creates get command
func NewGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a saved conversation",
		Long: `Show a saved conversation with its tags and messages.

Examples:
  oogvault get 6f1c2a
  oogvault get 6f1c2a --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runGet,
	}

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	id := args[0]

	conv, err := a.store.GetConversation(ctx, id)
	if err != nil {
		return fmt.Errorf("getting conversation: %w", err)
	}
	if conv == nil {
		return fmt.Errorf("conversation %s not found", id)
	}

	tags, err := a.store.GetTagsForConversation(ctx, id)
	if err != nil {
		return fmt.Errorf("getting tags: %w", err)
	}

	if jsonOutput() {
		return printJSON(cmd, struct {
			*models.Conversation
			Tags []string `json:"tags"`
		}{conv, tags})
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s\n", conv.Title)
	_, _ = fmt.Fprintf(out, "ID:       %s\n", conv.ID)
	_, _ = fmt.Fprintf(out, "Platform: %s\n", conv.Platform)
	if conv.URL != "" {
		_, _ = fmt.Fprintf(out, "URL:      %s\n", conv.URL)
	}
	_, _ = fmt.Fprintf(out, "Created:  %s\n", conv.CreatedAt.Local().Format("2006-01-02 15:04"))
	_, _ = fmt.Fprintf(out, "Updated:  %s\n", formatTime(conv.UpdatedAt))
	if len(tags) > 0 {
		_, _ = fmt.Fprintf(out, "Tags:     %v\n", tags)
	}

	for _, m := range conv.Messages {
		speaker := "Assistant"
		if m.Role == models.RoleUser {
			speaker = "You"
		}
		_, _ = fmt.Fprintf(out, "\n[%s]\n%s\n", speaker, m.Content)
	}

	return nil
}
