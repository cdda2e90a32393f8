// ABOUTME: CLI command to list saved conversations
// ABOUTME: Most recently updated first, filterable by platform and tag
package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/oogvault/internal/models"
	"github.com/harper/oogvault/internal/util"
)

var (
	listPlatform string
	listTag      string
	listLimit    int
)

// NewListCmd creates list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved conversations",
		Long: `List saved conversations, most recently updated first.

Examples:
  oogvault list
  oogvault list --platform claude
  oogvault list --tag golang --limit 10
  oogvault list --format json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().StringVar(&listPlatform, "platform", "", "Only show conversations from this platform")
	cmd.Flags().StringVar(&listTag, "tag", "", "Only show conversations with this tag")
	cmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum number of conversations")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(listLimit, "limit"); err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	convs, err := a.store.GetAllConversations(ctx)
	if err != nil {
		return fmt.Errorf("listing conversations: %w", err)
	}

	tag := models.NormalizeTag(listTag)
	filtered := make([]models.Conversation, 0, len(convs))
	for _, c := range convs {
		if listPlatform != "" && !strings.EqualFold(c.Platform, listPlatform) {
			continue
		}
		if tag != "" {
			tags, err := a.store.GetTagsForConversation(ctx, c.ID)
			if err != nil {
				return fmt.Errorf("getting tags: %w", err)
			}
			if !containsString(tags, tag) {
				continue
			}
		}
		filtered = append(filtered, c)
		if len(filtered) == listLimit {
			break
		}
	}

	if jsonOutput() {
		return printJSON(cmd, filtered)
	}
	if len(filtered) == 0 {
		say(cmd, "No conversations found\n")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "TITLE\tPLATFORM\tUPDATED\tID\n")
	_, _ = fmt.Fprintf(w, "-----\t--------\t-------\t--\n")
	for _, c := range filtered {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			util.Ellipsize(c.Title, 40),
			c.Platform,
			formatTime(c.UpdatedAt),
			c.ID)
	}
	_ = w.Flush()

	say(cmd, "\nTotal: %d conversation(s)\n", len(filtered))
	return nil
}
