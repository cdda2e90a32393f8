// ABOUTME: CLI commands to manage conversation tags
// ABOUTME: Tags are lowercased and unique per conversation
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewTagCmd creates the tag command group
func NewTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage conversation tags",
		Long: `Add, remove and list conversation tags.

Tags are trimmed and lowercased. Adding a tag twice is a no-op.

Examples:
  oogvault tag add 6f1c2a golang
  oogvault tag remove 6f1c2a golang
  oogvault tag list 6f1c2a
  oogvault tag list`,
	}

	cmd.AddCommand(newTagAddCmd())
	cmd.AddCommand(newTagRemoveCmd())
	cmd.AddCommand(newTagListCmd())

	return cmd
}

func newTagAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <conversation-id> <tag>",
		Short: "Tag a conversation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.AddTag(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("adding tag: %w", err)
			}
			say(cmd, "✓ Tagged %s\n", args[0])
			return nil
		},
	}
}

func newTagRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <conversation-id> <tag>",
		Short: "Remove a tag from a conversation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.RemoveTag(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("removing tag: %w", err)
			}
			say(cmd, "✓ Removed tag from %s\n", args[0])
			return nil
		},
	}
}

func newTagListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [conversation-id]",
		Short: "List tags of a conversation, or all tags with counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()

			if len(args) == 1 {
				tags, err := a.store.GetTagsForConversation(ctx, args[0])
				if err != nil {
					return fmt.Errorf("getting tags: %w", err)
				}
				if jsonOutput() {
					return printJSON(cmd, tags)
				}
				if len(tags) == 0 {
					say(cmd, "No tags\n")
				}
				for _, t := range tags {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), t)
				}
				return nil
			}

			counts, err := a.store.ListTags(ctx)
			if err != nil {
				return fmt.Errorf("listing tags: %w", err)
			}
			if jsonOutput() {
				return printJSON(cmd, counts)
			}
			if len(counts) == 0 {
				say(cmd, "No tags\n")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(w, "TAG\tCONVERSATIONS\n")
			_, _ = fmt.Fprintf(w, "---\t-------------\n")
			for _, c := range counts {
				_, _ = fmt.Fprintf(w, "%s\t%d\n", c.Tag, c.Count)
			}
			return w.Flush()
		},
	}
}
