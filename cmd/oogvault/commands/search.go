// ABOUTME: CLI command to search saved conversations
// ABOUTME: Fuzzy matches titles and message text, best match first
package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/oogvault/internal/core"
	"github.com/harper/oogvault/internal/util"
)

var (
	searchLimit int
)

// NewSearchCmd creates search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search saved conversations",
		Long: `Search conversation titles and messages with fuzzy keyword matching.

Typos are tolerated; filler words are ignored.

Examples:
  oogvault search "goroutine leak"
  oogvault search --limit 5 "docker compose networking"
  oogvault search --format json "sql index"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", core.DefaultConversationLimit, "Maximum number of results")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	query := strings.Join(args, " ")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.retriever.SearchConversations(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("searching conversations: %w", err)
	}

	if jsonOutput() {
		return printJSON(cmd, results)
	}
	if len(results) == 0 {
		say(cmd, "No conversations found for query: %s\n", query)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "SCORE\tTITLE\tPLATFORM\tID\tMATCH\n")
	_, _ = fmt.Fprintf(w, "-----\t-----\t--------\t--\t-----\n")
	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%.3f\t%s\t%s\t%s\t%s\n",
			r.Score,
			util.Ellipsize(r.Title, 30),
			r.Platform,
			r.ID,
			util.Ellipsize(oneLine(r.MatchedContent), 60))
	}
	_ = w.Flush()

	say(cmd, "\nFound %d result(s)\n", len(results))
	return nil
}

// oneLine collapses whitespace so previews fit in a table cell
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
