// ABOUTME: CLI command to list or search knowledge nuggets
// ABOUTME: Nuggets are question/answer pairs extracted from saved conversations
package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/oogvault/internal/core"
	"github.com/harper/oogvault/internal/models"
	"github.com/harper/oogvault/internal/util"
)

var (
	nuggetsConversation string
	nuggetsLimit        int
)

// NewNuggetsCmd creates nuggets command
func NewNuggetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nuggets [query]",
		Short: "List or search knowledge nuggets",
		Long: `List knowledge nuggets, newest first, or search them by keyword.

Nuggets pair each of your questions with the answer that followed it.

Examples:
  oogvault nuggets
  oogvault nuggets --conversation 6f1c2a
  oogvault nuggets "docker port"`,
		RunE: runNuggets,
	}

	cmd.Flags().StringVar(&nuggetsConversation, "conversation", "", "Only list nuggets from this conversation")
	cmd.Flags().IntVar(&nuggetsLimit, "limit", core.DefaultNuggetLimit, "Maximum number of search results")

	return cmd
}

func runNuggets(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(nuggetsLimit, "limit"); err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()

	if len(args) > 0 {
		query := strings.Join(args, " ")
		matches, err := a.retriever.SearchNuggetsText(ctx, query, nuggetsLimit)
		if err != nil {
			return fmt.Errorf("searching nuggets: %w", err)
		}
		if jsonOutput() {
			return printJSON(cmd, matches)
		}
		if len(matches) == 0 {
			say(cmd, "No nuggets found for query: %s\n", query)
			return nil
		}
		nuggets := make([]models.Nugget, 0, len(matches))
		for _, m := range matches {
			nuggets = append(nuggets, m.Nugget)
		}
		printNuggets(cmd, nuggets)
		return nil
	}

	var nuggets []models.Nugget
	if nuggetsConversation != "" {
		nuggets, err = a.store.GetNuggetsForConversation(ctx, nuggetsConversation)
	} else {
		nuggets, err = a.store.GetAllNuggets(ctx)
	}
	if err != nil {
		return fmt.Errorf("listing nuggets: %w", err)
	}

	if jsonOutput() {
		return printJSON(cmd, nuggets)
	}
	if len(nuggets) == 0 {
		say(cmd, "No nuggets saved yet\n")
		return nil
	}
	printNuggets(cmd, nuggets)
	say(cmd, "\nTotal: %d nugget(s)\n", len(nuggets))
	return nil
}

func printNuggets(cmd *cobra.Command, nuggets []models.Nugget) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "QUESTION\tANSWER\tPLATFORM\tCREATED\n")
	_, _ = fmt.Fprintf(w, "--------\t------\t--------\t-------\n")
	for _, n := range nuggets {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			util.Ellipsize(oneLine(n.Question), 50),
			util.Ellipsize(oneLine(n.Answer), 50),
			n.Platform,
			formatTime(n.CreatedAt))
	}
	_ = w.Flush()
}
