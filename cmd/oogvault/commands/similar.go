// ABOUTME: CLI command to suggest previously asked questions
// ABOUTME: Honors the autocomplete settings before searching
package commands

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/harper/oogvault/internal/core"
	"github.com/harper/oogvault/internal/models"
	"github.com/harper/oogvault/internal/util"
)

var (
	similarLimit int
)

// NewSimilarCmd creates similar command
func NewSimilarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similar <draft question>",
		Short: "Find questions you already asked",
		Long: `Find earlier questions (and extracted nuggets) similar to a draft,
with a preview of the answer you got.

Suggestions are off when autocomplete_enabled is false, and drafts
shorter than autocomplete_min_length characters return nothing.
See 'oogvault settings'.

Examples:
  oogvault similar "how do I find goroutine leaks in production"
  oogvault similar --limit 3 --format json "postgres index not being used"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSimilar,
	}

	cmd.Flags().IntVar(&similarLimit, "limit", core.DefaultSimilarLimit, "Maximum number of suggestions")

	return cmd
}

func runSimilar(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(similarLimit, "limit"); err != nil {
		return err
	}

	query := strings.Join(args, " ")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	suggestions := []models.SimilarQuestion{}
	switch {
	case !a.prefs.AutocompleteEnabled():
		if !jsonOutput() {
			say(cmd, "Suggestions are disabled (autocomplete_enabled=false)\n")
			return nil
		}
	case utf8.RuneCountInString(strings.TrimSpace(query)) < a.prefs.AutocompleteMinLength():
	default:
		suggestions, err = a.retriever.SearchSimilarQuestions(cmd.Context(), query, similarLimit)
		if err != nil {
			return fmt.Errorf("finding similar questions: %w", err)
		}
	}

	if jsonOutput() {
		return printJSON(cmd, suggestions)
	}
	if len(suggestions) == 0 {
		say(cmd, "No similar questions found\n")
		return nil
	}

	out := cmd.OutOrStdout()
	for i, s := range suggestions {
		_, _ = fmt.Fprintf(out, "%d. %s  (%.0f%%, %s)\n", i+1, oneLine(s.Question), s.Score*100, s.Platform)
		if s.Answer != nil {
			_, _ = fmt.Fprintf(out, "   → %s\n", util.Ellipsize(oneLine(*s.Answer), 120))
		}
		_, _ = fmt.Fprintf(out, "   %s · %s\n", s.ConversationTitle, formatTime(s.Timestamp))
	}
	return nil
}
