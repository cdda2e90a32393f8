// ABOUTME: Root command and global flags for the oogvault CLI
// ABOUTME: Registers every subcommand and validates output flags
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Output formats accepted by --format
const (
	formatAuto  = "auto"
	formatJSON  = "json"
	formatTable = "table"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	dbPath       string
)

const banner = `
 ██████   ██████   ██████
██    ██ ██    ██ ██
██    ██ ██    ██ ██   ███
██    ██ ██    ██ ██    ██
 ██████   ██████   ██████   vault
`

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oogvault",
		Short: "Local vault for your AI chat conversations",
		Long: banner + `
Save conversations captured from chat assistants, search them with
fuzzy matching, get suggestions of questions you already asked, and
export what you learned.

Data lives in a local SQLite database ($XDG_DATA_HOME/oogvault).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case formatAuto, formatJSON, formatTable:
				return nil
			default:
				return fmt.Errorf("invalid --format %q (want auto, json or table)", outputFormat)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logging)")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", formatAuto, "Output format: auto, json or table")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (overrides OOGVAULT_DB_PATH)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewSaveCmd())
	cmd.AddCommand(NewGetCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewDeleteCmd())
	cmd.AddCommand(NewClearCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewSimilarCmd())
	cmd.AddCommand(NewNuggetsCmd())
	cmd.AddCommand(NewTagCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewSummaryCmd())
	cmd.AddCommand(NewSettingsCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func jsonOutput() bool {
	return outputFormat == formatJSON
}
