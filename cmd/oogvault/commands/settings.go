// ABOUTME: CLI commands to view and change user settings
// ABOUTME: Settings live in a YAML file next to the other config
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/oogvault/internal/settings"
)

// NewSettingsCmd creates the settings command group
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View and change settings",
		Long: `View and change settings.

Keys:
  auto_save                save conversations flagged is_auto_saved (default true)
  autocomplete_enabled     offer similar-question suggestions (default true)
  autocomplete_min_length  shortest draft that gets suggestions (default 20)
  theme                    display theme name (default "default")

Examples:
  oogvault settings
  oogvault settings get autocomplete_min_length
  oogvault settings set autocomplete_enabled false`,
		Args: cobra.NoArgs,
		RunE: runSettingsShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE:  runSettingsGet,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE:  runSettingsSet,
	})

	return cmd
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	all := a.prefs.All()
	if jsonOutput() {
		return printJSON(cmd, all)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, k := range settings.Keys() {
		_, _ = fmt.Fprintf(w, "%s\t%v\n", k, all[k])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	say(cmd, "\nFile: %s\n", a.prefs.Path())
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	v, err := a.prefs.Get(args[0])
	if err != nil {
		return err
	}
	if jsonOutput() {
		return printJSON(cmd, map[string]interface{}{args[0]: v})
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%v\n", v)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.prefs.Set(args[0], args[1]); err != nil {
		return err
	}
	if err := a.prefs.Save(); err != nil {
		return err
	}

	say(cmd, "✓ %s updated\n", args[0])
	return nil
}
