// ABOUTME: CLI commands to export and import vault data
// ABOUTME: Full backups as JSON/YAML, readable exports as Markdown or HTML
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harper/oogvault/internal/export"
)

// Export types accepted by --type
const (
	exportJSON      = "json"
	exportYAML      = "yaml"
	exportMarkdown  = "markdown"
	exportKnowledge = "knowledge"
	exportHTML      = "html"
)

var (
	exportType   string
	exportOutput string
	exportID     string
)

// NewExportCmd creates export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export conversations and nuggets",
		Long: `Export vault data.

Types:
  json       full backup of conversations, tags and nuggets (default)
  yaml       the same backup as YAML
  markdown   one conversation (--id), or the knowledge base without --id
  knowledge  all nuggets as a Markdown knowledge base, grouped by platform
  html       markdown export rendered to a standalone HTML page

Output goes to stdout unless --output is given.

Examples:
  oogvault export --output backup.json
  oogvault export --type yaml --output backup.yaml
  oogvault export --type markdown --id 6f1c2a
  oogvault export --type html --output knowledge.html`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringVarP(&exportType, "type", "t", exportJSON, "Export type: json, yaml, markdown, knowledge or html")
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&exportID, "id", "", "Conversation to export (markdown and html)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	switch exportType {
	case exportJSON, exportYAML, exportMarkdown, exportKnowledge, exportHTML:
	default:
		return fmt.Errorf("unknown export type %q", exportType)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()

	switch exportType {
	case exportJSON:
		if exportOutput != "" {
			if err := a.store.ExportToJSON(ctx, exportOutput); err != nil {
				return fmt.Errorf("exporting: %w", err)
			}
			say(cmd, "✓ Exported to %s\n", exportOutput)
			return nil
		}
		data, err := a.store.Export(ctx)
		if err != nil {
			return fmt.Errorf("exporting: %w", err)
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)

	case exportYAML:
		if exportOutput != "" {
			if err := a.store.ExportToYAML(ctx, exportOutput); err != nil {
				return fmt.Errorf("exporting: %w", err)
			}
			say(cmd, "✓ Exported to %s\n", exportOutput)
			return nil
		}
		data, err := a.store.Export(ctx)
		if err != nil {
			return fmt.Errorf("exporting: %w", err)
		}
		encoder := yaml.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent(2)
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return encoder.Close()
	}

	title := "Knowledge Base"
	var md string
	if exportID != "" && exportType != exportKnowledge {
		conv, err := a.store.GetConversation(ctx, exportID)
		if err != nil {
			return fmt.Errorf("getting conversation: %w", err)
		}
		if conv == nil {
			return fmt.Errorf("conversation %s not found", exportID)
		}
		title = conv.Title
		md = export.ConversationMarkdown(conv)
	} else {
		nuggets, err := a.store.GetAllNuggets(ctx)
		if err != nil {
			return fmt.Errorf("listing nuggets: %w", err)
		}
		md = export.KnowledgeMarkdown(nuggets, time.Now())
		if md == "" {
			say(cmd, "No knowledge nuggets to export\n")
			return nil
		}
	}

	content := md
	if exportType == exportHTML {
		content, err = export.HTMLDocument(title, md)
		if err != nil {
			return err
		}
	}

	return writeExport(cmd, content)
}

func writeExport(cmd *cobra.Command, content string) error {
	if exportOutput == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), content)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(exportOutput), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(exportOutput, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	say(cmd, "✓ Exported to %s\n", exportOutput)
	return nil
}

// NewImportCmd creates import command
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON or YAML backup",
		Long: `Import a backup written by 'oogvault export'.

Files ending in .yaml or .yml are read as YAML, anything else as JSON.
Imported conversations replace stored copies with the same id and keep
their original timestamps.

Examples:
  oogvault import backup.json
  oogvault import backup.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.ImportFromFile(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("importing: %w", err)
			}
			say(cmd, "✓ Imported %s\n", args[0])
			return nil
		},
	}

	return cmd
}
