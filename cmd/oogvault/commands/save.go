// ABOUTME: CLI command to save captured conversations
// ABOUTME: Reads a JSON payload (or array of payloads) from a file or stdin
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/oogvault/internal/models"
)

var (
	saveFile string
)

// NewSaveCmd creates save command
func NewSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a captured conversation",
		Long: `Save a captured conversation from a JSON payload.

The payload carries id, platform, title, url, is_auto_saved and an
ordered list of messages with role ("user" or "assistant") and content.
Saving an existing id replaces its messages. Question/answer nuggets
are extracted automatically.

Payloads flagged is_auto_saved are skipped while the auto_save
setting is off.

Examples:
  oogvault save --file conversation.json
  cat conversation.json | oogvault save
  oogvault save --file batch.json --format json`,
		Args: cobra.NoArgs,
		RunE: runSave,
	}

	cmd.Flags().StringVar(&saveFile, "file", "", "Read payload from file (default stdin)")

	return cmd
}

func runSave(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, saveFile)
	if err != nil {
		return err
	}

	payloads, err := decodePayloads(data)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	type saveResult struct {
		ID       string `json:"id"`
		Title    string `json:"title,omitempty"`
		Messages int    `json:"messages"`
		Nuggets  int    `json:"nuggets"`
		Skipped  bool   `json:"skipped,omitempty"`
	}

	results := make([]saveResult, 0, len(payloads))
	for _, p := range payloads {
		if a.prefs.SkipsAutoSave(p) {
			results = append(results, saveResult{ID: p.ID, Skipped: true})
			continue
		}

		saved, nuggets, err := a.ingestor.Ingest(cmd.Context(), p)
		if err != nil {
			return fmt.Errorf("saving conversation %q: %w", p.ID, err)
		}
		results = append(results, saveResult{
			ID:       saved.ID,
			Title:    saved.Title,
			Messages: len(saved.Messages),
			Nuggets:  nuggets,
		})
	}

	if jsonOutput() {
		return printJSON(cmd, results)
	}

	for _, r := range results {
		if r.Skipped {
			say(cmd, "- Skipped %s (auto-save is off)\n", r.ID)
			continue
		}
		say(cmd, "✓ Saved %s: %q (%d messages, %d nuggets)\n", r.ID, r.Title, r.Messages, r.Nuggets)
	}
	return nil
}

// decodePayloads accepts a single payload object or an array of them
func decodePayloads(data []byte) ([]models.ConversationPayload, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("no payload provided")
	}

	if data[0] == '[' {
		var payloads []models.ConversationPayload
		if err := json.Unmarshal(data, &payloads); err != nil {
			return nil, fmt.Errorf("parsing payload: %w", err)
		}
		return payloads, nil
	}

	var p models.ConversationPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing payload: %w", err)
	}
	return []models.ConversationPayload{p}, nil
}
