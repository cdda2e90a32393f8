// ABOUTME: Full-vault export and import for backups and migration
// ABOUTME: Supports JSON and YAML files sharing one ExportData layout
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harper/oogvault/internal/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ExportVersion is written into every export
const ExportVersion = "1.0"

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version       string               `yaml:"version" json:"version"`
	ExportedAt    string               `yaml:"exported_at" json:"exported_at"`
	Tool          string               `yaml:"tool" json:"tool"`
	Conversations []ExportConversation `yaml:"conversations" json:"conversations"`
	Nuggets       []models.Nugget      `yaml:"nuggets" json:"nuggets"`
}

// ExportConversation is a conversation with its messages and tags inlined
type ExportConversation struct {
	models.Conversation `yaml:",inline"`
	Tags                []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Export collects every conversation, tag and nugget
func (s *Storage) Export(ctx context.Context) (*ExportData, error) {
	data := &ExportData{
		Version:       ExportVersion,
		ExportedAt:    s.now().Format(time.RFC3339),
		Tool:          "oogvault",
		Conversations: []ExportConversation{},
	}

	convs, err := s.GetAllConversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	for _, c := range convs {
		full, err := s.GetConversation(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if full == nil {
			continue
		}
		tags, err := s.GetTagsForConversation(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		data.Conversations = append(data.Conversations, ExportConversation{
			Conversation: *full,
			Tags:         tags,
		})
	}

	if data.Nuggets, err = s.GetAllNuggets(ctx); err != nil {
		return nil, fmt.Errorf("failed to list nuggets: %w", err)
	}

	return data, nil
}

// ExportToJSON exports data to a JSON file
func (s *Storage) ExportToJSON(ctx context.Context, outputPath string) error {
	data, err := s.Export(ctx)
	if err != nil {
		return err
	}

	file, err := createOutput(outputPath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ExportToYAML exports data to a YAML file
func (s *Storage) ExportToYAML(ctx context.Context, outputPath string) error {
	data, err := s.Export(ctx)
	if err != nil {
		return err
	}

	file, err := createOutput(outputPath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// Import replays an export. Conversations keep their timestamps and
// replace any stored copy; nuggets replace the set of their conversation.
func (s *Storage) Import(ctx context.Context, data *ExportData) error {
	byConversation := map[string][]models.Nugget{}
	for _, n := range data.Nuggets {
		byConversation[n.ConversationID] = append(byConversation[n.ConversationID], n)
	}

	for i := range data.Conversations {
		ec := &data.Conversations[i]
		if err := ec.Validate(); err != nil {
			return fmt.Errorf("invalid conversation in import: %w", err)
		}
		err := s.db.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := s.saveConversationTx(ctx, tx, &ec.Conversation, true); err != nil {
				return err
			}
			if err := deleteTagsFor(ctx, tx, ec.ID); err != nil {
				return err
			}
			for _, tag := range ec.Tags {
				if tag = models.NormalizeTag(tag); tag != "" {
					if err := insertTag(ctx, tx, ec.ID, tag); err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	for conversationID, nuggets := range byConversation {
		if err := s.SaveNuggets(ctx, conversationID, nuggets); err != nil {
			return err
		}
	}

	s.logger.Info("import complete",
		zap.Int("conversations", len(data.Conversations)),
		zap.Int("nuggets", len(data.Nuggets)))
	return nil
}

// ImportFromFile reads a JSON or YAML export, chosen by file extension
func (s *Storage) ImportFromFile(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	var data ExportData
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &data)
	default:
		err = json.Unmarshal(raw, &data)
	}
	if err != nil {
		return fmt.Errorf("failed to decode import file: %w", err)
	}
	return s.Import(ctx, &data)
}

func createOutput(outputPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, nil
}
