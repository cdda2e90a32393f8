// ABOUTME: MCP tool handler implementations for the vault server
// ABOUTME: Tool failures are reported as tool errors, never as transport errors
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/harper/oogvault/internal/core"
	"github.com/harper/oogvault/internal/export"
	"github.com/harper/oogvault/internal/models"
	"github.com/harper/oogvault/internal/settings"
	"github.com/harper/oogvault/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	storage   *sqlite.Storage
	retriever *core.Retriever
	ingestor  *core.Ingestor
	prefs     *settings.Settings
	logger    *zap.Logger
}

// NewHandlers wires the handlers to the vault components
func NewHandlers(store *sqlite.Storage, retriever *core.Retriever, ingestor *core.Ingestor, prefs *settings.Settings, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		storage:   store,
		retriever: retriever,
		ingestor:  ingestor,
		prefs:     prefs,
		logger:    logger,
	}
}

// conversationSummary is the listing shape of a conversation
type conversationSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Platform    string    `json:"platform"`
	URL         string    `json:"url,omitempty"`
	IsAutoSaved bool      `json:"is_auto_saved"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func summarize(c models.Conversation) conversationSummary {
	return conversationSummary{
		ID:          c.ID,
		Title:       c.Title,
		Platform:    c.Platform,
		URL:         c.URL,
		IsAutoSaved: c.IsAutoSaved,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// SaveConversation handles the save_conversation tool
func (h *Handlers) SaveConversation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	var payload models.ConversationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid conversation payload: %v", err)), nil
	}

	if h.prefs != nil && h.prefs.SkipsAutoSave(payload) {
		h.logger.Info("auto-save disabled, conversation not stored", zap.String("id", payload.ID))
		return jsonResult(map[string]interface{}{
			"success": false,
			"skipped": true,
			"reason":  "auto-save is disabled",
		})
	}

	saved, nuggets, err := h.ingestor.Ingest(ctx, payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save conversation: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"success":       true,
		"conversation":  summarize(*saved),
		"message_count": len(saved.Messages),
		"nuggets":       nuggets,
	})
}

// GetConversation handles the get_conversation tool
func (h *Handlers) GetConversation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}

	conv, err := h.storage.GetConversation(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get conversation: %v", err)), nil
	}
	if conv == nil {
		return jsonResult(map[string]interface{}{"conversation": nil})
	}

	tags, err := h.storage.GetTagsForConversation(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get tags: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"conversation": conv,
		"tags":         tags,
	})
}

// ListConversations handles the list_conversations tool
func (h *Handlers) ListConversations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	platform := strings.TrimSpace(request.GetString("platform", ""))
	limit := request.GetInt("limit", 50)

	convs, err := h.storage.GetAllConversations(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list conversations: %v", err)), nil
	}

	out := make([]conversationSummary, 0, len(convs))
	for _, c := range convs {
		if platform != "" && !strings.EqualFold(c.Platform, platform) {
			continue
		}
		out = append(out, summarize(c))
		if limit > 0 && len(out) == limit {
			break
		}
	}

	return jsonResult(map[string]interface{}{
		"conversations": out,
		"total":         len(out),
	})
}

// DeleteConversation handles the delete_conversation tool
func (h *Handlers) DeleteConversation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}

	if err := h.storage.DeleteConversation(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete conversation: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{"success": true, "id": id})
}

// SearchConversations handles the search_conversations tool
func (h *Handlers) SearchConversations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	matches, err := h.retriever.SearchConversations(ctx, query, request.GetInt("limit", core.DefaultConversationLimit))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	results := make([]map[string]interface{}, 0, len(matches))
	for _, m := range matches {
		results = append(results, map[string]interface{}{
			"id":              m.ID,
			"title":           m.Title,
			"platform":        m.Platform,
			"updated_at":      m.UpdatedAt,
			"score":           m.Score,
			"matched_content": m.MatchedContent,
		})
	}

	return jsonResult(map[string]interface{}{"results": results})
}

// SuggestSimilarQuestions handles the suggest_similar_questions tool.
// It honors the autocomplete settings before consulting the retriever.
func (h *Handlers) SuggestSimilarQuestions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	if h.prefs != nil {
		if !h.prefs.AutocompleteEnabled() {
			return jsonResult(map[string]interface{}{
				"suggestions": []models.SimilarQuestion{},
				"disabled":    true,
			})
		}
		if utf8.RuneCountInString(strings.TrimSpace(query)) < h.prefs.AutocompleteMinLength() {
			return jsonResult(map[string]interface{}{"suggestions": []models.SimilarQuestion{}})
		}
	}

	suggestions, err := h.retriever.SearchSimilarQuestions(ctx, query, request.GetInt("limit", core.DefaultSimilarLimit))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("similar question search failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{"suggestions": suggestions})
}

// SearchNuggets handles the search_nuggets tool
func (h *Handlers) SearchNuggets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	matches, err := h.retriever.SearchNuggetsText(ctx, query, request.GetInt("limit", core.DefaultNuggetLimit))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("nugget search failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{"nuggets": matches})
}

// ListNuggets handles the list_nuggets tool
func (h *Handlers) ListNuggets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		nuggets []models.Nugget
		err     error
	)
	if id := request.GetString("conversation_id", ""); id != "" {
		nuggets, err = h.storage.GetNuggetsForConversation(ctx, id)
	} else {
		nuggets, err = h.storage.GetAllNuggets(ctx)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list nuggets: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"nuggets": nuggets,
		"total":   len(nuggets),
	})
}

// AddTag handles the add_tag tool
func (h *Handlers) AddTag(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.changeTag(ctx, request, h.storage.AddTag)
}

// RemoveTag handles the remove_tag tool
func (h *Handlers) RemoveTag(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.changeTag(ctx, request, h.storage.RemoveTag)
}

func (h *Handlers) changeTag(ctx context.Context, request mcp.CallToolRequest, apply func(context.Context, string, string) error) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("conversation_id")
	if err != nil {
		return mcp.NewToolResultError("conversation_id argument is required and must be a string"), nil
	}
	tag, err := request.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError("tag argument is required and must be a string"), nil
	}

	if err := apply(ctx, id, tag); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update tag: %v", err)), nil
	}

	tags, err := h.storage.GetTagsForConversation(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get tags: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"success":         true,
		"conversation_id": id,
		"tags":            tags,
	})
}

// GetTags handles the get_tags tool
func (h *Handlers) GetTags(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if id := request.GetString("conversation_id", ""); id != "" {
		tags, err := h.storage.GetTagsForConversation(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get tags: %v", err)), nil
		}
		return jsonResult(map[string]interface{}{
			"conversation_id": id,
			"tags":            tags,
		})
	}

	counts, err := h.storage.ListTags(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list tags: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{"tags": counts})
}

// GetStats handles the get_stats tool
func (h *Handlers) GetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.storage.GetStats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
	}
	return jsonResult(stats)
}

// ExportMarkdown handles the export_markdown tool. The Markdown is returned
// as plain text rather than JSON.
func (h *Handlers) ExportMarkdown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if id := request.GetString("conversation_id", ""); id != "" {
		conv, err := h.storage.GetConversation(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get conversation: %v", err)), nil
		}
		if conv == nil {
			return mcp.NewToolResultError(fmt.Sprintf("conversation %s not found", id)), nil
		}
		return mcp.NewToolResultText(export.ConversationMarkdown(conv)), nil
	}

	nuggets, err := h.storage.GetAllNuggets(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load nuggets: %v", err)), nil
	}
	md := export.KnowledgeMarkdown(nuggets, time.Now())
	if md == "" {
		return mcp.NewToolResultText("No knowledge nuggets saved yet."), nil
	}
	return mcp.NewToolResultText(md), nil
}

// ConversationSummary handles the conversation_summary tool
func (h *Handlers) ConversationSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("conversation_id")
	if err != nil {
		return mcp.NewToolResultError("conversation_id argument is required and must be a string"), nil
	}

	msgs, err := h.storage.GetMessagesForConversation(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load messages: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"conversation_id": id,
		"summary":         core.ConversationSummary(msgs),
	})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
