// ABOUTME: Tests for MCP tool handlers
// ABOUTME: Drives each tool against an in-memory vault and decodes the JSON replies
package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/oogvault/internal/core"
	"github.com/harper/oogvault/internal/settings"
	"github.com/harper/oogvault/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func newTestHandlers(t *testing.T) (*Handlers, *sqlite.Storage, *settings.Settings) {
	t.Helper()

	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	prefs, err := settings.Load(filepath.Join(t.TempDir(), "settings.yaml"))
	if err != nil {
		t.Fatalf("settings.Load() error = %v", err)
	}

	h := NewHandlers(store, core.NewRetriever(store), core.NewIngestor(store, core.WithRetries(0, 0)), prefs, nil)
	return h, store, prefs
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	switch c := result.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	default:
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return ""
}

func decode(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("tool returned error: %s", resultText(t, result))
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatalf("reply is not JSON: %v", err)
	}
	return out
}

func dockerPayload(id string) map[string]any {
	return map[string]any{
		"id":       id,
		"platform": "claude",
		"title":    "Docker networking",
		"messages": []any{
			map[string]any{"role": "user", "content": "How do I expose a docker container port to the host machine?"},
			map[string]any{"role": "assistant", "content": "Publish it with docker run -p 8080:80 so host port 8080 maps to container port 80."},
		},
	}
}

func TestSaveConversation(t *testing.T) {
	h, store, _ := newTestHandlers(t)
	ctx := context.Background()

	result, err := h.SaveConversation(ctx, callRequest(dockerPayload("c1")))
	if err != nil {
		t.Fatalf("SaveConversation() error = %v", err)
	}
	out := decode(t, result)

	if out["success"] != true {
		t.Errorf("success = %v, want true", out["success"])
	}
	if out["nuggets"] != float64(1) {
		t.Errorf("nuggets = %v, want 1", out["nuggets"])
	}

	conv, err := store.GetConversation(ctx, "c1")
	if err != nil || conv == nil {
		t.Fatalf("GetConversation() = %v, %v", conv, err)
	}
	if len(conv.Messages) != 2 {
		t.Errorf("stored %d messages, want 2", len(conv.Messages))
	}
}

func TestSaveConversation_InvalidPayload(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing id", map[string]any{"messages": []any{}}},
		{"bad role", map[string]any{
			"id":       "c1",
			"messages": []any{map[string]any{"role": "system", "content": "hi"}},
		}},
		{"messages not a list", map[string]any{"id": "c1", "messages": "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.SaveConversation(context.Background(), callRequest(tt.args))
			if err != nil {
				t.Fatalf("handler should report failures as tool errors, got %v", err)
			}
			if !result.IsError {
				t.Error("expected a tool error")
			}
		})
	}
}

func TestSaveConversation_AutoSaveDisabled(t *testing.T) {
	h, store, prefs := newTestHandlers(t)
	ctx := context.Background()

	if err := prefs.Set(settings.KeyAutoSave, "false"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	auto := dockerPayload("auto")
	auto["is_auto_saved"] = true
	out := decode(t, mustCall(t, h.SaveConversation, auto))
	if out["skipped"] != true {
		t.Errorf("auto-saved payload should be skipped, got %v", out)
	}

	manual := dockerPayload("manual")
	manual["is_auto_saved"] = false
	decode(t, mustCall(t, h.SaveConversation, manual))

	if conv, _ := store.GetConversation(ctx, "auto"); conv != nil {
		t.Error("auto-saved conversation should not be stored")
	}
	if conv, _ := store.GetConversation(ctx, "manual"); conv == nil {
		t.Error("manual save should be stored")
	}
}

func mustCall(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := handler(context.Background(), callRequest(args))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	return result
}

func TestGetConversation(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	mustCall(t, h.SaveConversation, dockerPayload("c1"))
	mustCall(t, h.AddTag, map[string]any{"conversation_id": "c1", "tag": "Docker"})

	out := decode(t, mustCall(t, h.GetConversation, map[string]any{"id": "c1"}))
	conv, ok := out["conversation"].(map[string]any)
	if !ok {
		t.Fatalf("conversation = %v", out["conversation"])
	}
	if conv["title"] != "Docker networking" {
		t.Errorf("title = %v", conv["title"])
	}
	tags, _ := out["tags"].([]any)
	if len(tags) != 1 || tags[0] != "docker" {
		t.Errorf("tags = %v, want [docker]", out["tags"])
	}

	missing := decode(t, mustCall(t, h.GetConversation, map[string]any{"id": "nope"}))
	if missing["conversation"] != nil {
		t.Errorf("unknown id should give null conversation, got %v", missing["conversation"])
	}

	if result := mustCall(t, h.GetConversation, map[string]any{}); !result.IsError {
		t.Error("missing id should be a tool error")
	}
}

func TestListAndDeleteConversations(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	mustCall(t, h.SaveConversation, dockerPayload("c1"))
	other := dockerPayload("c2")
	other["platform"] = "chatgpt"
	mustCall(t, h.SaveConversation, other)

	out := decode(t, mustCall(t, h.ListConversations, map[string]any{}))
	if out["total"] != float64(2) {
		t.Errorf("total = %v, want 2", out["total"])
	}

	filtered := decode(t, mustCall(t, h.ListConversations, map[string]any{"platform": "ChatGPT"}))
	if filtered["total"] != float64(1) {
		t.Errorf("platform filter total = %v, want 1", filtered["total"])
	}

	limited := decode(t, mustCall(t, h.ListConversations, map[string]any{"limit": 1}))
	if limited["total"] != float64(1) {
		t.Errorf("limit total = %v, want 1", limited["total"])
	}

	decode(t, mustCall(t, h.DeleteConversation, map[string]any{"id": "c1"}))
	after := decode(t, mustCall(t, h.ListConversations, map[string]any{}))
	if after["total"] != float64(1) {
		t.Errorf("total after delete = %v, want 1", after["total"])
	}
}

func TestSearchTools(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	mustCall(t, h.SaveConversation, dockerPayload("c1"))

	conv := decode(t, mustCall(t, h.SearchConversations, map[string]any{"query": "docker container port"}))
	if results, _ := conv["results"].([]any); len(results) != 1 {
		t.Errorf("search_conversations results = %v, want 1", conv["results"])
	}

	similar := decode(t, mustCall(t, h.SuggestSimilarQuestions, map[string]any{"query": "expose a docker container port"}))
	suggestions, _ := similar["suggestions"].([]any)
	if len(suggestions) != 1 {
		t.Fatalf("suggestions = %v, want 1", similar["suggestions"])
	}
	first := suggestions[0].(map[string]any)
	if first["conversation_id"] != "c1" {
		t.Errorf("conversation_id = %v, want c1", first["conversation_id"])
	}

	nuggets := decode(t, mustCall(t, h.SearchNuggets, map[string]any{"query": "docker port host"}))
	if list, _ := nuggets["nuggets"].([]any); len(list) != 1 {
		t.Errorf("search_nuggets = %v, want 1", nuggets["nuggets"])
	}
}

func TestSuggestSimilarQuestions_HonorsSettings(t *testing.T) {
	h, _, prefs := newTestHandlers(t)
	mustCall(t, h.SaveConversation, dockerPayload("c1"))

	short := decode(t, mustCall(t, h.SuggestSimilarQuestions, map[string]any{"query": "docker port"}))
	if s, _ := short["suggestions"].([]any); len(s) != 0 {
		t.Errorf("query below min length should give nothing, got %v", s)
	}

	if err := prefs.Set(settings.KeyAutocompleteEnabled, "false"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	off := decode(t, mustCall(t, h.SuggestSimilarQuestions, map[string]any{"query": "expose a docker container port"}))
	if off["disabled"] != true {
		t.Errorf("disabled = %v, want true", off["disabled"])
	}
}

func TestTagTools(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	mustCall(t, h.SaveConversation, dockerPayload("c1"))

	added := decode(t, mustCall(t, h.AddTag, map[string]any{"conversation_id": "c1", "tag": "  Networking "}))
	if tags, _ := added["tags"].([]any); len(tags) != 1 || tags[0] != "networking" {
		t.Errorf("tags after add = %v", added["tags"])
	}

	if result := mustCall(t, h.AddTag, map[string]any{"conversation_id": "c1", "tag": "   "}); !result.IsError {
		t.Error("blank tag should be a tool error")
	}

	counts := decode(t, mustCall(t, h.GetTags, map[string]any{}))
	if list, _ := counts["tags"].([]any); len(list) != 1 {
		t.Errorf("tag counts = %v", counts["tags"])
	}

	removed := decode(t, mustCall(t, h.RemoveTag, map[string]any{"conversation_id": "c1", "tag": "networking"}))
	if tags, _ := removed["tags"].([]any); len(tags) != 0 {
		t.Errorf("tags after remove = %v", removed["tags"])
	}
}

func TestStatsAndNuggets(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	mustCall(t, h.SaveConversation, dockerPayload("c1"))

	stats := decode(t, mustCall(t, h.GetStats, map[string]any{}))
	if stats["conversations"] != float64(1) || stats["messages"] != float64(2) || stats["nuggets"] != float64(1) {
		t.Errorf("stats = %v", stats)
	}

	all := decode(t, mustCall(t, h.ListNuggets, map[string]any{}))
	if all["total"] != float64(1) {
		t.Errorf("list_nuggets total = %v, want 1", all["total"])
	}
	none := decode(t, mustCall(t, h.ListNuggets, map[string]any{"conversation_id": "other"}))
	if none["total"] != float64(0) {
		t.Errorf("list_nuggets for unknown conversation = %v, want 0", none["total"])
	}
}

func TestExportMarkdown(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	empty := resultText(t, mustCall(t, h.ExportMarkdown, map[string]any{}))
	if !strings.Contains(empty, "No knowledge nuggets") {
		t.Errorf("empty knowledge export = %q", empty)
	}

	mustCall(t, h.SaveConversation, dockerPayload("c1"))

	md := resultText(t, mustCall(t, h.ExportMarkdown, map[string]any{"conversation_id": "c1"}))
	if !strings.HasPrefix(md, "# Docker networking") {
		t.Errorf("conversation markdown = %q", md)
	}

	knowledge := resultText(t, mustCall(t, h.ExportMarkdown, map[string]any{}))
	if !strings.Contains(knowledge, "How do I expose a docker container port") {
		t.Errorf("knowledge markdown missing question: %q", knowledge)
	}

	if result := mustCall(t, h.ExportMarkdown, map[string]any{"conversation_id": "nope"}); !result.IsError {
		t.Error("unknown conversation should be a tool error")
	}
}

func TestConversationSummary(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	mustCall(t, h.SaveConversation, dockerPayload("c1"))

	out := decode(t, mustCall(t, h.ConversationSummary, map[string]any{"conversation_id": "c1"}))
	summary, _ := out["summary"].(string)
	if !strings.Contains(summary, "Please continue from where we left off.") {
		t.Errorf("summary = %q", summary)
	}

	empty := decode(t, mustCall(t, h.ConversationSummary, map[string]any{"conversation_id": "nope"}))
	if empty["summary"] != "" {
		t.Errorf("summary of unknown conversation = %v, want empty", empty["summary"])
	}
}

func TestRegisterTools(t *testing.T) {
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	defer store.Close()

	server := mcpserver.NewMCPServer("test", "0.0.0")
	handlers := RegisterTools(server, store, core.NewRetriever(store), core.NewIngestor(store), nil, nil)
	if handlers == nil {
		t.Fatal("RegisterTools() returned nil handlers")
	}
}
