// ABOUTME: MCP tool definitions and registration for the vault server
// ABOUTME: Declares the JSON input schema of every tool exposed over stdio
package mcp

import (
	"github.com/harper/oogvault/internal/core"
	"github.com/harper/oogvault/internal/settings"
	"github.com/harper/oogvault/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func limitProp(def int) map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Maximum number of results to return",
		"default":     def,
	}
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, store *sqlite.Storage, retriever *core.Retriever, ingestor *core.Ingestor, prefs *settings.Settings, logger *zap.Logger) *Handlers {
	handlers := NewHandlers(store, retriever, ingestor, prefs, logger)

	server.AddTool(mcp.Tool{
		Name:        "save_conversation",
		Description: "Save a captured conversation. Re-saving an id replaces its messages. Q&A nuggets are derived automatically.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id":       stringProp("Stable conversation id"),
				"platform": stringProp("Chat platform the conversation came from"),
				"title":    stringProp("Conversation title"),
				"url":      stringProp("Source URL"),
				"is_auto_saved": map[string]interface{}{
					"type":        "boolean",
					"description": "True when captured automatically rather than saved by hand",
				},
				"messages": map[string]interface{}{
					"type":        "array",
					"description": "Ordered messages; id and timestamp are optional",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"id":        stringProp("Message id"),
							"role":      map[string]interface{}{"type": "string", "enum": []string{"user", "assistant"}},
							"content":   stringProp("Message text"),
							"timestamp": stringProp("RFC 3339 timestamp"),
						},
						"required": []string{"role", "content"},
					},
				},
			},
			Required: []string{"id", "messages"},
		},
	}, handlers.SaveConversation)

	server.AddTool(mcp.Tool{
		Name:        "get_conversation",
		Description: "Get a conversation with its messages and tags.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": stringProp("Conversation id"),
			},
			Required: []string{"id"},
		},
	}, handlers.GetConversation)

	server.AddTool(mcp.Tool{
		Name:        "list_conversations",
		Description: "List saved conversations, most recently updated first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"platform": stringProp("Only list conversations from this platform"),
				"limit":    limitProp(50),
			},
		},
	}, handlers.ListConversations)

	server.AddTool(mcp.Tool{
		Name:        "delete_conversation",
		Description: "Delete a conversation together with its messages, tags and nuggets.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": stringProp("Conversation id"),
			},
			Required: []string{"id"},
		},
	}, handlers.DeleteConversation)

	server.AddTool(mcp.Tool{
		Name:        "search_conversations",
		Description: "Fuzzy search over conversation titles and message text, best match first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": stringProp("Search text"),
				"limit": limitProp(core.DefaultConversationLimit),
			},
			Required: []string{"query"},
		},
	}, handlers.SearchConversations)

	server.AddTool(mcp.Tool{
		Name:        "suggest_similar_questions",
		Description: "Suggest previously asked questions similar to a draft, with a preview of the answer received.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": stringProp("Draft question being typed"),
				"limit": limitProp(core.DefaultSimilarLimit),
			},
			Required: []string{"query"},
		},
	}, handlers.SuggestSimilarQuestions)

	server.AddTool(mcp.Tool{
		Name:        "search_nuggets",
		Description: "Search extracted question/answer nuggets by keyword overlap.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": stringProp("Search text"),
				"limit": limitProp(core.DefaultNuggetLimit),
			},
			Required: []string{"query"},
		},
	}, handlers.SearchNuggets)

	server.AddTool(mcp.Tool{
		Name:        "list_nuggets",
		Description: "List knowledge nuggets, newest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"conversation_id": stringProp("Only list nuggets from this conversation"),
			},
		},
	}, handlers.ListNuggets)

	server.AddTool(mcp.Tool{
		Name:        "add_tag",
		Description: "Tag a conversation. Tags are lowercased; adding an existing tag is a no-op.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"conversation_id": stringProp("Conversation id"),
				"tag":             stringProp("Tag to add"),
			},
			Required: []string{"conversation_id", "tag"},
		},
	}, handlers.AddTag)

	server.AddTool(mcp.Tool{
		Name:        "remove_tag",
		Description: "Remove a tag from a conversation.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"conversation_id": stringProp("Conversation id"),
				"tag":             stringProp("Tag to remove"),
			},
			Required: []string{"conversation_id", "tag"},
		},
	}, handlers.RemoveTag)

	server.AddTool(mcp.Tool{
		Name:        "get_tags",
		Description: "Get the tags of one conversation, or every tag with its usage count when no id is given.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"conversation_id": stringProp("Conversation id"),
			},
		},
	}, handlers.GetTags)

	server.AddTool(mcp.Tool{
		Name:        "get_stats",
		Description: "Count conversations, messages, nuggets and tags in the vault.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.GetStats)

	server.AddTool(mcp.Tool{
		Name:        "export_markdown",
		Description: "Render a conversation as Markdown, or the whole knowledge base of nuggets when no id is given.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"conversation_id": stringProp("Conversation to export"),
			},
		},
	}, handlers.ExportMarkdown)

	server.AddTool(mcp.Tool{
		Name:        "conversation_summary",
		Description: "Build a prompt that lets a new chat continue where a saved conversation left off.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"conversation_id": stringProp("Conversation id"),
			},
			Required: []string{"conversation_id"},
		},
	}, handlers.ConversationSummary)

	return handlers
}
