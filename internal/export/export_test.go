// ABOUTME: Tests for Markdown and HTML export rendering
// ABOUTME: Checks headings, platform grouping and goldmark output
package export

import (
	"strings"
	"testing"
	"time"

	"github.com/harper/oogvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConversation() *models.Conversation {
	created := time.Date(2026, 6, 2, 14, 5, 0, 0, time.UTC)
	return &models.Conversation{
		ID:        "c1",
		Platform:  "claude",
		Title:     "Channel ownership",
		URL:       "https://claude.ai/chat/c1",
		CreatedAt: created,
		Messages: []models.Message{
			{Role: models.RoleUser, Content: "Who closes a channel?"},
			{Role: models.RoleAssistant, Content: "The sender."},
		},
	}
}

func TestConversationMarkdown(t *testing.T) {
	md := ConversationMarkdown(sampleConversation())

	assert.True(t, strings.HasPrefix(md, "# Channel ownership\n"))
	assert.Contains(t, md, "**Platform:** claude | **Date:** 2026-06-02 14:05 UTC")
	assert.Contains(t, md, "**Source:** https://claude.ai/chat/c1")
	assert.Contains(t, md, "### **You**\n\nWho closes a channel?")
	assert.Contains(t, md, "### **Assistant**\n\nThe sender.")
	assert.Less(t, strings.Index(md, "Who closes"), strings.Index(md, "The sender."))
}

func TestKnowledgeMarkdown(t *testing.T) {
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	nuggets := []models.Nugget{
		{Question: "Who closes a channel?", Answer: "The sender.", Platform: "claude", CreatedAt: day},
		{Question: "What is a slice header?", Answer: "Pointer, len, cap.", Platform: "", CreatedAt: day},
		{Question: "Nil map writes?", Answer: "They panic.", Platform: "claude", CreatedAt: day},
	}

	md := KnowledgeMarkdown(nuggets, day.Add(time.Hour))

	assert.Contains(t, md, "# OogVault Knowledge Base")
	assert.Contains(t, md, "3 knowledge nuggets")
	assert.Contains(t, md, "## Claude\n")
	assert.Contains(t, md, "## General\n")
	assert.Less(t, strings.Index(md, "## Claude"), strings.Index(md, "## General"))
	assert.Less(t, strings.Index(md, "Nil map writes?"), strings.Index(md, "## General"),
		"nuggets of one platform stay together")
	assert.Contains(t, md, "**A:** Pointer, len, cap.")
	assert.Contains(t, md, "_2026-06-01_")
}

func TestKnowledgeMarkdown_Empty(t *testing.T) {
	assert.Empty(t, KnowledgeMarkdown(nil, time.Now()))
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML(ConversationMarkdown(sampleConversation()))
	require.NoError(t, err)

	assert.Contains(t, out, "<h1>Channel ownership</h1>")
	assert.Contains(t, out, "<strong>You</strong>")
	assert.Contains(t, out, "<hr>")
}

func TestRenderHTML_EscapesRawHTML(t *testing.T) {
	out, err := RenderHTML("hello <script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}

func TestHTMLDocument(t *testing.T) {
	doc, err := HTMLDocument("a <b> title", "# Heading")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, "<title>a &lt;b&gt; title</title>")
	assert.Contains(t, doc, "<h1>Heading</h1>")
}
