// ABOUTME: Markdown rendering of stored conversations and nuggets
// ABOUTME: Consumes store read results only; never touches the database
package export

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/harper/oogvault/internal/models"
)

const (
	dateTimeLayout = "2006-01-02 15:04 MST"
	dateLayout     = "2006-01-02"
)

// ConversationMarkdown renders one conversation with its messages
func ConversationMarkdown(conv *models.Conversation) string {
	var b strings.Builder

	_, _ = fmt.Fprintf(&b, "# %s\n", conv.Title)
	_, _ = fmt.Fprintf(&b, "**Platform:** %s | **Date:** %s\n\n", conv.Platform, conv.CreatedAt.UTC().Format(dateTimeLayout))
	if conv.URL != "" {
		_, _ = fmt.Fprintf(&b, "**Source:** %s\n\n", conv.URL)
	}
	b.WriteString("---\n\n")

	for _, m := range conv.Messages {
		speaker := "**Assistant**"
		if m.Role == models.RoleUser {
			speaker = "**You**"
		}
		_, _ = fmt.Fprintf(&b, "### %s\n\n%s\n\n---\n\n", speaker, m.Content)
	}

	return b.String()
}

// KnowledgeMarkdown renders every nugget grouped by platform, groups in
// order of first appearance. It returns "" when there are no nuggets.
func KnowledgeMarkdown(nuggets []models.Nugget, now time.Time) string {
	if len(nuggets) == 0 {
		return ""
	}

	var order []string
	groups := map[string][]models.Nugget{}
	for _, n := range nuggets {
		key := n.Platform
		if key == "" {
			key = "General"
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], n)
	}

	var b strings.Builder
	b.WriteString("# OogVault Knowledge Base\n\n")
	_, _ = fmt.Fprintf(&b, "> Auto-generated on %s · %d knowledge nuggets\n\n---\n\n",
		now.UTC().Format(dateTimeLayout), len(nuggets))

	for _, platform := range order {
		_, _ = fmt.Fprintf(&b, "## %s\n\n", capitalize(platform))
		for _, n := range groups[platform] {
			_, _ = fmt.Fprintf(&b, "### Q: %s\n\n", n.Question)
			_, _ = fmt.Fprintf(&b, "**A:** %s\n\n", n.Answer)
			_, _ = fmt.Fprintf(&b, "_%s_\n\n---\n\n", n.CreatedAt.UTC().Format(dateLayout))
		}
	}

	return b.String()
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
