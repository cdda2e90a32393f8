// ABOUTME: Benchmark scenarios for similar-question retrieval
// ABOUTME: A small captured corpus plus queries labelled with the conversations they should surface

package retrieval

import (
	"time"

	"github.com/harper/oogvault/internal/models"
)

// Scenario is one retrieval benchmark: a corpus to seed and queries to run against it
type Scenario struct {
	ID          string
	Name        string
	Description string
	Corpus      []models.ConversationPayload
	Queries     []LabelledQuery
}

// LabelledQuery is a query typed into the composer and the conversations
// it ought to surface. An empty Expected means nothing should come back.
type LabelledQuery struct {
	Query    string
	Expected []string
}

// Negative reports whether the query should produce no suggestions
func (q LabelledQuery) Negative() bool {
	return len(q.Expected) == 0
}

var corpusStart = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

func exchange(id, platform, title, question, answer string, offset time.Duration) models.ConversationPayload {
	asked := corpusStart.Add(offset)
	answered := asked.Add(30 * time.Second)
	return models.ConversationPayload{
		ID:       id,
		Platform: platform,
		Title:    title,
		Messages: []models.MessagePayload{
			{Role: models.RoleUser, Content: question, Timestamp: &asked},
			{Role: models.RoleAssistant, Content: answer, Timestamp: &answered},
		},
		CreatedAt: &asked,
		UpdatedAt: &answered,
	}
}

// Corpus returns the conversations every built-in scenario seeds
func Corpus() []models.ConversationPayload {
	return []models.ConversationPayload{
		exchange("docker-ports", "claude", "Docker networking",
			"How do I expose a docker container port to the host?",
			"Use docker run -p 8080:80 to publish the container port on the host.",
			0),
		exchange("sourdough", "chatgpt", "Sourdough starter",
			"Why is my sourdough starter not rising?",
			"Feed it twice a day with equal parts flour and water and keep it warm.",
			time.Hour),
		exchange("goroutine-leak", "gemini", "Goroutine leaks",
			"How can I find a goroutine leak in my Go service?",
			"Dump the goroutine profile with pprof and look for stacks that never return.",
			2*time.Hour),
	}
}

// GetRecallScenario checks that rephrased and misspelled questions still
// surface the conversation they came from
func GetRecallScenario() Scenario {
	return Scenario{
		ID:          "recall",
		Name:        "Rephrased Questions",
		Description: "Queries that reword, shorten or misspell an earlier question",
		Corpus:      Corpus(),
		Queries: []LabelledQuery{
			{Query: "expose docker container port", Expected: []string{"docker-ports"}},
			{Query: "containr port mapping", Expected: []string{"docker-ports"}},
			{Query: "sourdough starter rising", Expected: []string{"sourdough"}},
			{Query: "goroutine leak detection", Expected: []string{"goroutine-leak"}},
		},
	}
}

// GetFalsePositiveScenario checks that unrelated queries stay silent even
// when they share short fragments with stored questions
func GetFalsePositiveScenario() Scenario {
	return Scenario{
		ID:          "false_positives",
		Name:        "Unrelated Queries",
		Description: "Queries on topics the vault has never seen",
		Corpus:      Corpus(),
		Queries: []LabelledQuery{
			{Query: "kubernetes helm chart values"},
			{Query: "weather forecast tomorrow"},
			{Query: "hey can you help me with this"},
		},
	}
}

// AllScenarios returns every built-in scenario in run order
func AllScenarios() []Scenario {
	return []Scenario{
		GetRecallScenario(),
		GetFalsePositiveScenario(),
	}
}

// ScenarioByID looks up a built-in scenario
func ScenarioByID(id string) (Scenario, bool) {
	for _, s := range AllScenarios() {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}
