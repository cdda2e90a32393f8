// ABOUTME: Retrieval quality metrics for similar-question suggestions
// ABOUTME: Precision, recall and false-positive rate over labelled queries

package retrieval

import (
	"fmt"
	"strings"

	"github.com/harper/oogvault/internal/models"
)

// Status values for a scenario result
const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
)

// QueryResult is the outcome of one labelled query
type QueryResult struct {
	Query         string   `json:"query"`
	Expected      []string `json:"expected"`
	Retrieved     []string `json:"retrieved"`
	TopScore      float64  `json:"top_score"`
	Precision     float64  `json:"precision"`
	Recall        float64  `json:"recall"`
	FalsePositive bool     `json:"false_positive"`
}

// ScenarioResult aggregates the query results of one scenario
type ScenarioResult struct {
	ScenarioID        string        `json:"scenario_id"`
	ScenarioName      string        `json:"scenario_name"`
	Precision         float64       `json:"precision"`
	Recall            float64       `json:"recall"`
	FalsePositiveRate float64       `json:"false_positive_rate"`
	OverallScore      float64       `json:"overall_score"`
	Status            string        `json:"status"`
	Queries           []QueryResult `json:"queries"`
	ErrorMessage      string        `json:"error_message,omitempty"`
}

// MetricsCalculator scores suggestions against their labels
type MetricsCalculator struct {
	MinPrecision         float64
	MinRecall            float64
	MaxFalsePositiveRate float64
}

// NewMetricsCalculator creates a calculator with the default pass bars
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{
		MinPrecision:         0.8,
		MinRecall:            0.8,
		MaxFalsePositiveRate: 0.0,
	}
}

// RetrievedConversations collapses suggestions to distinct conversation ids,
// keeping rank order
func RetrievedConversations(suggestions []models.SimilarQuestion) []string {
	seen := make(map[string]struct{}, len(suggestions))
	ids := []string{}
	for _, s := range suggestions {
		if _, dup := seen[s.ConversationID]; dup {
			continue
		}
		seen[s.ConversationID] = struct{}{}
		ids = append(ids, s.ConversationID)
	}
	return ids
}

// CalculatePrecision is the share of retrieved conversations that were
// expected. Retrieving nothing is vacuously precise.
func (m *MetricsCalculator) CalculatePrecision(retrieved, expected []string) float64 {
	if len(retrieved) == 0 {
		return 1.0
	}
	return float64(overlap(retrieved, expected)) / float64(len(retrieved))
}

// CalculateRecall is the share of expected conversations that were retrieved.
// A query expecting nothing has perfect recall.
func (m *MetricsCalculator) CalculateRecall(retrieved, expected []string) float64 {
	if len(expected) == 0 {
		return 1.0
	}
	return float64(overlap(retrieved, expected)) / float64(len(expected))
}

// EvaluateQuery scores the suggestions returned for one labelled query
func (m *MetricsCalculator) EvaluateQuery(q LabelledQuery, suggestions []models.SimilarQuestion) QueryResult {
	retrieved := RetrievedConversations(suggestions)
	expected := q.Expected
	if expected == nil {
		expected = []string{}
	}

	result := QueryResult{
		Query:         q.Query,
		Expected:      expected,
		Retrieved:     retrieved,
		Precision:     m.CalculatePrecision(retrieved, expected),
		Recall:        m.CalculateRecall(retrieved, expected),
		FalsePositive: q.Negative() && len(retrieved) > 0,
	}
	if len(suggestions) > 0 {
		result.TopScore = suggestions[0].Score
	}
	return result
}

// EvaluateScenario averages query results and applies the pass bars
func (m *MetricsCalculator) EvaluateScenario(s Scenario, queries []QueryResult) ScenarioResult {
	result := ScenarioResult{
		ScenarioID:   s.ID,
		ScenarioName: s.Name,
		Queries:      queries,
		Status:       StatusFail,
	}
	if len(queries) == 0 {
		result.ErrorMessage = "scenario has no queries"
		return result
	}

	negatives, falsePositives := 0, 0
	for _, q := range queries {
		result.Precision += q.Precision
		result.Recall += q.Recall
		if len(q.Expected) == 0 {
			negatives++
			if q.FalsePositive {
				falsePositives++
			}
		}
	}
	result.Precision /= float64(len(queries))
	result.Recall /= float64(len(queries))
	if negatives > 0 {
		result.FalsePositiveRate = float64(falsePositives) / float64(negatives)
	}
	result.OverallScore = (result.Precision + result.Recall) / 2 * (1 - result.FalsePositiveRate)

	var failures []string
	if result.Precision < m.MinPrecision {
		failures = append(failures, fmt.Sprintf("precision %.2f < %.2f", result.Precision, m.MinPrecision))
	}
	if result.Recall < m.MinRecall {
		failures = append(failures, fmt.Sprintf("recall %.2f < %.2f", result.Recall, m.MinRecall))
	}
	if result.FalsePositiveRate > m.MaxFalsePositiveRate {
		failures = append(failures, fmt.Sprintf("false positive rate %.2f > %.2f", result.FalsePositiveRate, m.MaxFalsePositiveRate))
	}
	if len(failures) == 0 {
		result.Status = StatusPass
	} else {
		result.ErrorMessage = strings.Join(failures, "; ")
	}
	return result
}

func overlap(retrieved, expected []string) int {
	want := make(map[string]struct{}, len(expected))
	for _, id := range expected {
		want[id] = struct{}{}
	}
	hits := 0
	for _, id := range retrieved {
		if _, ok := want[id]; ok {
			hits++
		}
	}
	return hits
}
