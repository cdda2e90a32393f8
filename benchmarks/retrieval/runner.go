// ABOUTME: Runs retrieval benchmark scenarios against a throwaway vault
// ABOUTME: Seeds an in-memory store, issues labelled queries and collects metrics

package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/harper/oogvault/internal/core"
	"github.com/harper/oogvault/internal/logging"
	"github.com/harper/oogvault/internal/storage/sqlite"
	"go.uber.org/zap"
)

// BenchmarkRunner executes retrieval scenarios
type BenchmarkRunner struct {
	thresholds core.Thresholds
	limit      int
	metrics    *MetricsCalculator
	logger     *zap.Logger
	out        io.Writer
	verbose    bool
}

// Report is the exported form of a benchmark run
type Report struct {
	GeneratedAt      time.Time        `json:"generated_at"`
	SimilarThreshold float64          `json:"similar_threshold"`
	SuggestionLimit  int              `json:"suggestion_limit"`
	Results          []ScenarioResult `json:"results"`
}

// NewBenchmarkRunner creates a runner scoring with the given thresholds.
// Progress goes to out when verbose is set.
func NewBenchmarkRunner(thresholds core.Thresholds, out io.Writer, logger *zap.Logger, verbose bool) *BenchmarkRunner {
	if out == nil {
		out = io.Discard
	}
	return &BenchmarkRunner{
		thresholds: thresholds,
		limit:      core.DefaultSimilarLimit,
		metrics:    NewMetricsCalculator(),
		logger:     logging.OrNop(logger),
		out:        out,
		verbose:    verbose,
	}
}

// Metrics exposes the calculator so callers can tighten the pass bars
func (r *BenchmarkRunner) Metrics() *MetricsCalculator {
	return r.metrics
}

// RunScenario seeds a fresh vault with the scenario corpus and evaluates
// every labelled query. Each scenario gets its own store.
func (r *BenchmarkRunner) RunScenario(ctx context.Context, scenario Scenario) (ScenarioResult, error) {
	if r.verbose {
		_, _ = fmt.Fprintf(r.out, "=== %s: %s ===\n", scenario.ID, scenario.Name)
	}

	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		return ScenarioResult{}, fmt.Errorf("failed to open benchmark store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			r.logger.Warn("error closing benchmark store", zap.Error(err))
		}
	}()

	ingestor := core.NewIngestor(store,
		core.WithRetries(0, 0),
		core.WithIngestLogger(r.logger))
	for _, payload := range scenario.Corpus {
		if _, _, err := ingestor.Ingest(ctx, payload); err != nil {
			return ScenarioResult{}, fmt.Errorf("failed to seed %q: %w", payload.ID, err)
		}
	}

	retriever := core.NewRetriever(store,
		core.WithThresholds(r.thresholds),
		core.WithLogger(r.logger))

	queries := make([]QueryResult, 0, len(scenario.Queries))
	for _, q := range scenario.Queries {
		suggestions, err := retriever.SearchSimilarQuestions(ctx, q.Query, r.limit)
		if err != nil {
			return ScenarioResult{}, fmt.Errorf("query %q failed: %w", q.Query, err)
		}

		qr := r.metrics.EvaluateQuery(q, suggestions)
		queries = append(queries, qr)
		if r.verbose {
			_, _ = fmt.Fprintf(r.out, "  %q -> %v (expected %v, top %.2f)\n",
				q.Query, qr.Retrieved, qr.Expected, qr.TopScore)
		}
	}

	result := r.metrics.EvaluateScenario(scenario, queries)
	r.logger.Debug("scenario evaluated",
		zap.String("scenario", scenario.ID),
		zap.Float64("precision", result.Precision),
		zap.Float64("recall", result.Recall),
		zap.Float64("false_positive_rate", result.FalsePositiveRate),
		zap.String("status", result.Status))
	return result, nil
}

// RunAllScenarios runs every built-in scenario. A scenario that errors is
// recorded as a failure and the run continues.
func (r *BenchmarkRunner) RunAllScenarios(ctx context.Context) []ScenarioResult {
	scenarios := AllScenarios()
	results := make([]ScenarioResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := r.RunScenario(ctx, scenario)
		if err != nil {
			r.logger.Error("scenario failed", zap.String("scenario", scenario.ID), zap.Error(err))
			result = ScenarioResult{
				ScenarioID:   scenario.ID,
				ScenarioName: scenario.Name,
				Status:       StatusFail,
				ErrorMessage: err.Error(),
			}
		}
		results = append(results, result)
	}

	return results
}

// ExportResults writes results as indented JSON to outputPath
func (r *BenchmarkRunner) ExportResults(results []ScenarioResult, outputPath string) error {
	report := Report{
		GeneratedAt:      time.Now().UTC(),
		SimilarThreshold: r.thresholds.Similar,
		SuggestionLimit:  r.limit,
		Results:          results,
	}

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
