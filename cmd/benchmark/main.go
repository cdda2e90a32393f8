// ABOUTME: Command-line runner for the retrieval quality benchmarks
// ABOUTME: Scores similar-question suggestions and writes JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/harper/oogvault/benchmarks/retrieval"
	"github.com/harper/oogvault/internal/config"
	"github.com/harper/oogvault/internal/logging"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	scenarioID := flag.String("scenario", "", "Run one scenario (recall, false_positives). If empty, runs all.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	verbose := flag.Bool("verbose", false, "Print every query and its suggestions")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}

	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	fmt.Println("========================================")
	fmt.Println("OogVault Retrieval Benchmarks")
	fmt.Println("========================================")
	fmt.Printf("Similar threshold: %.2f\n\n", cfg.SimilarThreshold)

	runner := retrieval.NewBenchmarkRunner(cfg.Thresholds(), os.Stdout, logger, *verbose)
	ctx := context.Background()

	var results []retrieval.ScenarioResult
	if *scenarioID == "" {
		results = runner.RunAllScenarios(ctx)
	} else {
		scenario, ok := retrieval.ScenarioByID(*scenarioID)
		if !ok {
			ids := make([]string, 0, len(retrieval.AllScenarios()))
			for _, s := range retrieval.AllScenarios() {
				ids = append(ids, s.ID)
			}
			logger.Error("unknown scenario",
				zap.String("scenario", *scenarioID),
				zap.String("valid", strings.Join(ids, ", ")))
			return 1
		}

		result, err := runner.RunScenario(ctx, scenario)
		if err != nil {
			logger.Error("scenario failed", zap.String("scenario", scenario.ID), zap.Error(err))
			return 1
		}
		results = []retrieval.ScenarioResult{result}
	}

	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")

	failed := 0
	for _, result := range results {
		fmt.Printf("\n%s: %s\n", result.ScenarioID, result.ScenarioName)
		fmt.Printf("  Precision: %.2f\n", result.Precision)
		fmt.Printf("  Recall: %.2f\n", result.Recall)
		fmt.Printf("  False positive rate: %.2f\n", result.FalsePositiveRate)
		fmt.Printf("  Overall: %.2f\n", result.OverallScore)
		fmt.Printf("  Status: %s\n", result.Status)
		if result.ErrorMessage != "" {
			fmt.Printf("  Reason: %s\n", result.ErrorMessage)
		}
		if result.Status != retrieval.StatusPass {
			failed++
		}
	}

	fmt.Println("\n========================================")
	fmt.Printf("Total Scenarios: %d\n", len(results))
	fmt.Printf("Passed: %d\n", len(results)-failed)
	fmt.Printf("Failed: %d\n", failed)
	fmt.Println("========================================")

	if err := runner.ExportResults(results, *outputPath); err != nil {
		logger.Error("failed to export results", zap.Error(err))
		return 1
	}
	fmt.Printf("✓ Results exported to: %s\n", *outputPath)

	if failed > 0 {
		return 1
	}
	return 0
}
