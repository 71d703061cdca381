package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/seralys/inciwise/internal/analyzer"
	"github.com/seralys/inciwise/internal/cli"
	"github.com/seralys/inciwise/internal/dataset"
	"github.com/seralys/inciwise/internal/engine"
	"github.com/seralys/inciwise/internal/model"
	"github.com/seralys/inciwise/internal/rules"
	"github.com/seralys/inciwise/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Categorize products from a dataset",
		Long: `Categorize cosmetic products using title matching, zero-shot NLP,
and ingredient-based rules.

Each product passes through up to three stages: a confident title match wins
outright, otherwise the zero-shot classifier is consulted, and ingredient
rules decide the rest. Products where the classifier and the rules disagree
are flagged for manual review.

Examples:
  inciwise classify                         # Categorize the configured dataset
  inciwise classify -i products.json        # Categorize a specific file
  inciwise classify --no-nlp                # Skip the zero-shot stage
  inciwise classify --store                 # Also persist the run for review`,
		RunE: runClassify,
	}

	// Flags
	cmd.Flags().StringP("input", "i", "data/incidecoder_function_scrape.json", "Input dataset file")
	cmd.Flags().StringP("output", "o", "categorized_products_enhanced.json", "Output results file")
	cmd.Flags().Bool("store", false, "Persist the run to the local database")
	cmd.Flags().Bool("no-nlp", false, "Disable the zero-shot classification stage")
	cmd.Flags().IntP("workers", "w", 0, "Concurrent workers (0 = default)")

	// Bind to viper (errors are rare and can be ignored in practice)
	_ = viper.BindPFlag("classify.input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("classify.output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("classify.store", cmd.Flags().Lookup("store"))
	_ = viper.BindPFlag("classify.no_nlp", cmd.Flags().Lookup("no-nlp"))
	_ = viper.BindPFlag("classify.workers", cmd.Flags().Lookup("workers"))

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	input := viper.GetString("classify.input")
	output := viper.GetString("classify.output")
	persist := viper.GetBool("classify.store")
	noNLP := viper.GetBool("classify.no_nlp")
	workers := viper.GetInt("classify.workers")

	slog.Info("Starting product categorization", "input", input)

	// Load categorization rules
	rulesCfg, err := loadRulesConfig()
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	ruleSet, err := rulesCfg.RuleSet()
	if err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}
	matcher, err := rulesCfg.Matcher()
	if err != nil {
		return fmt.Errorf("invalid name patterns: %w", err)
	}

	// Initialize the zero-shot classifier unless disabled
	var classifier engine.Classifier
	if !noNLP {
		classifier, err = createClassifier()
		if err != nil {
			return err
		}
		if closer, ok := classifier.(interface{ Close() error }); ok {
			defer func() { _ = closer.Close() }()
		}
	}
	if classifier == nil {
		slog.Info("Zero-shot stage disabled, using title matching and rules only")
	}

	// Assemble the engine
	engCfg := engine.DefaultConfig()
	if workers > 0 {
		engCfg.Workers = workers
	}
	eng := engine.NewWithConfig(
		rules.NewScorer(ruleSet),
		matcher,
		analyzer.New(rulesCfg.SynonymGroups()),
		classifier,
		engCfg,
	)

	// Load the dataset
	products, err := dataset.Load(input)
	if err != nil {
		return err
	}
	slog.Info("Loaded dataset", "products", len(products))

	// Categorize with progress reporting
	bar := newProgressBar(len(products), "[cyan][bold]Categorizing products...[reset]")
	results := eng.CategorizeAll(ctx, products, func(done, _ int) {
		if err := bar.Set(done); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	})
	if err := bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
	fmt.Println()

	if ctx.Err() != nil {
		slog.Warn("Categorization interrupted, results not saved")
		return nil
	}

	// Summarize and write results
	insights := engine.Summarize(results)
	env := dataset.NewEnvelope(results, insights, classifier != nil)
	if err := dataset.WriteResults(output, env); err != nil {
		return err
	}
	slog.Info("Results saved", "file", output)

	// Optionally persist the run for the review workflow
	if persist {
		if err := persistRun(ctx, input, results, insights); err != nil {
			return fmt.Errorf("failed to persist run: %w", err)
		}
	}

	summary := fmt.Sprintf("Products: %d\nProcessed: %d\nErrors: %d\nFlagged for review: %d\nAverage confidence: %.3f",
		insights.TotalProducts,
		insights.Processed,
		insights.Errors,
		insights.Flagged,
		insights.AverageConfidence)
	fmt.Println(cli.RenderBox("Categorization Complete", summary))

	if insights.Flagged > 0 && persist {
		slog.Info("Some products need a second opinion. Run 'inciwise review' to resolve them.")
	}

	return nil
}

// persistRun records a completed categorization pass in the run database.
func persistRun(ctx context.Context, source string, results []model.Result, insights model.Insights) error {
	db, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	run := &storage.Run{
		Source:        source,
		TotalProducts: insights.TotalProducts,
	}
	if err := db.CreateRun(ctx, run); err != nil {
		return err
	}
	if err := db.SaveResults(ctx, run.ID, results); err != nil {
		return err
	}
	if err := db.CompleteRun(ctx, run.ID, insights); err != nil {
		return err
	}

	slog.Info("Run persisted", "run", run.ID)
	return nil
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stdout),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
