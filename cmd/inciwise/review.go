package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/seralys/inciwise/internal/cli"
	"github.com/seralys/inciwise/internal/model"
	"github.com/seralys/inciwise/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review flagged categorizations",
		Long: `Interactively review categorizations that need a human decision.

By default the queue holds products where the classifier and the ingredient
rules disagreed, products left uncategorized, and products below their
category's configured confidence floor. Decisions are saved immediately, so
an interrupted session can be resumed later.

Examples:
  inciwise review              # Review the latest stored run
  inciwise review --run <id>   # Review a specific run
  inciwise review --flagged    # Only classifier/rule disagreements
  inciwise review --all        # Walk every result, including reviewed ones`,
		RunE: runReview,
	}

	// Flags
	cmd.Flags().String("run", "", "Stored run ID (default: latest)")
	cmd.Flags().Bool("flagged", false, "Review only disagreement-flagged results")
	cmd.Flags().Bool("all", false, "Review every result, not just the problem queue")

	// Bind to viper
	_ = viper.BindPFlag("review.run", cmd.Flags().Lookup("run"))
	_ = viper.BindPFlag("review.flagged", cmd.Flags().Lookup("flagged"))
	_ = viper.BindPFlag("review.all", cmd.Flags().Lookup("all"))

	return cmd
}

func runReview(cmd *cobra.Command, _ []string) error {
	runID := viper.GetString("review.run")
	flaggedOnly := viper.GetBool("review.flagged")
	all := viper.GetBool("review.all")
	if flaggedOnly && all {
		return fmt.Errorf("use either --flagged or --all, not both")
	}

	// The review loop handles its own interrupts so decisions made so far
	// stay saved.
	handler := cli.NewInterruptHandler(os.Stdout)
	ctx := handler.HandleInterrupts(cmd.Context(), true)

	db, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	run, err := resolveRun(ctx, db, runID)
	if err != nil {
		return err
	}

	var rows []storage.Result
	if flaggedOnly {
		rows, err = db.FlaggedResults(ctx, run.ID)
	} else {
		rows, err = db.ResultsByRun(ctx, run.ID)
	}
	if err != nil {
		return err
	}

	rulesCfg, err := loadRulesConfig()
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}
	ruleSet, err := rulesCfg.RuleSet()
	if err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}

	queue := reviewQueue(rows, minConfidenceByCategory(ruleSet), all)
	if len(queue) == 0 {
		fmt.Println(cli.FormatSuccess("Nothing to review, all caught up!"))
		return nil
	}

	slog.Info("Starting review session", "run", run.ID, "queue", len(queue))

	prompter := cli.NewPrompter(os.Stdin, os.Stdout)
	prompter.SetTotalResults(len(queue))

	if err := reviewLoop(ctx, db, prompter, queue); err != nil {
		return err
	}

	if handler.WasInterrupted() || ctx.Err() != nil {
		return nil
	}

	prompter.ShowCompletion()
	return nil
}

func reviewLoop(ctx context.Context, db *storage.Store, prompter *cli.Prompter, queue []storage.Result) error {
	for i := range queue {
		decision, err := prompter.ReviewResult(ctx, &queue[i])
		if err != nil {
			// Cancellation and closed input end the session; decisions
			// made so far are already saved.
			if errors.Is(err, cli.ErrInputCancelled) || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch decision.Action {
		case cli.ReviewAccept, cli.ReviewOverride:
			if err := db.SetManualCategory(ctx, queue[i].ID, decision.Category); err != nil {
				return fmt.Errorf("failed to save review decision: %w", err)
			}
		case cli.ReviewSkip:
			// Leave the row unreviewed
		case cli.ReviewQuit:
			return nil
		}
	}
	return nil
}

// reviewQueue selects the rows worth a reviewer's time: flagged
// disagreements, uncategorized products, and predictions below their
// category's confidence floor. Error rows carry no prediction to review.
// With includeAll every non-error row is queued, reviewed or not.
func reviewQueue(rows []storage.Result, confidenceFloors map[string]float64, includeAll bool) []storage.Result {
	queue := make([]storage.Result, 0, len(rows))
	for _, row := range rows {
		if row.Category == model.CategoryError {
			continue
		}
		if includeAll {
			queue = append(queue, row)
			continue
		}
		if row.ReviewedAt != nil {
			continue
		}
		if needsReview(row, confidenceFloors) {
			queue = append(queue, row)
		}
	}
	return queue
}

func needsReview(row storage.Result, confidenceFloors map[string]float64) bool {
	if row.Flagged {
		return true
	}
	if row.Category == model.CategoryUncategorized {
		return true
	}
	floor, ok := confidenceFloors[row.Category]
	return ok && row.Confidence < floor
}

// minConfidenceByCategory extracts each category's configured confidence
// floor from the rule set.
func minConfidenceByCategory(set *model.RuleSet) map[string]float64 {
	floors := make(map[string]float64, set.Len())
	for _, rule := range set.Rules() {
		floors[rule.Name] = rule.MinConfidence
	}
	return floors
}
