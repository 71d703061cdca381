package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/seralys/inciwise/internal/cli"
	"github.com/seralys/inciwise/internal/dataset"
	"github.com/seralys/inciwise/internal/engine"
	"github.com/seralys/inciwise/internal/model"
	"github.com/seralys/inciwise/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Column widths for the insight tables.
const (
	categoryColWidth = 26
	countColWidth    = 10
	statColWidth     = 9
)

func insightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show category and confidence insights",
		Long: `Display distribution and confidence insights for a categorization run.

Reads a results file written by 'inciwise classify', or a run stored in the
local database. Stored runs reflect manual review decisions.

Examples:
  inciwise insights                         # Latest stored run
  inciwise insights --run 01JX3NGY9Q        # A specific stored run
  inciwise insights -i results.json         # A results file`,
		RunE: runInsights,
	}

	// Flags
	cmd.Flags().StringP("input", "i", "", "Results file to analyze (instead of a stored run)")
	cmd.Flags().String("run", "", "Stored run ID (default: latest)")

	// Bind to viper
	_ = viper.BindPFlag("insights.input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("insights.run", cmd.Flags().Lookup("run"))

	return cmd
}

func runInsights(cmd *cobra.Command, _ []string) error {
	input := viper.GetString("insights.input")
	runID := viper.GetString("insights.run")

	if input != "" && runID != "" {
		return fmt.Errorf("use either --input or --run, not both")
	}

	if input != "" {
		return showFileInsights(input)
	}
	return showStoredInsights(cmd, runID)
}

func showFileInsights(input string) error {
	env, err := dataset.LoadResults(input)
	if err != nil {
		return err
	}
	if len(env.Results) == 0 {
		fmt.Println(cli.FormatInfo("No results in file. Run 'inciwise classify' first."))
		return nil
	}

	var in model.Insights
	if env.Insights != nil {
		in = insightsFromRecord(*env.Insights)
	} else {
		in = insightsFromRecords(env.Results)
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("%s Categorization Insights", cli.ChartIcon)))
	fmt.Println(cli.SubtitleStyle.Render(input))
	renderInsights(os.Stdout, in)
	return nil
}

func showStoredInsights(cmd *cobra.Command, runID string) error {
	ctx := cmd.Context()

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

	rows, err := db.ResultsByRun(ctx, run.ID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println(cli.FormatInfo("The run has no stored results."))
		return nil
	}

	in := insightsFromRows(rows)

	// Prefer the store's indexed effective-category tally
	if distribution, distErr := db.CategoryDistribution(ctx, run.ID); distErr == nil {
		in.CategoryDistribution = distribution
	}

	header := fmt.Sprintf("Run %s · %s · started %s", run.ID, run.Source, run.StartedAt.Format("Jan 2, 2006 15:04"))
	fmt.Println(cli.FormatTitle(fmt.Sprintf("%s Categorization Insights", cli.ChartIcon)))
	fmt.Println(cli.SubtitleStyle.Render(header))
	renderInsights(os.Stdout, in)
	return nil
}

// insightsFromRecords recomputes insights from serialized results. Only the
// fields the summary consumes are reconstructed.
func insightsFromRecords(records []dataset.ResultRecord) model.Insights {
	results := make([]model.Result, len(records))
	for i, rec := range records {
		results[i] = model.Result{
			Category:   rec.PredictedCategory,
			Confidence: rec.Confidence,
			Flagged:    rec.FlaggedForReview,
		}
	}
	return engine.Summarize(results)
}

// insightsFromRows recomputes insights from stored rows. Manual review
// decisions replace the predicted category.
func insightsFromRows(rows []storage.Result) model.Insights {
	results := make([]model.Result, len(rows))
	for i := range rows {
		results[i] = model.Result{
			Category:   rows[i].FinalCategory(),
			Confidence: rows[i].Confidence,
			Flagged:    rows[i].Flagged,
		}
	}
	return engine.Summarize(results)
}

// insightsFromRecord converts a stored insights block back to its model form.
func insightsFromRecord(rec dataset.InsightsRecord) model.Insights {
	in := model.Insights{
		TotalProducts:        rec.TotalProducts,
		Processed:            rec.SuccessfullyProcessed,
		Errors:               rec.Errors,
		CategoryDistribution: rec.CategoryDistribution,
		AverageConfidence:    rec.AverageConfidence,
		HighConfidence:       rec.HighConfidenceProducts,
		LowConfidence:        rec.LowConfidenceProducts,
		Uncategorized:        rec.UncategorizedProducts,
		Flagged:              rec.FlaggedProducts,
		ConfidenceByCategory: make(map[string]model.ConfidenceStats, len(rec.ConfidenceByCategory)),
	}
	for category, stats := range rec.ConfidenceByCategory {
		in.ConfidenceByCategory[category] = model.ConfidenceStats{
			Avg: stats.Avg,
			Min: stats.Min,
			Max: stats.Max,
		}
	}
	return in
}

func renderInsights(w io.Writer, in model.Insights) {
	overview := fmt.Sprintf("Products: %s\nProcessed: %s\nErrors: %s\nFlagged for review: %s\nUncategorized: %s\n\nAverage confidence: %s\nHigh confidence: %s\nLow confidence: %s",
		cli.BoldStyle.Render(strconv.Itoa(in.TotalProducts)),
		cli.BoldStyle.Render(strconv.Itoa(in.Processed)),
		cli.BoldStyle.Render(strconv.Itoa(in.Errors)),
		cli.BoldStyle.Render(strconv.Itoa(in.Flagged)),
		cli.BoldStyle.Render(strconv.Itoa(in.Uncategorized)),
		cli.BoldStyle.Render(fmt.Sprintf("%.3f", in.AverageConfidence)),
		cli.BoldStyle.Render(strconv.Itoa(in.HighConfidence)),
		cli.BoldStyle.Render(strconv.Itoa(in.LowConfidence)))
	fmt.Fprintln(w, cli.RenderBox("Overview", overview))

	if len(in.CategoryDistribution) > 0 {
		fmt.Fprintln(w, cli.SubtitleStyle.Render("Category distribution"))
		renderDistribution(w, in)
	}

	if len(in.ConfidenceByCategory) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, cli.SubtitleStyle.Render("Confidence by category"))
		renderConfidenceStats(w, in)
	}
}

func renderDistribution(w io.Writer, in model.Insights) {
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
		cli.TableHeaderStyle.Width(categoryColWidth).Render("Category"),
		cli.TableHeaderStyle.Width(countColWidth).Render("Products"),
		cli.TableHeaderStyle.Width(statColWidth).Render("Share"),
	))

	for _, category := range sortedByCount(in.CategoryDistribution) {
		count := in.CategoryDistribution[category]
		share := 0.0
		if in.TotalProducts > 0 {
			share = float64(count) / float64(in.TotalProducts) * 100
		}
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			cli.TableCellStyle.Width(categoryColWidth).Render(category),
			cli.TableCellStyle.Width(countColWidth).Render(strconv.Itoa(count)),
			cli.TableCellStyle.Width(statColWidth).Render(fmt.Sprintf("%.1f%%", share)),
		))
	}
}

func renderConfidenceStats(w io.Writer, in model.Insights) {
	categories := make([]string, 0, len(in.ConfidenceByCategory))
	for category := range in.ConfidenceByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
		cli.TableHeaderStyle.Width(categoryColWidth).Render("Category"),
		cli.TableHeaderStyle.Width(statColWidth).Render("Avg"),
		cli.TableHeaderStyle.Width(statColWidth).Render("Min"),
		cli.TableHeaderStyle.Width(statColWidth).Render("Max"),
	))

	for _, category := range categories {
		stats := in.ConfidenceByCategory[category]
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			cli.TableCellStyle.Width(categoryColWidth).Render(category),
			cli.TableCellStyle.Width(statColWidth).Render(fmt.Sprintf("%.3f", stats.Avg)),
			cli.TableCellStyle.Width(statColWidth).Render(fmt.Sprintf("%.3f", stats.Min)),
			cli.TableCellStyle.Width(statColWidth).Render(fmt.Sprintf("%.3f", stats.Max)),
		))
	}
}

// sortedByCount orders categories by descending count, then name.
func sortedByCount(distribution map[string]int) []string {
	categories := make([]string, 0, len(distribution))
	for category := range distribution {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if distribution[categories[i]] != distribution[categories[j]] {
			return distribution[categories[i]] > distribution[categories[j]]
		}
		return categories[i] < categories[j]
	})
	return categories
}
