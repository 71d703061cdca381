package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/seralys/inciwise/internal/cli"
	"github.com/seralys/inciwise/internal/dataset"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func accuracyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accuracy",
		Short: "Score predictions against manual labels",
		Long: `Calculate accuracy metrics from a manually labeled gold standard file.

Each labeled sample counts as correct when its predicted category matches
one of the manual labels (several may be listed, separated by commas).
Samples without a manual label are reported as unlabeled and excluded.

Examples:
  inciwise accuracy                            # Score gold_standard_sample.json
  inciwise accuracy -g my_labels.json          # Score a specific file
  inciwise accuracy -o accuracy_report.json    # Also save the report as JSON`,
		RunE: runAccuracy,
	}

	// Flags
	cmd.Flags().StringP("gold", "g", "gold_standard_sample.json", "Gold standard file with manual labels")
	cmd.Flags().StringP("output", "o", "", "Write the report to a JSON file")

	// Bind to viper
	_ = viper.BindPFlag("accuracy.gold", cmd.Flags().Lookup("gold"))
	_ = viper.BindPFlag("accuracy.output", cmd.Flags().Lookup("output"))

	return cmd
}

func runAccuracy(_ *cobra.Command, _ []string) error {
	gold := viper.GetString("accuracy.gold")
	output := viper.GetString("accuracy.output")

	env, err := dataset.LoadResults(gold)
	if err != nil {
		return err
	}
	if len(env.Results) == 0 {
		fmt.Println(cli.FormatInfo("No samples in file. Run 'inciwise gold-standard' to create one."))
		return nil
	}

	report := dataset.Accuracy(env.Results)
	renderAccuracy(report)

	if output != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		if err := os.WriteFile(output, data, 0600); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Report saved to %s", output)))
	}

	return nil
}

func renderAccuracy(report dataset.AccuracyReport) {
	fmt.Println(cli.FormatTitle(fmt.Sprintf("%s Categorization Accuracy", cli.ChartIcon)))

	overall := fmt.Sprintf("Overall accuracy: %s\nLabeled samples: %s\nCorrect predictions: %s\nUnlabeled samples: %s",
		cli.BoldStyle.Render(fmt.Sprintf("%.2f%%", report.OverallAccuracy*100)),
		cli.BoldStyle.Render(strconv.Itoa(report.TotalSamples)),
		cli.BoldStyle.Render(strconv.Itoa(report.CorrectPredictions)),
		cli.BoldStyle.Render(strconv.Itoa(report.Unlabeled)))
	fmt.Println(cli.RenderBox("Results", overall))

	if len(report.ByCategory) == 0 {
		return
	}

	categories := make([]string, 0, len(report.ByCategory))
	for category := range report.ByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	fmt.Println(cli.SubtitleStyle.Render("Per-category accuracy"))
	fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top,
		cli.TableHeaderStyle.Width(categoryColWidth).Render("Category"),
		cli.TableHeaderStyle.Width(statColWidth).Render("Accuracy"),
		cli.TableHeaderStyle.Width(countColWidth).Render("Samples"),
	))
	for _, category := range categories {
		stats := report.ByCategory[category]
		fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top,
			cli.TableCellStyle.Width(categoryColWidth).Render(category),
			cli.TableCellStyle.Width(statColWidth).Render(fmt.Sprintf("%.2f%%", stats.Accuracy*100)),
			cli.TableCellStyle.Width(countColWidth).Render(strconv.Itoa(stats.Samples)),
		))
	}
}
