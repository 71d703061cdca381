package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/seralys/inciwise/internal/cli"
	"github.com/seralys/inciwise/internal/config"
	"github.com/seralys/inciwise/internal/rules"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect categorization rules",
		Long:  `List and validate the category rules used for ingredient-based scoring.`,
	}

	cmd.AddCommand(listRulesCmd())
	cmd.AddCommand(validateRulesCmd())

	return cmd
}

func listRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all category rules",
		Long:  `Display the configured categories with their weights and scoring signals.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadRulesConfig()
			if err != nil {
				return err
			}

			ruleSet, err := cfg.RuleSet()
			if err != nil {
				return fmt.Errorf("invalid rules: %w", err)
			}

			source := viper.GetString("rules.path")
			if source == "" {
				source = "built-in"
			}
			fmt.Println(cli.SubtitleStyle.Render(fmt.Sprintf("Rules: %s", source)))

			// Create table writer
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			// Header
			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				headerStyle.Render("Category"),
				headerStyle.Render("Weight"),
				headerStyle.Render("Min conf"),
				headerStyle.Render("Functions"),
				headerStyle.Render("Key ingredients"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 20),
				strings.Repeat("-", 6),
				strings.Repeat("-", 8),
				strings.Repeat("-", 9),
				strings.Repeat("-", 15))

			// List rules in declaration order; earlier rules win ties
			for _, rule := range ruleSet.Rules() {
				functions := strings.Join(rule.RequiredFunctions, ", ")
				if functions == "" {
					functions = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("(none)")
				}
				fmt.Fprintf(w, "%s\t%.1f\t%.2f\t%s\t%d\n",
					rule.Name, rule.Weight, rule.MinConfidence, functions, len(rule.KeyIngredients))
			}

			return nil
		},
	}
}

func validateRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a rules file",
		Long: `Check that a rules file parses, every category rule is well formed,
and every title pattern compiles. Without an argument the configured
rules file is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var cfg *rules.Config
			var err error
			var source string

			if len(args) > 0 {
				source = args[0]
				cfg, err = rules.Load(config.ExpandPath(source))
			} else {
				source = viper.GetString("rules.path")
				if source == "" {
					source = "built-in"
				}
				cfg, err = loadRulesConfig()
			}
			if err != nil {
				return err
			}

			ruleSet, err := cfg.RuleSet()
			if err != nil {
				return fmt.Errorf("%s: %w", source, err)
			}

			matcher, err := cfg.Matcher()
			if err != nil {
				return fmt.Errorf("%s: %w", source, err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s is valid", source)))
			fmt.Printf("  Categories: %d\n", ruleSet.Len())
			fmt.Printf("  Synonym groups: %d\n", len(cfg.SynonymGroups()))
			fmt.Printf("  Title patterns: %d\n", matcher.PatternCount())
			fmt.Printf("  Fuzzy threshold: %.2f\n", matcher.FuzzyThreshold())

			return nil
		},
	}
}
