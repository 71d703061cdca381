package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/seralys/inciwise/internal/cli"
	"github.com/seralys/inciwise/internal/dataset"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func goldStandardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gold-standard",
		Short: "Sample results for manual labeling",
		Long: `Draw a category-balanced sample from a results file for manual labeling.

The sample budget is split evenly across predicted categories, so small
categories are represented alongside large ones. Each sampled record gains
an empty manual_category field for the annotator to fill in; the labeled
file is the input for 'inciwise accuracy'.

Examples:
  inciwise gold-standard                   # Sample 75 products
  inciwise gold-standard -n 150            # Sample 150 products
  inciwise gold-standard --seed 42         # Reproducible sample`,
		RunE: runGoldStandard,
	}

	// Flags
	cmd.Flags().StringP("input", "i", "categorized_products_enhanced.json", "Results file to sample from")
	cmd.Flags().StringP("output", "o", "gold_standard_sample.json", "Output sample file")
	cmd.Flags().IntP("size", "n", 75, "Number of products to sample")
	cmd.Flags().Int64("seed", 0, "Random seed (0 = time-based)")

	// Bind to viper
	_ = viper.BindPFlag("gold.input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("gold.output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("gold.size", cmd.Flags().Lookup("size"))
	_ = viper.BindPFlag("gold.seed", cmd.Flags().Lookup("seed"))

	return cmd
}

func runGoldStandard(_ *cobra.Command, _ []string) error {
	input := viper.GetString("gold.input")
	output := viper.GetString("gold.output")
	size := viper.GetInt("gold.size")
	seed := viper.GetInt64("gold.seed")

	env, err := dataset.LoadResults(input)
	if err != nil {
		return err
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed)) // #nosec G404 -- sampling, not cryptography

	gold, err := dataset.SampleGoldStandard(env.Results, size, rnd)
	if err != nil {
		return err
	}

	if err := dataset.WriteGoldStandard(output, gold); err != nil {
		return err
	}

	summary := fmt.Sprintf("Sampled products: %d\nCategories: %d\nOutput: %s\n\nFill in each manual_category, then run 'inciwise accuracy -g %s'.",
		gold.Metadata.TotalSamples,
		len(gold.Metadata.CategoryDistribution),
		output,
		output)
	fmt.Println(cli.RenderBox("Gold Standard Sample", summary))

	return nil
}
