package rules

// Default returns the built-in categorization configuration.
func Default() *Config {
	return &Config{Categories: defaultCategories()}
}

// defaultCategories returns the built-in category rules in declaration order.
// Earlier categories win score ties.
func defaultCategories() []CategoryConfig {
	return []CategoryConfig{
		// Face care
		{
			Name:              "Face Moisturizer",
			RequiredFunctions: []string{"moisturizer/humectant", "emollient"},
			KeyIngredients:    []string{"hyaluronic acid", "glycerin", "ceramide", "cholesterol", "squalane"},
			AvoidFunctions:    []string{"surfactant/cleansing"},
			Weight:            1.0,
			MinConfidence:     0.3,
		},
		{
			Name:              "Face Cleanser",
			RequiredFunctions: []string{"surfactant/cleansing"},
			KeyIngredients:    []string{"sulfate", "cleansing", "foam", "micellar"},
			AvoidFunctions:    []string{"moisturizer/humectant"},
			Weight:            1.2,
			MinConfidence:     0.3,
		},
		{
			Name:              "Face Serum",
			RequiredFunctions: []string{"antioxidant", "skin-identical ingredient", "cell-communicating ingredient"},
			KeyIngredients:    []string{"vitamin c", "niacinamide", "retinol", "peptide", "hyaluronic acid"},
			AvoidFunctions:    []string{"surfactant/cleansing", "abrasive/scrub"},
			Weight:            1.1,
			MinConfidence:     0.3,
		},
		{
			Name:              "Acne Treatment",
			RequiredFunctions: []string{"anti-acne", "antimicrobial/antibacterial", "exfoliant"},
			KeyIngredients:    []string{"salicylic acid", "benzoyl peroxide", "glycolic acid", "tea tree"},
			Weight:            1.3,
			MinConfidence:     0.3,
		},
		{
			Name:              "Face Mask",
			RequiredFunctions: []string{"absorbent/mattifier", "moisturizer/humectant", "soothing"},
			KeyIngredients:    []string{"clay", "charcoal", "sheet mask", "hydrogel"},
			Weight:            1.2,
			MinConfidence:     0.3,
		},
		{
			Name:              "Exfoliant/Scrub",
			RequiredFunctions: []string{"abrasive/scrub", "exfoliant"},
			KeyIngredients:    []string{"glycolic acid", "lactic acid", "scrub", "beads"},
			Weight:            1.4,
			MinConfidence:     0.3,
		},
		{
			Name:              "Sunscreen",
			RequiredFunctions: []string{"sunscreen"},
			KeyIngredients:    []string{"zinc oxide", "titanium dioxide", "avobenzone", "spf"},
			Weight:            1.5,
			MinConfidence:     0.5,
		},
		{
			Name:              "Face Toner",
			RequiredFunctions: []string{"astringent", "buffering", "soothing"},
			KeyIngredients:    []string{"witch hazel", "rose water", "toner", "essence"},
			AvoidFunctions:    []string{"emollient", "surfactant/cleansing"},
			Weight:            1.1,
			MinConfidence:     0.3,
		},
		{
			Name:              "Brightening Treatment",
			RequiredFunctions: []string{"skin brightening", "antioxidant"},
			KeyIngredients:    []string{"vitamin c", "kojic acid", "arbutin", "niacinamide"},
			Weight:            1.2,
			MinConfidence:     0.3,
		},
		// Hair care
		{
			Name:              "Shampoo",
			RequiredFunctions: []string{"surfactant/cleansing", "deodorant"},
			KeyIngredients:    []string{"sulfate", "shampoo", "cleansing", "foam"},
			AvoidFunctions:    []string{"emollient", "moisturizer/humectant"},
			Weight:            1.3,
			MinConfidence:     0.3,
		},
		{
			Name:              "Conditioner",
			RequiredFunctions: []string{"emollient", "moisturizer/humectant", "emulsion stabilising"},
			KeyIngredients:    []string{"conditioner", "silicone", "protein", "keratin"},
			AvoidFunctions:    []string{"surfactant/cleansing"},
			Weight:            1.2,
			MinConfidence:     0.3,
		},
		{
			Name:              "Hair Mask",
			RequiredFunctions: []string{"moisturizer/humectant", "emollient"},
			KeyIngredients:    []string{"hair mask", "deep conditioning", "protein", "oil"},
			Weight:            1.3,
			MinConfidence:     0.3,
		},
		{
			Name:              "Hair Treatment",
			RequiredFunctions: []string{"cell-communicating ingredient", "antioxidant"},
			KeyIngredients:    []string{"serum", "oil", "leave-in", "treatment"},
			Weight:            1.2,
			MinConfidence:     0.3,
		},
		// Body care
		{
			Name:              "Body Moisturizer",
			RequiredFunctions: []string{"moisturizer/humectant", "emollient"},
			KeyIngredients:    []string{"body lotion", "body cream", "butter", "oil"},
			Weight:            1.0,
			MinConfidence:     0.3,
		},
		{
			Name:              "Body Wash",
			RequiredFunctions: []string{"surfactant/cleansing", "deodorant"},
			KeyIngredients:    []string{"body wash", "shower gel", "soap"},
			Weight:            1.1,
			MinConfidence:     0.3,
		},
	}
}
