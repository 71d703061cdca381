package namematch

// DefaultPatterns returns the built-in regex pattern table. Categories are
// declared in priority order: on pattern collision the earlier category wins.
func DefaultPatterns() []CategoryPatterns {
	return []CategoryPatterns{
		// Face care
		{
			Category: "Face Moisturizer",
			Patterns: []string{
				`\b(face cream|facial moisturizer|day cream|night cream)\b`,
				`\b(hydrating cream|moisturizing cream|face lotion)\b`,
				`\b(anti-aging cream|firming cream)\b`,
			},
		},
		{
			Category: "Face Cleanser",
			Patterns: []string{
				`\b(face wash|facial cleanser|cleansing gel|cleansing foam)\b`,
				`\b(micellar water|face soap|cleansing oil|makeup remover)\b`,
			},
		},
		{
			Category: "Face Serum",
			Patterns: []string{
				`\b(face serum|facial serum|serum|essence)\b`,
				`\b(concentrate|drops|ampoule)\b`,
			},
		},
		{
			Category: "Acne Treatment",
			Patterns: []string{
				`\b(acne treatment|spot treatment|blemish|acne cream)\b`,
				`\b(acne gel|anti-acne|pimple)\b`,
			},
		},
		{
			Category: "Face Mask",
			Patterns: []string{
				`\b(face mask|facial mask|sheet mask|clay mask)\b`,
				`\b(mud mask|hydrogel mask|sleeping mask|peel-off)\b`,
			},
		},
		{
			Category: "Exfoliant/Scrub",
			Patterns: []string{
				`\b(exfoliant|scrub|peeling|face scrub)\b`,
				`\b(exfoliating|chemical peel)\b`,
			},
		},
		{
			Category: "Sunscreen",
			Patterns: []string{
				`\b(sunscreen|spf|sun protection|sunblock)\b`,
				`\b(uv protection|broad spectrum)\b`,
			},
		},
		{
			Category: "Face Toner",
			Patterns: []string{
				`\b(toner|astringent|face mist|facial mist)\b`,
				`\b(essence water|refreshing water)\b`,
			},
		},
		{
			Category: "Brightening Treatment",
			Patterns: []string{
				`\b(brightening|whitening|dark spot|pigmentation)\b`,
				`\b(vitamin c serum|radiance|glow)\b`,
			},
		},
		// Hair care
		{
			Category: "Shampoo",
			Patterns: []string{`\b(shampoo|hair wash|cleansing shampoo)\b`},
		},
		{
			Category: "Conditioner",
			Patterns: []string{`\b(conditioner|hair conditioner|rinse)\b`},
		},
		{
			Category: "Hair Mask",
			Patterns: []string{`\b(hair mask|hair treatment mask|deep conditioning)\b`},
		},
		{
			Category: "Hair Treatment",
			Patterns: []string{`\b(hair serum|hair oil|leave-in|scalp treatment)\b`},
		},
		// Body care
		{
			Category: "Body Moisturizer",
			Patterns: []string{`\b(body lotion|body cream|body butter|hand cream)\b`},
		},
		{
			Category: "Body Wash",
			Patterns: []string{`\b(body wash|shower gel|body soap|bath gel)\b`},
		},
	}
}

// DefaultFuzzyPatterns returns the built-in fuzzy phrase table. Only a
// reduced set of high-volume categories participates in the fuzzy pass.
func DefaultFuzzyPatterns() []FuzzyPatterns {
	return []FuzzyPatterns{
		{Category: "Face Moisturizer", Phrases: []string{"face cream", "facial moisturizer", "day cream"}},
		{Category: "Face Cleanser", Phrases: []string{"face wash", "facial cleanser", "cleansing gel"}},
		{Category: "Face Serum", Phrases: []string{"face serum", "facial serum", "serum"}},
		{Category: "Sunscreen", Phrases: []string{"sunscreen", "sun protection"}},
		{Category: "Shampoo", Phrases: []string{"shampoo"}},
		{Category: "Conditioner", Phrases: []string{"conditioner"}},
	}
}
