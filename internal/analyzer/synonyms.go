package analyzer

// DefaultSynonyms returns the built-in synonym table. Marketing names and
// trade abbreviations collapse onto the canonical INCI-adjacent name that the
// category rules reference.
func DefaultSynonyms() []SynonymGroup {
	return []SynonymGroup{
		{Canonical: "hyaluronic acid", Synonyms: []string{"sodium hyaluronate", "hyaluronate"}},
		{Canonical: "vitamin c", Synonyms: []string{"ascorbic acid", "magnesium ascorbyl phosphate", "sodium ascorbyl phosphate"}},
		{Canonical: "retinol", Synonyms: []string{"retinyl palmitate", "retinaldehyde", "tretinoin"}},
		{Canonical: "salicylic acid", Synonyms: []string{"bha", "beta hydroxy acid"}},
		{Canonical: "glycolic acid", Synonyms: []string{"aha", "alpha hydroxy acid"}},
	}
}
