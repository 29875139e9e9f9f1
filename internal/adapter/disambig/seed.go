package disambig

import "usem/internal/domain"

// SeedRules returns the curated starter rule set for headwords known to
// carry multiple common Ibibio translations. Administrators extend the set
// through the rule store.
func SeedRules() []domain.DisambiguationRule {
	return []domain.DisambiguationRule{
		{
			Word:               "stop",
			PrimaryTranslation: "tịre",
			Priority:           1,
			Context:            "cease an action",
			Usage:              "tịre ndidia — stop eating",
			Alternatives: []domain.RuleAlternative{
				{Translation: "tịbe", Priority: 2, Context: "halt or block something", Usage: "tịbe usụñ — block the road"},
			},
		},
		{
			Word:               "right",
			PrimaryTranslation: "nnasịa",
			Priority:           1,
			Context:            "direction, right-hand side",
			Alternatives: []domain.RuleAlternative{
				{Translation: "edinen", Priority: 2, Context: "correct, just"},
			},
		},
		{
			Word:               "light",
			PrimaryTranslation: "un̄wana",
			Priority:           1,
			Context:            "brightness, illumination",
			Alternatives: []domain.RuleAlternative{
				{Translation: "mfefere", Priority: 2, Context: "little weight"},
			},
		},
	}
}
