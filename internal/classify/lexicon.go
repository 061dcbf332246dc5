package classify

import (
	"context"
	"math"
	"strings"

	"marketintel/internal/types"
)

// impactTiers holds the phrase evidence for each non-neutral label.
// Tier order only matters for deterministic iteration; ties between
// tiers are resolved to Ambivalent, never by position.
var impactTiers = []struct {
	label   types.ImpactLabel
	phrases []string
}{
	{types.ImpactVeryPositive, []string{"surge", "breakthrough", "exceeds expectations", "record high"}},
	{types.ImpactSomewhatPositive, []string{"increase", "growth", "improvement", "gains"}},
	{types.ImpactSomewhatNegative, []string{"decline", "below expectations", "challenges"}},
	{types.ImpactVeryNegative, []string{"plunge", "crisis", "major setback", "significant loss"}},
}

// Lexicon is the deterministic fallback classifier. It is a pure
// function of the article text: no I/O, no state, cannot fail.
type Lexicon struct{}

func NewLexicon() *Lexicon { return &Lexicon{} }

func (l *Lexicon) Name() string { return "lexicon" }

func (l *Lexicon) Classify(_ context.Context, article types.Article) (types.ImpactVerdict, error) {
	text := strings.ToLower(article.Title + " " + article.Description)

	var (
		best        = types.ImpactAmbivalent
		bestCount   int
		bestMatched []string
		tied        bool
	)
	for _, tier := range impactTiers {
		var matched []string
		for _, phrase := range tier.phrases {
			if strings.Contains(text, phrase) {
				matched = append(matched, phrase)
			}
		}
		switch {
		case len(matched) > bestCount:
			best = tier.label
			bestCount = len(matched)
			bestMatched = matched
			tied = false
		case len(matched) == bestCount && bestCount > 0:
			tied = true
		}
	}

	if bestCount == 0 || tied {
		conf := 25.0
		return types.ImpactVerdict{
			Summary:    article.Title,
			Label:      types.ImpactAmbivalent,
			Rationale:  "no dominant impact phrases found",
			Confidence: &conf,
			Classifier: l.Name(),
		}, nil
	}

	conf := math.Min(40+15*float64(bestCount), 85)
	return types.ImpactVerdict{
		Summary:    article.Title,
		Label:      best,
		Rationale:  "matched phrases: " + strings.Join(bestMatched, ", "),
		Confidence: &conf,
		Classifier: l.Name(),
	}, nil
}
