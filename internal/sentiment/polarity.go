package sentiment

import (
	"strings"
	"unicode"
)

// Scorer computes a lexical polarity for short news text. It is a pure
// function of the text: word-list lookups with a small negation window,
// no I/O.
type Scorer struct {
	positive map[string]bool
	negative map[string]bool
	negators map[string]bool
}

func NewScorer() *Scorer {
	return &Scorer{
		positive: loadPositiveWords(),
		negative: loadNegativeWords(),
		negators: map[string]bool{"not": true, "no": true, "never": true, "without": true},
	}
}

// Polarity scores text in [-1, 1]. Zero means the text carried no
// directional signal at all.
func (s *Scorer) Polarity(text string) float64 {
	words := tokenize(strings.ToLower(text))

	var pos, neg int
	negate := 0
	for _, w := range words {
		if s.negators[w] {
			negate = 3
			continue
		}
		flipped := negate > 0
		if negate > 0 {
			negate--
		}
		switch {
		case s.positive[w]:
			if flipped {
				neg++
			} else {
				pos++
			}
		case s.negative[w]:
			if flipped {
				pos++
			} else {
				neg++
			}
		}
	}

	total := pos + neg
	if total == 0 {
		return 0
	}
	return float64(pos-neg) / float64(total)
}

// tokenize splits text into letter/number runs.
func tokenize(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}

func loadPositiveWords() map[string]bool {
	words := []string{
		"achieve", "advance", "beat", "beats", "benefit", "boost", "breakthrough",
		"climb", "climbs", "confident", "deliver", "exceed", "exceeds", "excellent",
		"expand", "gain", "gains", "grow", "grows", "growth", "improve", "improved",
		"improvement", "jump", "jumps", "outperform", "positive", "profit",
		"profitable", "profits", "rally", "rebound", "record", "recover", "rise",
		"rises", "robust", "soar", "soars", "strength", "strong", "succeed",
		"success", "surge", "surges", "surpass", "upbeat", "upgrade", "win",
	}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

func loadNegativeWords() map[string]bool {
	words := []string{
		"concern", "concerns", "crisis", "cut", "cuts", "decline", "declines",
		"deficit", "delay", "disappoint", "disappointing", "downgrade", "drop",
		"drops", "fall", "falls", "fear", "fears", "fraud", "lawsuit", "layoff",
		"layoffs", "loss", "losses", "miss", "missed", "misses", "negative",
		"plunge", "plunges", "poor", "pressure", "recall", "recession", "risk",
		"risks", "setback", "shortfall", "slide", "slowdown", "slump", "struggle",
		"struggles", "tumble", "tumbles", "uncertain", "volatile", "warn",
		"warning", "warns", "weak", "weakness", "worse",
	}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
