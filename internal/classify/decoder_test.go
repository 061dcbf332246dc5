package classify

import (
	"encoding/json"
	"testing"

	"marketintel/internal/types"
)

const verdictJSON = `{"article_summary": "Company beat estimates.", "significance": "Sets the tone for the sector.", "market_impact": "Very Positive", "impact_explanation": "Strong quarter.", "confidence": 80}`

func envelope(t *testing.T, content string) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	if err != nil {
		t.Fatalf("Failed to build envelope: %v", err)
	}
	return raw
}

func TestDecodeVerdictInline(t *testing.T) {
	v, err := decodeVerdict(envelope(t, verdictJSON))
	if err != nil {
		t.Fatalf("decodeVerdict failed: %v", err)
	}
	if v.Label != types.ImpactVeryPositive {
		t.Errorf("Expected Very Positive, got %q", v.Label)
	}
	if v.Summary != "Company beat estimates." {
		t.Errorf("Unexpected summary: %q", v.Summary)
	}
	if v.Confidence == nil || *v.Confidence != 80 {
		t.Error("Expected confidence 80")
	}
}

func TestDecodeVerdictFenced(t *testing.T) {
	v, err := decodeVerdict(envelope(t, "```json\n"+verdictJSON+"\n```"))
	if err != nil {
		t.Fatalf("decodeVerdict failed on fenced content: %v", err)
	}
	if v.Label != types.ImpactVeryPositive {
		t.Errorf("Expected Very Positive, got %q", v.Label)
	}
}

func TestDecodeVerdictDoubleEncoded(t *testing.T) {
	quoted, err := json.Marshal(verdictJSON)
	if err != nil {
		t.Fatalf("Failed to quote verdict: %v", err)
	}
	v, err := decodeVerdict(envelope(t, string(quoted)))
	if err != nil {
		t.Fatalf("decodeVerdict failed on double-encoded content: %v", err)
	}
	if v.Label != types.ImpactVeryPositive {
		t.Errorf("Expected Very Positive, got %q", v.Label)
	}
}

func TestDecodeVerdictBuriedInProse(t *testing.T) {
	content := "Sure! Here is the analysis you asked for:\n" + verdictJSON + "\nHope that helps."
	v, err := decodeVerdict(envelope(t, content))
	if err != nil {
		t.Fatalf("decodeVerdict failed on prose-wrapped content: %v", err)
	}
	if v.Label != types.ImpactVeryPositive {
		t.Errorf("Expected Very Positive, got %q", v.Label)
	}
}

func TestDecodeVerdictUnknownLabel(t *testing.T) {
	content := `{"article_summary": "s", "market_impact": "mega positive", "impact_explanation": "e"}`
	v, err := decodeVerdict(envelope(t, content))
	if err != nil {
		t.Fatalf("decodeVerdict failed: %v", err)
	}
	if v.Label != types.ImpactAmbivalent {
		t.Errorf("Expected unknown label to coerce to Ambivalent, got %q", v.Label)
	}
}

func TestDecodeVerdictDropsOutOfRangeConfidence(t *testing.T) {
	content := `{"article_summary": "s", "market_impact": "Ambivalent", "impact_explanation": "e", "confidence": 150}`
	v, err := decodeVerdict(envelope(t, content))
	if err != nil {
		t.Fatalf("decodeVerdict failed: %v", err)
	}
	if v.Confidence != nil {
		t.Errorf("Expected out-of-range confidence to be dropped, got %f", *v.Confidence)
	}
}

func TestDecodeVerdictErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  []byte
	}{
		{"garbage envelope", []byte("not json")},
		{"no choices", []byte(`{"choices": []}`)},
		{"empty content", nil},
		{"unusable payload", nil},
		{"unparseable content", nil},
	}
	cases[2].raw = envelope(t, "")
	cases[3].raw = envelope(t, `{"market_impact": "Very Positive"}`)
	cases[4].raw = envelope(t, "no json anywhere here")

	for _, c := range cases {
		if _, err := decodeVerdict(c.raw); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}
