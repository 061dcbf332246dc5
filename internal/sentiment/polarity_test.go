package sentiment

import "testing"

func TestPolaritySigns(t *testing.T) {
	s := NewScorer()

	cases := []struct {
		text string
		sign int
	}{
		{"Company profits surge on strong growth", 1},
		{"Shares plunge amid recession fears and layoffs", -1},
		{"The board met on Tuesday", 0},
		{"", 0},
	}
	for _, c := range cases {
		got := s.Polarity(c.text)
		switch {
		case c.sign > 0 && got <= 0:
			t.Errorf("%q: expected positive polarity, got %v", c.text, got)
		case c.sign < 0 && got >= 0:
			t.Errorf("%q: expected negative polarity, got %v", c.text, got)
		case c.sign == 0 && got != 0:
			t.Errorf("%q: expected zero polarity, got %v", c.text, got)
		}
	}
}

func TestPolarityBounds(t *testing.T) {
	s := NewScorer()
	if got := s.Polarity("surge rally gains growth strong record win"); got != 1.0 {
		t.Errorf("All-positive text should score 1.0, got %v", got)
	}
	if got := s.Polarity("plunge crisis losses layoffs fraud slump"); got != -1.0 {
		t.Errorf("All-negative text should score -1.0, got %v", got)
	}
}

func TestPolarityNegationFlipsNearbyMatch(t *testing.T) {
	s := NewScorer()
	if got := s.Polarity("growth"); got <= 0 {
		t.Fatalf("Baseline should be positive, got %v", got)
	}
	if got := s.Polarity("no growth"); got >= 0 {
		t.Errorf("Negated positive should score negative, got %v", got)
	}
	if got := s.Polarity("not a major loss"); got <= 0 {
		t.Errorf("Negated negative within the window should score positive, got %v", got)
	}
}

func TestPolarityNegationWindowExpires(t *testing.T) {
	s := NewScorer()
	// Four tokens between the negator and the match; the 3-token
	// window has lapsed, so the match keeps its sign.
	if got := s.Polarity("no change at all today but growth"); got <= 0 {
		t.Errorf("Match outside negation window should keep sign, got %v", got)
	}
}

func TestPolarityDeterministic(t *testing.T) {
	s := NewScorer()
	text := "Record profits beat expectations despite lawsuit risks"
	first := s.Polarity(text)
	for i := 0; i < 5; i++ {
		if got := s.Polarity(text); got != first {
			t.Fatalf("Polarity not deterministic: %v then %v", first, got)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("q3-2024 results: up 12%!")
	want := []string{"q3", "2024", "results", "up", "12"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
