package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"marketintel/internal/types"
)

// chatReply mirrors the OpenAI-compatible response envelope. Every wire
// schema assumption about the provider lives in this file.
type chatReply struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type verdictPayload struct {
	ArticleSummary    string   `json:"article_summary"`
	Significance      string   `json:"significance"`
	MarketImpact      string   `json:"market_impact"`
	ImpactExplanation string   `json:"impact_explanation"`
	Confidence        *float64 `json:"confidence"`
}

// decodeVerdict extracts an impact verdict from a raw chat completions
// reply. Models return the verdict inline, wrapped in code fences,
// double-encoded as a JSON string, or buried in prose; all four shapes
// are handled before giving up.
func decodeVerdict(raw []byte) (types.ImpactVerdict, error) {
	var reply chatReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return types.ImpactVerdict{}, fmt.Errorf("decode reply envelope: %w", err)
	}
	if len(reply.Choices) == 0 {
		return types.ImpactVerdict{}, errors.New("reply has no choices")
	}

	content := stripFences(reply.Choices[0].Message.Content)
	if content == "" {
		return types.ImpactVerdict{}, errors.New("reply content is empty")
	}

	payload, err := parsePayload(content)
	if err != nil {
		return types.ImpactVerdict{}, err
	}
	return normalizeVerdict(payload)
}

func parsePayload(content string) (verdictPayload, error) {
	var payload verdictPayload
	direct := json.Unmarshal([]byte(content), &payload)
	if direct == nil {
		return payload, nil
	}

	// Double-encoded: the content is a JSON string holding the object.
	var nested string
	if err := json.Unmarshal([]byte(content), &nested); err == nil {
		if err := json.Unmarshal([]byte(nested), &payload); err == nil {
			return payload, nil
		}
	}

	// Object buried in prose: take the outermost brace pair.
	if snippet := braceSlice(content); snippet != "" {
		if err := json.Unmarshal([]byte(snippet), &payload); err == nil {
			return payload, nil
		}
	}

	return verdictPayload{}, fmt.Errorf("decode verdict content: %w", direct)
}

func normalizeVerdict(p verdictPayload) (types.ImpactVerdict, error) {
	if p.ArticleSummary == "" && p.ImpactExplanation == "" {
		return types.ImpactVerdict{}, errors.New("verdict missing both summary and explanation")
	}

	v := types.ImpactVerdict{
		Summary:      p.ArticleSummary,
		Significance: p.Significance,
		Label:        types.ParseImpactLabel(p.MarketImpact),
		Rationale:    p.ImpactExplanation,
	}
	// Out-of-range confidence is dropped rather than clamped; a clamped
	// value would look like a judgement the model never made.
	if p.Confidence != nil && *p.Confidence >= 0 && *p.Confidence <= 100 {
		v.Confidence = p.Confidence
	}
	return v, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func braceSlice(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
