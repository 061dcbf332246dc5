package types

import (
	"strings"
	"time"
)

// Article is a single news item as delivered by an article source.
// Sources reject items missing a title, description or timestamp, so
// downstream code may assume all three are present.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// ImpactLabel is the five-tier market impact classification of an article.
type ImpactLabel string

const (
	ImpactVeryPositive     ImpactLabel = "Very Positive"
	ImpactSomewhatPositive ImpactLabel = "Somewhat Positive"
	ImpactAmbivalent       ImpactLabel = "Ambivalent"
	ImpactSomewhatNegative ImpactLabel = "Somewhat Negative"
	ImpactVeryNegative     ImpactLabel = "Very Negative"
)

// ParseImpactLabel maps free-form classifier output onto the label set.
// Anything unrecognized collapses to Ambivalent; it never fails.
func ParseImpactLabel(s string) ImpactLabel {
	norm := strings.ToLower(s)
	norm = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(norm)
	switch norm {
	case "verypositive":
		return ImpactVeryPositive
	case "somewhatpositive", "positive":
		return ImpactSomewhatPositive
	case "somewhatnegative", "negative":
		return ImpactSomewhatNegative
	case "verynegative":
		return ImpactVeryNegative
	case "ambivalent", "neutral":
		return ImpactAmbivalent
	default:
		return ImpactAmbivalent
	}
}

// Score maps the label onto a symmetric [-1, 1] scale.
func (l ImpactLabel) Score() float64 {
	switch l {
	case ImpactVeryPositive:
		return 1.0
	case ImpactSomewhatPositive:
		return 0.5
	case ImpactSomewhatNegative:
		return -0.5
	case ImpactVeryNegative:
		return -1.0
	default:
		return 0.0
	}
}

// ImpactVerdict is one classifier's judgement of a single article.
// Confidence is only set when the classifier actually produced one.
type ImpactVerdict struct {
	Summary      string      `json:"article_summary"`
	Significance string      `json:"significance"`
	Label        ImpactLabel `json:"market_impact"`
	Rationale    string      `json:"impact_explanation"`
	Confidence   *float64    `json:"confidence,omitempty"`
	Classifier   string      `json:"classifier,omitempty"`
}

// AnalyzedArticle pairs an article with its verdict and polarity scores.
type AnalyzedArticle struct {
	Article          Article       `json:"article"`
	Verdict          ImpactVerdict `json:"analysis"`
	TitleScore       float64       `json:"title_score"`
	DescriptionScore float64       `json:"description_score"`
	KeywordMatches   int           `json:"keyword_matches"`
}

// Direction labels a sentiment or trend reading.
type Direction string

const (
	StrongBullish Direction = "Strong Bullish"
	Bullish       Direction = "Bullish"
	Neutral       Direction = "Neutral"
	Bearish       Direction = "Bearish"
	StrongBearish Direction = "Strong Bearish"
)

// Insight is one headline judged significant enough to surface.
type Insight struct {
	Title       string    `json:"title"`
	Score       float64   `json:"score"`
	Impact      string    `json:"impact"`
	PublishedAt time.Time `json:"published_at"`
}

// SymbolSentiment is the aggregated news sentiment verdict for one symbol.
type SymbolSentiment struct {
	Symbol           string    `json:"symbol"`
	Direction        Direction `json:"direction"`
	AverageSentiment float64   `json:"average_sentiment"`
	Confidence       float64   `json:"confidence"`
	ArticleCount     int       `json:"article_count"`
	TopInsights      []Insight `json:"top_insights"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// SymbolReport bundles the sentiment verdict with the articles behind it.
type SymbolReport struct {
	Sentiment SymbolSentiment   `json:"sentiment"`
	Articles  []AnalyzedArticle `json:"articles"`
}

// MarketMood is the market-wide roll-up of per-symbol sentiment.
// Callers receive a nil pointer when no mood could be computed; a
// zero-valued mood would be indistinguishable from a neutral one.
type MarketMood struct {
	Sentiment         float64   `json:"market_sentiment"`
	Direction         Direction `json:"direction"`
	SymbolsAnalyzed   int       `json:"symbols_analyzed"`
	TotalArticles     int       `json:"total_articles"`
	AverageConfidence float64   `json:"average_confidence"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// OHLCV is a single price bar.
type OHLCV struct {
	Ts     time.Time `json:"ts"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// TrendForecast is the short-horizon price trend prediction for a symbol.
type TrendForecast struct {
	Symbol         string    `json:"symbol"`
	Direction      Direction `json:"direction"`
	PredictedClose float64   `json:"predicted_close"`
	ChangePct      float64   `json:"change_pct"`
	Confidence     float64   `json:"confidence"`
	HorizonDays    int       `json:"horizon_days"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Position is one holding in the watch ledger.
type Position struct {
	Symbol     string    `json:"symbol"`
	Shares     float64   `json:"shares"`
	EntryPrice float64   `json:"entry_price"`
	AddedAt    time.Time `json:"added_at"`
}

// IndexQuote is a snapshot of one market index.
type IndexQuote struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_pct"`
}

// EconomicEvent is an upcoming macro calendar entry.
type EconomicEvent struct {
	Date   time.Time `json:"date"`
	Event  string    `json:"event"`
	Impact string    `json:"impact"`
}

// AlertKind enumerates the alert triggers.
type AlertKind string

const (
	AlertPriceMove   AlertKind = "price_move"
	AlertVolumeSpike AlertKind = "volume_spike"
	AlertVolatility  AlertKind = "volatility"
	AlertMarketFear  AlertKind = "market_fear"
)

// Alert is a raised threshold breach.
type Alert struct {
	ID        string    `json:"id"`
	Kind      AlertKind `json:"kind"`
	Symbol    string    `json:"symbol"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}
