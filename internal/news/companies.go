package news

import "strings"

// companyNames maps common tickers to the name news outlets actually use.
// Unknown tickers fall back to the ticker itself.
var companyNames = map[string]string{
	"AAPL":  "Apple",
	"MSFT":  "Microsoft",
	"GOOGL": "Google",
	"GOOG":  "Google",
	"AMZN":  "Amazon",
	"TSLA":  "Tesla",
	"META":  "Meta",
	"NVDA":  "NVIDIA",
	"NFLX":  "Netflix",
	"AMD":   "AMD",
	"INTC":  "Intel",
	"JPM":   "JPMorgan",
	"BAC":   "Bank of America",
	"GS":    "Goldman Sachs",
	"V":     "Visa",
	"DIS":   "Disney",
	"KO":    "Coca-Cola",
	"WMT":   "Walmart",
	"XOM":   "Exxon Mobil",
	"BA":    "Boeing",
}

// CompanyName resolves a ticker to its company name for query building.
func CompanyName(symbol string) string {
	if name, ok := companyNames[strings.ToUpper(symbol)]; ok {
		return name
	}
	return symbol
}
