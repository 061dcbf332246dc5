package marketdata

import (
	"time"

	"marketintel/internal/types"
)

// calendarEntries are the recurring macro releases the dashboard lists.
// Day offsets approximate the usual release cadence; this is a display
// aid, not an economic data feed.
var calendarEntries = []struct {
	daysAhead int
	event     string
	impact    string
}{
	{2, "Fed Interest Rate Decision", "High"},
	{5, "Non-Farm Payrolls", "High"},
	{8, "CPI Inflation Report", "High"},
	{12, "Retail Sales", "Medium"},
	{15, "GDP Growth Rate", "High"},
	{20, "Consumer Confidence Index", "Medium"},
}

// Calendar lists upcoming macro events relative to now.
func Calendar(now time.Time) []types.EconomicEvent {
	events := make([]types.EconomicEvent, 0, len(calendarEntries))
	for _, e := range calendarEntries {
		events = append(events, types.EconomicEvent{
			Date:   now.AddDate(0, 0, e.daysAhead),
			Event:  e.event,
			Impact: e.impact,
		})
	}
	return events
}
