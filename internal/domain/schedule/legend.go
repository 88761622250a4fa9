package schedule

// LegendEntry describes how the UI should render a status.
type LegendEntry struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Color  string `json:"color"`
}

var legendColors = map[string]map[string]string{
	"light": {
		StatusTentative: "#9e9e9e",
		StatusScheduled: "#1976d2",
		StatusConfirmed: "#2e7d32",
		StatusOperated:  "#6a1b9a",
		StatusCancelled: "#c62828",
	},
	"dark": {
		StatusTentative: "#bdbdbd",
		StatusScheduled: "#64b5f6",
		StatusConfirmed: "#81c784",
		StatusOperated:  "#ce93d8",
		StatusCancelled: "#e57373",
	},
}

var legendLabels = []struct{ status, label string }{
	{StatusTentative, "Tentative"},
	{StatusScheduled, "Scheduled"},
	{StatusConfirmed, "Confirmed"},
	{StatusOperated, "Operated"},
	{StatusCancelled, "Cancelled"},
}

// Legend returns the status legend for a theme. Unknown themes fall back to
// light.
func Legend(theme string) []LegendEntry {
	colors, ok := legendColors[theme]
	if !ok {
		colors = legendColors["light"]
	}
	out := make([]LegendEntry, 0, len(legendLabels))
	for _, l := range legendLabels {
		out = append(out, LegendEntry{Status: l.status, Label: l.label, Color: colors[l.status]})
	}
	return out
}
