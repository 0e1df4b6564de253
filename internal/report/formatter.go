package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"tidetrap/internal/model"
	"tidetrap/internal/tide"
)

// FormatTideSummary describes the extremes of a tide series, placing them by
// day and hour since the start of the series.
func FormatTideSummary(levels []float64) string {
	low, high, lowHour, highHour := tide.Extremes(levels)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("The lowest tide reaches %.2f meters on day %d at %d hours\n",
		low, lowHour/24, lowHour%24))
	b.WriteString(fmt.Sprintf("The highest tide reaches %.2f meters on day %d at %d hours\n",
		high, highHour/24, highHour%24))
	return b.String()
}

// FormatRunSummary formats a finished simulation into a plain-text report.
func FormatRunSummary(spec model.TrapSpec, st *model.SimState, levels []float64) string {
	var b strings.Builder

	b.WriteString("=== Tidal Fish Trap Simulation ===\n\n")
	b.WriteString(fmt.Sprintf("Trap: radius %.1fm, height %.1fm, beach slope %.2f\n",
		spec.Radius, spec.Height, spec.Slope))
	b.WriteString(fmt.Sprintf("Hours simulated: %d (%.1f days)\n\n",
		st.Hours(), float64(st.Hours())/24))

	b.WriteString(FormatTideSummary(levels))
	b.WriteString("\n")

	peak := 0.0
	for _, v := range st.InTrap {
		if v > peak {
			peak = v
		}
	}

	b.WriteString(fmt.Sprintf("Total harvested: %s fish\n",
		humanize.Comma(int64(st.TotalHarvested()))))
	b.WriteString(fmt.Sprintf("Harvest events:  %d\n", len(st.HarvestSizes)))
	if len(st.HarvestSizes) > 0 {
		sizes := make([]string, len(st.HarvestSizes))
		for i, s := range st.HarvestSizes {
			sizes[i] = fmt.Sprintf("%.0f", s)
		}
		b.WriteString(fmt.Sprintf("Harvest sizes:   %s\n", strings.Join(sizes, ", ")))
	}
	b.WriteString(fmt.Sprintf("Peak in trap:    %.1f fish\n", peak))
	b.WriteString(fmt.Sprintf("Free at end:     %s fish\n",
		humanize.Comma(int64(st.FreeFish+0.5))))

	return b.String()
}
