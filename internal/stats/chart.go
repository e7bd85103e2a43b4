package stats

import (
	"fmt"
	"io"
	"strings"
)

// ChartOptions controls unit chart rendering.
type ChartOptions struct {
	Width      int
	ForceColor bool
}

// RenderUnitChart draws one completion bar per unit. Width 0 uses the
// terminal width.
func RenderUnitChart(w io.Writer, units []UnitProgress, opts ChartOptions) error {
	if len(units) == 0 {
		return nil
	}
	labelWidth := 0
	for _, u := range units {
		if lw := displayWidth(u.Name); lw > labelWidth {
			labelWidth = lw
		}
	}
	total := opts.Width
	if total <= 0 {
		total = terminalWidth()
	}
	barWidth := BarWidthFor(total, labelWidth)
	color := shouldUseColor(opts.ForceColor)

	lines := make([]string, 0, len(units)+1)
	lines = append(lines, "Units")
	for i, u := range units {
		bar := Bar(u.Done, u.Total, barWidth)
		if color {
			bar = colorPalette[i%len(colorPalette)] + bar + colorReset
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			pad(u.Name, labelWidth, false),
			bar,
			strings.TrimSpace(fmt.Sprintf("%d/%d", u.Done, u.Total)),
		))
	}
	return writeLines(w, lines)
}
