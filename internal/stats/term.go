package stats

import (
	"os"

	"golang.org/x/term"
)

const (
	defaultWidth = 80
	minBarWidth  = 10
	maxBarWidth  = 40
	colorReset   = "\x1b[0m"
)

var colorPalette = []string{
	"\x1b[32m",
	"\x1b[36m",
	"\x1b[33m",
	"\x1b[35m",
	"\x1b[34m",
	"\x1b[31m",
}

func terminalWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

func shouldUseColor(force bool) bool {
	if force {
		return true
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// BarWidthFor returns the bar length that fits next to a label column of
// labelWidth cells in a terminal of totalWidth cells.
func BarWidthFor(totalWidth, labelWidth int) int {
	if totalWidth <= 0 {
		totalWidth = defaultWidth
	}
	width := totalWidth - labelWidth - 12
	if width < minBarWidth {
		return minBarWidth
	}
	if width > maxBarWidth {
		return maxBarWidth
	}
	return width
}
