package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderUnitChart(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	units := []UnitProgress{
		{Name: "Basics", Done: 2, Total: 4},
		{Name: "Greetings", Done: 4, Total: 4},
	}
	var buf bytes.Buffer
	if err := RenderUnitChart(&buf, units, ChartOptions{Width: 40}); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}
	want := "Basics    " + Bar(2, 4, BarWidthFor(40, 9)) + " 2/4"
	if lines[1] != want {
		t.Fatalf("unexpected line:\n got %q\nwant %q", lines[1], want)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("unexpected color codes with NO_COLOR")
	}
}

func TestRenderUnitChartForceColor(t *testing.T) {
	var buf bytes.Buffer
	err := RenderUnitChart(&buf, []UnitProgress{{Name: "A", Done: 1, Total: 1}}, ChartOptions{Width: 60, ForceColor: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), colorPalette[0]) {
		t.Fatalf("expected colored bar, got %q", buf.String())
	}
}

func TestBarWidthFor(t *testing.T) {
	cases := []struct {
		total, label, want int
	}{
		{80, 10, 40},
		{40, 9, 19},
		{20, 10, minBarWidth},
		{0, 10, 40},
	}
	for _, tc := range cases {
		if got := BarWidthFor(tc.total, tc.label); got != tc.want {
			t.Fatalf("BarWidthFor(%d, %d) = %d, want %d", tc.total, tc.label, got, tc.want)
		}
	}
}
