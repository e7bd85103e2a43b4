package stats

import (
	"testing"
)

func TestTableAlignsColumns(t *testing.T) {
	tbl := newTable(number("Rank"), text("Name"), number("XP"))
	tbl.add("1", "Adebayo", "2450")
	tbl.add("11", "You", "30")

	lines := tbl.lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Rank Name      XP" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "   1 Adebayo 2450" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "  11 You       30" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTableIgnoresToneMarks(t *testing.T) {
	tbl := newTable(text("Word"), text("Meaning"))
	tbl.add("Ẹ káàárọ̀", "Good morning")
	tbl.add("Omi", "Water")

	lines := tbl.lines()
	if lines[1] != "Ẹ káàárọ̀ Good morning" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Omi      Water" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTableShortRowsAndEmptyLastColumn(t *testing.T) {
	tbl := newTable(text("Icon"), text("Title"))
	tbl.add("🔥")
	tbl.add("a", "b", "dropped")

	lines := tbl.lines()
	if lines[1] != "🔥" {
		t.Fatalf("expected trailing blanks trimmed, got %q", lines[1])
	}
	if lines[2] != "a    b" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
	if newTable().lines() != nil {
		t.Fatalf("expected no lines without columns")
	}
}

func TestDisplayWidthCountsWideRunes(t *testing.T) {
	if got := displayWidth("👤"); got != 2 {
		t.Fatalf("expected emoji width 2, got %d", got)
	}
	if got := displayWidth("Ọ̀"); got != 1 {
		t.Fatalf("expected width 1 for letter with tone mark, got %d", got)
	}
}
