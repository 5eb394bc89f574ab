package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Exercise", "Score", "XP"}
	rows := [][]string{
		{"Filler Words", "97", "+29"},
		{"Impromptu", "8", "+11"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Exercise     Score  XP" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Filler Words    97 +29" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Impromptu        8 +11" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Icon", "Name"}, [][]string{{"🔥", "Streak"}, {"a", "Alpha"}}, nil)
	if lines[1] != "🔥   Streak" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "a    Alpha " {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}
