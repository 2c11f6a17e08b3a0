package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Key", "Count", "Errors"}
	rows := [][]string{
		{"a", "12", "3"},
		{"Space", "140", "0"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Key   Count Errors" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a        12      3" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Space   140      0" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"K", "N"}, [][]string{{"日", "1"}, {"a", "22"}}, map[int]bool{1: true})
	if lines[1] != "日  1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "a  22" {
		t.Fatalf("unexpected row: %q", lines[2])
	}
}

func TestFormatTableTrimsTrailingPadding(t *testing.T) {
	lines := formatTable([]string{"Pattern", "Seen"}, [][]string{{"x", ""}}, nil)
	if lines[1] != "x" {
		t.Fatalf("expected trailing padding trimmed, got %q", lines[1])
	}
}
