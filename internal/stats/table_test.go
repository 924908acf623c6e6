package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Document", "WPM", "Status"}
	rows := [][]string{
		{"a.txt", "250", "finished"},
		{"notes.md", "80", "stopped"},
	}
	rightAlign := map[int]bool{1: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Document WPM Status" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a.txt    250 finished" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "notes.md  80 stopped" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Doc", "N"}, [][]string{{"本本", "1"}, {"ab", "22"}}, map[int]bool{1: true})
	if lines[1] != "本本  1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "ab   22" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil, got %v", lines)
	}
}
