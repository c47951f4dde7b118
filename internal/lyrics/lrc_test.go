package lyrics

import (
	"testing"
	"time"
)

func TestParseLRC_Basic(t *testing.T) {
	text := "[00:06.40]First line\n[00:17.12]Second line\n"
	lines := ParseLRC(text)

	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Time != 6400*time.Millisecond || lines[0].Text != "First line" {
		t.Errorf("line 0 = %v %q", lines[0].Time, lines[0].Text)
	}
	if lines[1].Time != 17120*time.Millisecond || lines[1].Text != "Second line" {
		t.Errorf("line 1 = %v %q", lines[1].Time, lines[1].Text)
	}
}

func TestParseLRC_SkipsMetadata(t *testing.T) {
	text := "[ar:Miles Davis]\n[ti:So What]\n[00:10.00]Lyric\n"
	lines := ParseLRC(text)

	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0].Text != "Lyric" {
		t.Errorf("text = %q, want %q", lines[0].Text, "Lyric")
	}
}

func TestParseLRC_MultipleTimestamps(t *testing.T) {
	// A repeated chorus line carries every timestamp it appears at.
	text := "[00:30.00][01:30.00]Chorus\n"
	lines := ParseLRC(text)

	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Time != 30*time.Second || lines[1].Time != 90*time.Second {
		t.Errorf("times = %v %v", lines[0].Time, lines[1].Time)
	}
	for _, l := range lines {
		if l.Text != "Chorus" {
			t.Errorf("text = %q, want Chorus", l.Text)
		}
	}
}

func TestParseLRC_NoCentiseconds(t *testing.T) {
	lines := ParseLRC("[01:05]Short stamp\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0].Time != 65*time.Second {
		t.Errorf("time = %v, want 65s", lines[0].Time)
	}
}

func TestParseLRC_SortsByTime(t *testing.T) {
	text := "[01:00.00]Later\n[00:10.00]Earlier\n"
	lines := ParseLRC(text)

	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Text != "Earlier" || lines[1].Text != "Later" {
		t.Errorf("order = %q, %q", lines[0].Text, lines[1].Text)
	}
}

func TestParseLRC_IgnoresJunk(t *testing.T) {
	text := "plain text without stamp\n\n[00:10.00]\n[bad\n[00:20.00]Real\n"
	lines := ParseLRC(text)

	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %v", len(lines), lines)
	}
	if lines[0].Text != "Real" {
		t.Errorf("text = %q, want Real", lines[0].Text)
	}
}

func TestParseLRC_CRLF(t *testing.T) {
	lines := ParseLRC("[00:01.00]Windows line\r\n")
	if len(lines) != 1 || lines[0].Text != "Windows line" {
		t.Fatalf("lines = %v", lines)
	}
}
