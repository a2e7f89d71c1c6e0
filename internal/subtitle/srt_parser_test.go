package subtitle

import (
	"math"
	"testing"
	"time"
)

func TestParseSRTEmptyDocument(t *testing.T) {
	for _, doc := range []string{"", "\n\n", "   \r\n\t\n"} {
		cues := ParseSRT(doc)
		if cues == nil {
			t.Fatalf("ParseSRT(%q) returned nil, want empty slice", doc)
		}
		if len(cues) != 0 {
			t.Errorf("ParseSRT(%q) returned %d cues, want 0", doc, len(cues))
		}
	}
}

func TestParseSRTSingleBlock(t *testing.T) {
	cues := ParseSRT("1\n00:00:01,000 --> 00:00:03,500\nHello")
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}

	cue := cues[0]
	if cue.Index != 1 {
		t.Errorf("index: got %d, want 1", cue.Index)
	}
	if cue.StartSeconds() != 1.0 {
		t.Errorf("start: got %v, want 1.0", cue.StartSeconds())
	}
	if cue.EndSeconds() != 3.5 {
		t.Errorf("end: got %v, want 3.5", cue.EndSeconds())
	}
	if cue.Text != "Hello" {
		t.Errorf("text: got %q, want %q", cue.Text, "Hello")
	}
}

func TestParseSRTSkipsMalformedBlocks(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		want  int
		texts []string
	}{
		{
			name: "bad timing line",
			doc:  "1\nbadtime\nHello",
			want: 0,
		},
		{
			name: "too few lines",
			doc:  "1\n00:00:01,000 --> 00:00:02,000",
			want: 0,
		},
		{
			name: "dot separator is not SubRip",
			doc:  "1\n00:00:01.000 --> 00:00:02.000\nHello",
			want: 0,
		},
		{
			name: "good blocks survive around a bad one",
			doc: "1\n00:00:01,000 --> 00:00:02,000\nfirst\n\n" +
				"2\nnot a timing line\nbroken\n\n" +
				"3\n00:00:05,000 --> 00:00:06,000\nthird\n",
			want:  2,
			texts: []string{"first", "third"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cues := ParseSRT(tt.doc)
			if len(cues) != tt.want {
				t.Fatalf("expected %d cues, got %d", tt.want, len(cues))
			}
			for i, text := range tt.texts {
				if cues[i].Text != text {
					t.Errorf("cue %d: got %q, want %q", i, cues[i].Text, text)
				}
			}
		})
	}
}

func TestParseSRTLineEndingsAndWhitespace(t *testing.T) {
	doc := "\ufeff1\r\n00:00:01,000 --> 00:00:02,000\r\nLine one\r\nLine two\r\n" +
		" \r\n\t\r\n" +
		"2\r\n00:00:03,000-->00:00:04,250  X1:100 X2:200\r\nNo trailing blank line"

	cues := ParseSRT(doc)
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Text != "Line one\nLine two" {
		t.Errorf("cue 0 text: got %q", cues[0].Text)
	}
	if cues[1].EndTime != 4250*time.Millisecond {
		t.Errorf("cue 1 end: got %v, want 4.25s", cues[1].EndTime)
	}
	if cues[1].Text != "No trailing blank line" {
		t.Errorf("cue 1 text: got %q", cues[1].Text)
	}
}

func TestParseSRTToleratesOddIndexes(t *testing.T) {
	doc := "seven\n00:00:01,000 --> 00:00:02,000\nA\n\n" +
		"3\n00:00:03,000 --> 00:00:04,000\nB\n\n" +
		"3\n00:00:05,000 --> 00:00:06,000\nC\n"

	cues := ParseSRT(doc)
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(cues))
	}
	if cues[0].Index != 0 {
		t.Errorf("non-numeric index should be stored as 0, got %d", cues[0].Index)
	}
	if cues[1].Index != 3 || cues[2].Index != 3 {
		t.Errorf("duplicate indexes should be kept, got %d and %d", cues[1].Index, cues[2].Index)
	}
}

func TestParseSRTKeepsMarkup(t *testing.T) {
	cues := ParseSRT("1\n00:00:01,000 --> 00:00:02,000\n<i>Hi</i> <font color=\"red\">there</font>\n")
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	want := "<i>Hi</i> <font color=\"red\">there</font>"
	if cues[0].Text != want {
		t.Errorf("got %q, want %q", cues[0].Text, want)
	}
}

func TestParseSRTTimingPrecision(t *testing.T) {
	tests := []struct {
		line  string
		start float64
		end   float64
	}{
		{"00:00:00,000 --> 00:00:00,001", 0, 0.001},
		{"01:02:03,456 --> 01:02:04,999", 3723.456, 3724.999},
		{"99:59:59,999 --> 99:59:59,999", 359999.999, 359999.999},
		{"00:00:10,000 --> 00:00:05,000", 10, 5},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cues := ParseSRT("1\n" + tt.line + "\ntext")
			if len(cues) != 1 {
				t.Fatalf("expected 1 cue, got %d", len(cues))
			}
			if math.Abs(cues[0].StartSeconds()-tt.start) > 0.001 {
				t.Errorf("start: got %v, want %v", cues[0].StartSeconds(), tt.start)
			}
			if math.Abs(cues[0].EndSeconds()-tt.end) > 0.001 {
				t.Errorf("end: got %v, want %v", cues[0].EndSeconds(), tt.end)
			}
		})
	}
}

func TestCueContains(t *testing.T) {
	cue := Cue{StartTime: 2 * time.Second, EndTime: 4 * time.Second}
	tests := []struct {
		at   time.Duration
		want bool
	}{
		{1999 * time.Millisecond, false},
		{2 * time.Second, true},
		{3 * time.Second, true},
		{4 * time.Second, true},
		{4001 * time.Millisecond, false},
	}
	for _, tt := range tests {
		if got := cue.Contains(tt.at); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}

	backwards := Cue{StartTime: 4 * time.Second, EndTime: 2 * time.Second}
	if backwards.Contains(3 * time.Second) {
		t.Error("a cue ending before it starts must never be active")
	}
}

func TestSeconds(t *testing.T) {
	if got := Seconds(1.001); got != 1001*time.Millisecond {
		t.Errorf("Seconds(1.001) = %v", got)
	}
	if got := Seconds(math.NaN()); got != 0 {
		t.Errorf("Seconds(NaN) = %v, want 0", got)
	}
}

func TestAnalyze(t *testing.T) {
	doc := "1\n00:00:01,000 --> 00:00:03,000\nA\n\n" +
		"2\n00:00:02,000 --> 00:00:04,000\nB\n\n" +
		"3\n00:00:09,000 --> 00:00:08,000\nC\n\n" +
		"4\nbroken\nD\n"

	cues, skipped := parseSRT(doc)
	stats := Analyze(cues, skipped)

	if stats.Cues != 3 {
		t.Errorf("cues: got %d, want 3", stats.Cues)
	}
	if stats.Skipped != 1 {
		t.Errorf("skipped: got %d, want 1", stats.Skipped)
	}
	if stats.Malformed != 1 {
		t.Errorf("malformed: got %d, want 1", stats.Malformed)
	}
	if stats.Overlaps != 1 {
		t.Errorf("overlaps: got %d, want 1", stats.Overlaps)
	}
	if stats.Span != 4*time.Second {
		t.Errorf("span: got %v, want 4s", stats.Span)
	}
}
