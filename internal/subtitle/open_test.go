package subtitle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenSRTFile(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:04,000
Hello, world!

2
00:00:05,500 --> 00:00:08,200
This is a test.
With multiple lines.

x
broken timing
dropped

3
00:00:10,000 --> 00:00:12,500
Final subtitle.
`
	tmpDir := t.TempDir()
	srtPath := filepath.Join(tmpDir, "test.srt")
	if err := os.WriteFile(srtPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	file, err := Open(srtPath, "")
	if err != nil {
		t.Fatalf("failed to open SRT file: %v", err)
	}

	if file.Format() != FormatSRT {
		t.Errorf("expected format SRT, got %s", file.Format())
	}
	if file.Skipped() != 1 {
		t.Errorf("expected 1 skipped block, got %d", file.Skipped())
	}

	track := file.Track()
	if len(track.Cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(track.Cues))
	}

	if track.Cues[1].StartTime != 5500*time.Millisecond {
		t.Errorf("cue 1: expected start 5.5s, got %v", track.Cues[1].StartTime)
	}

	expectedText := "This is a test.\nWith multiple lines."
	if track.Cues[1].Text != expectedText {
		t.Errorf("cue 1: expected %q, got %q", expectedText, track.Cues[1].Text)
	}

	if err := file.SetText(0, "Modified text"); err != nil {
		t.Errorf("SetText failed: %v", err)
	}
	if file.Track().Cues[0].Text != "Modified text" {
		t.Errorf("SetText did not update text")
	}
	if err := file.SetText(3, "out of range"); err == nil {
		t.Error("expected error for out of range index")
	}
}

func TestOpenVTTFile(t *testing.T) {
	content := `WEBVTT - sample

NOTE this block is a comment

1
00:00:01.000 --> 00:00:04.000 align:start
Hello, world!

STYLE
::cue { color: red }

00:05.500 --> 00:08.200
Short timestamps.

00:00:10.000 --> 00:00:12.500
No cue identifier.
`
	tmpDir := t.TempDir()
	vttPath := filepath.Join(tmpDir, "test.vtt")
	if err := os.WriteFile(vttPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	file, err := Open(vttPath, "")
	if err != nil {
		t.Fatalf("failed to open VTT file: %v", err)
	}

	if file.Format() != FormatVTT {
		t.Errorf("expected format VTT, got %s", file.Format())
	}

	track := file.Track()
	if len(track.Cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(track.Cues))
	}
	if track.Cues[0].Text != "Hello, world!" {
		t.Errorf("cue 0: expected 'Hello, world!', got %q", track.Cues[0].Text)
	}
	if track.Cues[1].StartTime != 5500*time.Millisecond {
		t.Errorf("cue 1: expected start 5.5s, got %v", track.Cues[1].StartTime)
	}
	if track.Cues[2].Text != "No cue identifier." {
		t.Errorf("cue 2: expected 'No cue identifier.', got %q", track.Cues[2].Text)
	}
}

func TestOpenUnsupportedFormat(t *testing.T) {
	tmpDir := t.TempDir()
	txtPath := filepath.Join(tmpDir, "test.txt")
	if err := os.WriteFile(txtPath, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := Open(txtPath, "")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got: %v", err)
	}
}

func TestParseDetectsVTT(t *testing.T) {
	cues := Parse("WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nvtt cue\n")
	if len(cues) != 1 || cues[0].Text != "vtt cue" {
		t.Fatalf("expected one VTT cue, got %+v", cues)
	}

	cues = Parse("1\n00:00:01,000 --> 00:00:02,000\nsrt cue\n")
	if len(cues) != 1 || cues[0].Text != "srt cue" {
		t.Fatalf("expected one SRT cue, got %+v", cues)
	}
}

func TestWriteThenOpen(t *testing.T) {
	track := &Track{Cues: []Cue{
		{Index: 9, StartTime: 1500 * time.Millisecond, EndTime: 3 * time.Second, Text: "one"},
		{Index: 9, StartTime: time.Hour + 2*time.Millisecond, EndTime: time.Hour + time.Second, Text: "two\nlines"},
	}}

	for _, format := range []Format{FormatSRT, FormatVTT} {
		t.Run(string(format), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out"+GetExtensionForFormat(format))
			writer, err := NewWriter(format)
			if err != nil {
				t.Fatalf("NewWriter: %v", err)
			}
			if err := writer.Write(track, path); err != nil {
				t.Fatalf("Write: %v", err)
			}

			file, err := Open(path, "")
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			got := file.Track().Cues
			if len(got) != 2 {
				t.Fatalf("expected 2 cues, got %d", len(got))
			}
			if got[1].StartTime != track.Cues[1].StartTime || got[1].Text != "two\nlines" {
				t.Errorf("cue 1 mismatch: %+v", got[1])
			}
			if got[0].Index != 1 {
				t.Errorf("writer should renumber from 1, got %d", got[0].Index)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		encoding string
		want     string
	}{
		{
			name: "plain utf-8",
			data: []byte("caf\xc3\xa9"),
			want: "café",
		},
		{
			name: "utf-8 with bom",
			data: []byte("\xef\xbb\xbfhi"),
			want: "hi",
		},
		{
			name: "utf-16le with bom",
			data: []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00},
			want: "hi",
		},
		{
			name: "utf-16be with bom",
			data: []byte{0xFE, 0xFF, 0x00, 'h', 0x00, 'i'},
			want: "hi",
		},
		{
			name: "invalid utf-8 falls back to windows-1252",
			data: []byte("caf\xe9 \x93quoted\x94"),
			want: "café “quoted”",
		},
		{
			name:     "named encoding",
			data:     []byte{0x82, 0xa0},
			encoding: "shift_jis",
			want:     "あ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.data, tt.encoding)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeUnknownEncoding(t *testing.T) {
	_, err := Decode([]byte("x"), "klingon-8")
	if !errors.Is(err, ErrUnknownEncoding) {
		t.Errorf("expected ErrUnknownEncoding, got %v", err)
	}
}
