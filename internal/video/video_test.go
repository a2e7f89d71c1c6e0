package video

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mgpai22/subtrack/internal/subtitle"
)

const probeJSON = `{
  "streams": [
    {"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "avg_frame_rate": "24000/1001"},
    {"codec_type": "audio", "codec_name": "aac"},
    {"codec_type": "subtitle", "codec_name": "subrip", "tags": {"language": "eng"}},
    {"codec_type": "subtitle", "codec_name": "ass", "tags": {"language": "jpn", "title": "Signs"}}
  ],
  "format": {"duration": "1324.512000"}
}`

func TestParseProbe(t *testing.T) {
	info, err := parseProbe([]byte(probeJSON))
	if err != nil {
		t.Fatalf("parseProbe: %v", err)
	}

	if info.Duration != 1324512*time.Millisecond {
		t.Errorf("duration = %v", info.Duration)
	}
	if info.Codec != "h264" || info.Width != 1920 || info.Height != 1080 {
		t.Errorf("video stream = %+v", info)
	}
	if info.FrameRate < 23.97 || info.FrameRate > 23.98 {
		t.Errorf("frame rate = %v", info.FrameRate)
	}
	if !info.HasAudio {
		t.Error("expected audio")
	}
	if len(info.Subtitles) != 2 {
		t.Fatalf("subtitle streams = %d", len(info.Subtitles))
	}

	s, err := info.SubtitleStream(1)
	if err != nil {
		t.Fatal(err)
	}
	if s.Index != 1 || s.Language != "jpn" || s.Title != "Signs" {
		t.Errorf("stream 1 = %+v", s)
	}
	if _, err := info.SubtitleStream(2); !errors.Is(err, ErrNoSubtitleStream) {
		t.Errorf("out of range stream: %v", err)
	}
}

func TestParseProbeErrors(t *testing.T) {
	if _, err := parseProbe([]byte("{")); err == nil {
		t.Error("expected JSON error")
	}
	if _, err := parseProbe([]byte(`{"format":{"duration":"soon"}}`)); err == nil {
		t.Error("expected duration error")
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := map[string]float64{
		"25/1": 25,
		"30":   30,
		"0/0":  0,
		"":     0,
		"x/1":  0,
	}
	for in, want := range tests {
		if got := parseFrameRate(in); got != want {
			t.Errorf("parseFrameRate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestExtractStreamArgs(t *testing.T) {
	tests := []struct {
		out   string
		opts  ExtractSubtitlesOptions
		codec string
		m     string
	}{
		{"out.srt", ExtractSubtitlesOptions{}, "srt", "0:s:0"},
		{"out.vtt", ExtractSubtitlesOptions{Stream: 2}, "webvtt", "0:s:2"},
		{"out.txt", ExtractSubtitlesOptions{Format: subtitle.FormatVTT}, "webvtt", "0:s:0"},
	}

	for _, tt := range tests {
		t.Run(tt.out, func(t *testing.T) {
			args := strings.Join(extractStream("in.mkv", tt.out, tt.opts).GetArgs(), " ")
			for _, want := range []string{"-i in.mkv", "-map " + tt.m, "-c:s " + tt.codec, tt.out, "-y"} {
				if !strings.Contains(args, want) {
					t.Errorf("args %q missing %q", args, want)
				}
			}
		})
	}
}

func TestExtractSubtitlesValidation(t *testing.T) {
	p := NewProcessor()
	dir := t.TempDir()

	err := p.ExtractSubtitles(context.Background(), filepath.Join(dir, "missing.mkv"), filepath.Join(dir, "out.srt"), ExtractSubtitlesOptions{})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("missing video: %v", err)
	}

	if _, err := p.GetInfo(context.Background(), filepath.Join(dir, "missing.mkv")); err == nil {
		t.Error("GetInfo on a missing file should fail")
	}
}

func TestIsVideoFile(t *testing.T) {
	for path, want := range map[string]bool{
		"movie.MKV": true,
		"clip.mp4":  true,
		"track.srt": false,
		"noext":     false,
		"song.mp3":  false,
	} {
		if got := IsVideoFile(path); got != want {
			t.Errorf("IsVideoFile(%q) = %v", path, got)
		}
	}
}
