package subtitle

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

var (
	vttTimingRegex = regexp.MustCompile(
		`^\s*(\d{2,}):(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d{2,}):(\d{2}):(\d{2})\.(\d{3})`,
	)
	vttShortTimingRegex = regexp.MustCompile(
		`^\s*(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d{2}):(\d{2})\.(\d{3})`,
	)
)

type VTTFile struct {
	cues    []Cue
	skipped int
}

// ParseVTT converts a WebVTT document into cues with the same
// partial-success rules as ParseSRT. NOTE, STYLE and REGION blocks are
// ignored and cue identifiers are optional.
func ParseVTT(document string) []Cue {
	cues, _ := parseVTT(document)
	return cues
}

func parseVTT(document string) ([]Cue, int) {
	cues := make([]Cue, 0)
	skipped := 0
	entryIndex := 0

	for i, block := range splitBlocks(document) {
		head := strings.TrimSpace(block[0])
		if i == 0 && strings.HasPrefix(head, "WEBVTT") {
			continue
		}
		if strings.HasPrefix(head, "NOTE") ||
			strings.HasPrefix(head, "STYLE") ||
			strings.HasPrefix(head, "REGION") {
			continue
		}

		cue, ok := parseVTTBlock(block)
		if !ok {
			skipped++
			continue
		}
		entryIndex++
		cue.Index = entryIndex
		cues = append(cues, cue)
	}

	return cues, skipped
}

func parseVTTBlock(lines []string) (Cue, bool) {
	// optional cue identifier
	timingAt := 0
	if _, _, ok := parseVTTTiming(lines[0]); !ok {
		timingAt = 1
	}
	if len(lines) < timingAt+2 {
		return Cue{}, false
	}

	start, end, ok := parseVTTTiming(lines[timingAt])
	if !ok {
		return Cue{}, false
	}

	return Cue{
		StartTime: start,
		EndTime:   end,
		Text:      strings.Join(lines[timingAt+1:], "\n"),
	}, true
}

func parseVTTTiming(line string) (time.Duration, time.Duration, bool) {
	if matches := vttTimingRegex.FindStringSubmatch(line); len(matches) == 9 {
		start, err := parseTimestamp(matches[1], matches[2], matches[3], matches[4])
		if err != nil {
			return 0, 0, false
		}
		end, err := parseTimestamp(matches[5], matches[6], matches[7], matches[8])
		if err != nil {
			return 0, 0, false
		}
		return start, end, true
	}

	if matches := vttShortTimingRegex.FindStringSubmatch(line); len(matches) == 7 {
		start, err := parseTimestamp("00", matches[1], matches[2], matches[3])
		if err != nil {
			return 0, 0, false
		}
		end, err := parseTimestamp("00", matches[4], matches[5], matches[6])
		if err != nil {
			return 0, 0, false
		}
		return start, end, true
	}

	return 0, 0, false
}

func parseVTTFile(path, encoding string) (*VTTFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open VTT file: %w", err)
	}

	text, err := Decode(data, encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to decode VTT file: %w", err)
	}

	cues, skipped := parseVTT(text)
	return &VTTFile{cues: cues, skipped: skipped}, nil
}

func (f *VTTFile) Format() Format {
	return FormatVTT
}

func (f *VTTFile) Track() *Track {
	return &Track{
		Cues:   f.cues,
		Format: FormatVTT,
	}
}

func (f *VTTFile) Skipped() int {
	return f.skipped
}

func (f *VTTFile) SetText(index int, text string) error {
	if index < 0 || index >= len(f.cues) {
		return fmt.Errorf(
			"index %d out of range (0-%d)",
			index,
			len(f.cues)-1,
		)
	}
	f.cues[index].Text = text
	return nil
}

func (f *VTTFile) Write(path string) error {
	writer, err := NewWriter(FormatVTT)
	if err != nil {
		return err
	}
	return writer.Write(f.Track(), path)
}
