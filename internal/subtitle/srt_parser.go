package subtitle

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var srtTimingRegex = regexp.MustCompile(
	`^\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})`,
)

type SRTFile struct {
	cues    []Cue
	skipped int
}

// ParseSRT converts a SubRip document into cues. It never fails: blocks
// that do not carry a valid timing line are skipped, and text lines are
// joined with "\n". Markup in cue text is kept as-is.
func ParseSRT(document string) []Cue {
	cues, _ := parseSRT(document)
	return cues
}

func parseSRT(document string) ([]Cue, int) {
	cues := make([]Cue, 0)
	skipped := 0

	for _, block := range splitBlocks(document) {
		cue, ok := parseSRTBlock(block)
		if !ok {
			skipped++
			continue
		}
		cues = append(cues, cue)
	}

	return cues, skipped
}

// splits a document into blocks of non-blank lines
func splitBlocks(document string) [][]string {
	document = strings.TrimPrefix(document, "\ufeff")
	document = strings.ReplaceAll(document, "\r\n", "\n")
	document = strings.ReplaceAll(document, "\r", "\n")

	var blocks [][]string
	var current []string
	for _, line := range strings.Split(document, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, strings.TrimRight(line, " \t"))
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}

	return blocks
}

func parseSRTBlock(lines []string) (Cue, bool) {
	if len(lines) < 3 {
		return Cue{}, false
	}

	// some files omit or mangle the index; the block is still usable
	index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		index = 0
	}

	start, end, ok := parseSRTTiming(lines[1])
	if !ok {
		return Cue{}, false
	}

	return Cue{
		Index:     index,
		StartTime: start,
		EndTime:   end,
		Text:      strings.Join(lines[2:], "\n"),
	}, true
}

func parseSRTTiming(line string) (time.Duration, time.Duration, bool) {
	matches := srtTimingRegex.FindStringSubmatch(line)
	if len(matches) != 9 {
		return 0, 0, false
	}

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

func parseTimestamp(
	hours, minutes, seconds, millis string,
) (time.Duration, error) {
	h, err := strconv.Atoi(hours)
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, err
	}
	s, err := strconv.Atoi(seconds)
	if err != nil {
		return 0, err
	}
	ms, err := strconv.Atoi(millis)
	if err != nil {
		return 0, err
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}

func parseSRTFile(path, encoding string) (*SRTFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SRT file: %w", err)
	}

	text, err := Decode(data, encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to decode SRT file: %w", err)
	}

	cues, skipped := parseSRT(text)
	return &SRTFile{cues: cues, skipped: skipped}, nil
}

func (f *SRTFile) Format() Format {
	return FormatSRT
}

func (f *SRTFile) Track() *Track {
	return &Track{
		Cues:   f.cues,
		Format: FormatSRT,
	}
}

func (f *SRTFile) Skipped() int {
	return f.skipped
}

func (f *SRTFile) SetText(index int, text string) error {
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

func (f *SRTFile) Write(path string) error {
	writer, err := NewWriter(FormatSRT)
	if err != nil {
		return err
	}
	return writer.Write(f.Track(), path)
}
