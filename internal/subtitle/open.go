package subtitle

import (
	"fmt"
	"path/filepath"
	"strings"
)

// parsed subtitle file
type File interface {
	Format() Format
	Track() *Track
	Skipped() int
	SetText(index int, text string) error
	Write(path string) error
}

// Open parses a subtitle file, picking the format from its extension.
// encoding may be empty to sniff the text encoding.
func Open(path, encoding string) (File, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		return parseSRTFile(path, encoding)
	case ".vtt":
		return parseVTTFile(path, encoding)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// Parse parses an in-memory document. WebVTT is recognised by its
// header; everything else is treated as SubRip.
func Parse(document string) []Cue {
	if IsVTT(document) {
		return ParseVTT(document)
	}
	return ParseSRT(document)
}

func IsVTT(document string) bool {
	head := strings.TrimLeft(strings.TrimPrefix(document, "\ufeff"), " \t\r\n")
	return strings.HasPrefix(head, "WEBVTT")
}
