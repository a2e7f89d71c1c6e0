package clipboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

var ErrEmpty = errors.New("clipboard is empty")

// reader is swapped out in tests
var readAll = clipboard.ReadAll

// Supported reports whether a clipboard utility is available.
func Supported() bool {
	return !clipboard.Unsupported
}

// ReadAll returns the text on the clipboard.
func ReadAll() (string, error) {
	text, err := readAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

// ReadSubtitles returns clipboard text for loading as a subtitle
// document. Whitespace-only content is reported as ErrEmpty.
func ReadSubtitles() (string, error) {
	text, err := ReadAll()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// WriteAll puts text on the clipboard.
func WriteAll(text string) error {
	if text == "" {
		return ErrEmpty
	}
	return clipboard.WriteAll(text)
}
