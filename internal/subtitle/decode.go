package subtitle

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var ErrUnknownEncoding = errors.New("unknown text encoding")

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode turns raw subtitle bytes into UTF-8 text.
//
// With an empty name (or "auto") the encoding is sniffed: a UTF-16 or
// UTF-8 byte order mark wins, valid UTF-8 is passed through, and anything
// else is read as Windows-1252, the usual encoding of legacy SRT files.
// Any other name is resolved through the WHATWG encoding index
// (e.g. "shift_jis", "iso-8859-2", "gbk").
func Decode(data []byte, name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name != "" && name != "auto" {
		enc, err := htmlindex.Get(name)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrUnknownEncoding, name)
		}
		return decodeWith(enc, data)
	}

	switch {
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data)
	}

	data = bytes.TrimPrefix(data, bomUTF8)
	if utf8.Valid(data) {
		return string(data), nil
	}
	return decodeWith(charmap.Windows1252, data)
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return strings.TrimPrefix(string(out), "\ufeff"), nil
}
