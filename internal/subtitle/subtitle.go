package subtitle

import (
	"errors"
	"math"
	"time"
)

// single timed subtitle entry
type Cue struct {
	Index     int // declared index, neither unique nor monotonic
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// reports whether the cue has a usable time range
func (c Cue) Valid() bool {
	return c.StartTime >= 0 && c.EndTime >= c.StartTime
}

// Contains reports whether t falls inside [StartTime, EndTime].
// A cue whose range is malformed never contains any time.
func (c Cue) Contains(t time.Duration) bool {
	if !c.Valid() {
		return false
	}
	return t >= c.StartTime && t <= c.EndTime
}

func (c Cue) StartSeconds() float64 {
	return c.StartTime.Seconds()
}

func (c Cue) EndSeconds() float64 {
	return c.EndTime.Seconds()
}

// represents one loaded subtitle track
type Track struct {
	Cues     []Cue
	Language string
	Format   Format
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

var ErrUnsupportedFormat = errors.New("unsupported subtitle format")

// interface for writing tracks to files
type Writer interface {
	Write(track *Track, path string) error
}

// converts fractional seconds (as reported by a media element) to a duration
func Seconds(s float64) time.Duration {
	if math.IsNaN(s) {
		return 0
	}
	return time.Duration(math.Round(s * float64(time.Second)))
}
