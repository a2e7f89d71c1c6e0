package player

import (
	"sync"
	"time"
)

// PlaybackClock simulates a media element's clock for hosts that have
// no real player: the terminal player and tests.
type PlaybackClock struct {
	mu       sync.Mutex
	now      func() time.Time
	base     time.Duration // position at anchor
	anchor   time.Time
	playing  bool
	rate     float64
	duration time.Duration // 0 when unknown
}

// now may be nil to use time.Now
func NewPlaybackClock(now func() time.Time) *PlaybackClock {
	if now == nil {
		now = time.Now
	}
	return &PlaybackClock{now: now, rate: 1}
}

func (c *PlaybackClock) position() time.Duration {
	pos := c.base
	if c.playing {
		elapsed := c.now().Sub(c.anchor)
		pos += time.Duration(float64(elapsed) * c.rate)
	}
	if c.duration > 0 && pos > c.duration {
		pos = c.duration
	}
	if pos < 0 {
		pos = 0
	}
	return pos
}

func (c *PlaybackClock) CurrentTime() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position()
}

// paused, or played through to a known duration
func (c *PlaybackClock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.playing || c.ended()
}

func (c *PlaybackClock) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ended()
}

func (c *PlaybackClock) ended() bool {
	return c.duration > 0 && c.position() >= c.duration
}

func (c *PlaybackClock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		return
	}
	c.anchor = c.now()
	c.playing = true
}

func (c *PlaybackClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing {
		return
	}
	c.base = c.position()
	c.playing = false
}

// Seek jumps to pos; negative positions clamp to 0.
func (c *PlaybackClock) Seek(pos time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pos < 0 {
		pos = 0
	}
	c.base = pos
	c.anchor = c.now()
}

// Reset rewinds to 0 and pauses, as on a media change.
func (c *PlaybackClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = 0
	c.playing = false
}

func (c *PlaybackClock) SetRate(rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rate <= 0 {
		rate = 1
	}
	c.base = c.position()
	c.anchor = c.now()
	c.rate = rate
}

func (c *PlaybackClock) SetDuration(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.duration = d
}

func (c *PlaybackClock) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}
