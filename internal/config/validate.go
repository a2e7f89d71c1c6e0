package config

import (
	"fmt"
	"time"

	"github.com/mgpai22/subtrack/internal/player"
)

const minPollInterval = 10 * time.Millisecond

// Validate checks the config. Warnings are non-fatal and describe
// values that were adjusted; err is returned for values that cannot be
// used at all.
func (c *Config) Validate() (warnings []string, err error) {
	if c == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if _, perr := player.ParsePosition(string(c.Display.Position)); perr != nil {
		return warnings, fmt.Errorf("display.position: %w", perr)
	}

	if c.Display.FontSize < 8 {
		warnings = append(warnings, fmt.Sprintf("display.font_size %d is below 8, using 8", c.Display.FontSize))
		c.Display.FontSize = 8
	}

	if c.Display.Opacity < 0 || c.Display.Opacity > 100 {
		clamped := c.Display.Opacity
		if clamped < 0 {
			clamped = 0
		} else {
			clamped = 100
		}
		warnings = append(warnings, fmt.Sprintf("display.opacity %d is outside 0..100, using %d", c.Display.Opacity, clamped))
		c.Display.Opacity = clamped
	}

	if c.Display.TextColor == "" {
		warnings = append(warnings, "display.text_color is empty, using #ffffff")
		c.Display.TextColor = player.DefaultSettings().TextColor
	}

	switch {
	case c.Playback.PollInterval <= 0:
		warnings = append(warnings, fmt.Sprintf("playback.poll_interval not set, using %s", player.DefaultPollInterval))
		c.Playback.PollInterval = player.DefaultPollInterval
	case c.Playback.PollInterval < minPollInterval:
		warnings = append(warnings, fmt.Sprintf("playback.poll_interval %s is too short, using %s", c.Playback.PollInterval, minPollInterval))
		c.Playback.PollInterval = minPollInterval
	}

	if len(c.Sanitize.AllowedTags) == 0 && len(c.Sanitize.AttributeTags) == 0 {
		warnings = append(warnings, "sanitize allows no tags, cues will render as plain text")
	}

	if c.Server.Addr == "" {
		return warnings, fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.MaxBodyBytes <= 0 {
		warnings = append(warnings, "server.max_body_bytes not set, using 4MiB")
		c.Server.MaxBodyBytes = 4 << 20
	}

	return warnings, nil
}
