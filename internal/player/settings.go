package player

import (
	"fmt"
	"strings"
)

type Position string

const (
	PositionTop    Position = "top"
	PositionMiddle Position = "middle"
	PositionBottom Position = "bottom"
)

func ParsePosition(s string) (Position, error) {
	switch p := Position(strings.ToLower(strings.TrimSpace(s))); p {
	case PositionTop, PositionMiddle, PositionBottom:
		return p, nil
	default:
		return "", fmt.Errorf("invalid position %q: use top, middle, or bottom", s)
	}
}

// Settings is the display snapshot handed to a Display with every
// render decision. The synchronizer never validates it.
type Settings struct {
	FontSize  int      `json:"fontSize" yaml:"font_size"`
	Position  Position `json:"position" yaml:"position"`
	Opacity   int      `json:"opacity" yaml:"opacity"` // percent, 0..100
	TextColor string   `json:"textColor" yaml:"text_color"`
}

func DefaultSettings() Settings {
	return Settings{
		FontSize:  18,
		Position:  PositionBottom,
		Opacity:   80,
		TextColor: "#ffffff",
	}
}

// partial settings update; nil fields keep the current value
type SettingsPatch struct {
	FontSize  *int      `json:"fontSize,omitempty"`
	Position  *Position `json:"position,omitempty"`
	Opacity   *int      `json:"opacity,omitempty"`
	TextColor *string   `json:"textColor,omitempty"`
}

// returns a copy of s with the patch applied
func (s Settings) Merge(p SettingsPatch) Settings {
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.Position != nil {
		s.Position = *p.Position
	}
	if p.Opacity != nil {
		s.Opacity = *p.Opacity
	}
	if p.TextColor != nil {
		s.TextColor = *p.TextColor
	}
	return s
}

func (p SettingsPatch) Empty() bool {
	return p.FontSize == nil && p.Position == nil && p.Opacity == nil && p.TextColor == nil
}
