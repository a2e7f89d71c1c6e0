package host

import (
	"github.com/mgpai22/subtrack/internal/player"
)

// Frame is the last thing a session asked its display to render.
type Frame struct {
	Visible  bool            `json:"visible"`
	Markup   string          `json:"markup"`
	Settings player.Settings `json:"settings"`
	Revision uint64          `json:"revision"` // bumped on every display call
}

// FrameDisplay records frames so they can be polled, and forwards every
// call to an optional downstream display.
type FrameDisplay struct {
	frame Frame
	next  player.Display
}

func NewFrameDisplay(next player.Display, settings player.Settings) *FrameDisplay {
	return &FrameDisplay{
		frame: Frame{Settings: settings},
		next:  next,
	}
}

func (d *FrameDisplay) Show(markup string, s player.Settings) {
	d.frame.Visible = true
	d.frame.Markup = markup
	d.frame.Settings = s
	d.frame.Revision++
	if d.next != nil {
		d.next.Show(markup, s)
	}
}

func (d *FrameDisplay) Hide() {
	d.frame.Visible = false
	d.frame.Markup = ""
	d.frame.Revision++
	if d.next != nil {
		d.next.Hide()
	}
}

func (d *FrameDisplay) Restyle(s player.Settings) {
	d.frame.Settings = s
	d.frame.Revision++
	if d.next != nil {
		d.next.Restyle(s)
	}
}

func (d *FrameDisplay) Frame() Frame {
	return d.frame
}
