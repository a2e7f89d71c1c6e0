package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mgpai22/subtrack/internal/player"
	"github.com/mgpai22/subtrack/internal/sanitize"
)

// terminalDisplay prints cue transitions as plain text lines.
type terminalDisplay struct {
	out    io.Writer
	policy *sanitize.Policy
	now    func() time.Duration // playback position for the line prefix
}

func newTerminalDisplay(out io.Writer, policy *sanitize.Policy, now func() time.Duration) *terminalDisplay {
	return &terminalDisplay{out: out, policy: policy, now: now}
}

func (d *terminalDisplay) Show(markup string, s player.Settings) {
	text := d.policy.PlainText(strings.ReplaceAll(markup, "<br>", "\n"))
	lines := strings.Split(text, "\n")

	fmt.Fprintf(d.out, "%s %s %s\n", d.stamp(), positionMarker(s.Position), lines[0])
	for _, line := range lines[1:] {
		fmt.Fprintf(d.out, "%s   %s\n", strings.Repeat(" ", len(d.stamp())), line)
	}
}

func (d *terminalDisplay) Hide() {
	fmt.Fprintf(d.out, "%s   --\n", d.stamp())
}

func (d *terminalDisplay) Restyle(s player.Settings) {
	fmt.Fprintf(d.out, "%s   [font %d, %s, opacity %d%%, %s]\n",
		d.stamp(), s.FontSize, s.Position, s.Opacity, s.TextColor)
}

func (d *terminalDisplay) stamp() string {
	var t time.Duration
	if d.now != nil {
		t = d.now()
	}
	return formatClock(t)
}

func positionMarker(p player.Position) string {
	switch p {
	case player.PositionTop:
		return "^"
	case player.PositionMiddle:
		return "="
	default:
		return "_"
	}
}

// formats t as HH:MM:SS.mmm
func formatClock(t time.Duration) string {
	if t < 0 {
		t = 0
	}
	ms := t.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d",
		ms/3600000, (ms/60000)%60, (ms/1000)%60, ms%1000)
}
