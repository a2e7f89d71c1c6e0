package host

import (
	"strings"

	"github.com/mgpai22/subtrack/internal/player"
)

// Increments used by keyboard-style controls. Clamping happens here,
// before a patch reaches the synchronizer.
const (
	MinFontSize = 8
	FontStep    = 1
	OpacityStep = 5
)

type Key string

const (
	KeyFontUp      Key = "up"
	KeyFontDown    Key = "down"
	KeyOpacityDown Key = "left"
	KeyOpacityUp   Key = "right"
	KeyTop         Key = "w"
	KeyMiddle      Key = "m"
	KeyBottom      Key = "s"
	KeyToggle      Key = "t"
)

func NudgeFontSize(current player.Settings, delta int) player.SettingsPatch {
	size := current.FontSize + delta
	if size < MinFontSize {
		size = MinFontSize
	}
	return player.SettingsPatch{FontSize: &size}
}

func NudgeOpacity(current player.Settings, delta int) player.SettingsPatch {
	opacity := clamp(current.Opacity+delta, 0, 100)
	return player.SettingsPatch{Opacity: &opacity}
}

func PositionPatch(p player.Position) player.SettingsPatch {
	return player.SettingsPatch{Position: &p}
}

// MessageForKey maps a control key to the message it sends. Keys are
// case-insensitive; ok is false for keys with no binding.
func MessageForKey(key Key, current player.Settings) (Message, bool) {
	var patch player.SettingsPatch

	switch Key(strings.ToLower(string(key))) {
	case KeyFontUp:
		patch = NudgeFontSize(current, FontStep)
	case KeyFontDown:
		patch = NudgeFontSize(current, -FontStep)
	case KeyOpacityUp:
		patch = NudgeOpacity(current, OpacityStep)
	case KeyOpacityDown:
		patch = NudgeOpacity(current, -OpacityStep)
	case KeyTop:
		patch = PositionPatch(player.PositionTop)
	case KeyMiddle:
		patch = PositionPatch(player.PositionMiddle)
	case KeyBottom:
		patch = PositionPatch(player.PositionBottom)
	case KeyToggle:
		return Message{Action: ActionToggleSubtitles}, true
	default:
		return Message{}, false
	}

	return Message{Action: ActionUpdateSettings, Settings: &patch}, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
