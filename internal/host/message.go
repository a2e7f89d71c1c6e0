package host

import (
	"errors"

	"github.com/mgpai22/subtrack/internal/player"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownAction   = errors.New("unknown action")
	ErrSessionClosed   = errors.New("session closed")
)

type Action string

const (
	ActionLoadSubtitles   Action = "loadSubtitles"
	ActionUpdateSettings  Action = "updateSettings"
	ActionToggleSubtitles Action = "toggleSubtitles"
)

// Message is a request crossing the boundary between a control surface
// (popup, HTTP client, terminal) and a session.
type Message struct {
	Action     Action                `json:"action"`
	SRTContent string                `json:"srtContent,omitempty"`
	Settings   *player.SettingsPatch `json:"settings,omitempty"`
}

type Response struct {
	Success  bool             `json:"success"`
	Error    string           `json:"error,omitempty"`
	Cues     *int             `json:"cues,omitempty"`
	Loaded   *bool            `json:"loaded,omitempty"`
	Enabled  *bool            `json:"enabled,omitempty"`
	Settings *player.Settings `json:"settings,omitempty"`
}

func failure(err error) Response {
	return Response{Success: false, Error: err.Error()}
}
