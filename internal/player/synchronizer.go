package player

import (
	"time"

	"github.com/mgpai22/subtrack/internal/logging"
	"github.com/mgpai22/subtrack/internal/sanitize"
	"github.com/mgpai22/subtrack/internal/subtitle"
)

// Display is the render surface driven by a Synchronizer.
type Display interface {
	// Show replaces whatever is on screen with sanitised markup.
	Show(markup string, settings Settings)
	Hide()
	// Restyle applies new settings without changing the content.
	Restyle(settings Settings)
}

type Options struct {
	Policy   *sanitize.Policy // nil uses sanitize.DefaultPolicy
	Settings *Settings        // nil uses DefaultSettings
	Disabled bool
	Logger   *logging.Logger
}

// Synchronizer matches playback time samples against a loaded cue
// sequence and drives a Display on every change of the active cue.
// It is not safe for concurrent use; callers serialise access.
type Synchronizer struct {
	display  Display
	policy   *sanitize.Policy
	logger   *logging.Logger
	settings Settings
	enabled  bool

	cues    []subtitle.Cue
	current int    // cue on display, -1 when nothing is shown
	markup  string // rendered text of the current cue
	matched int    // last match, tracked while disabled too
	last    time.Duration
}

type State struct {
	Loaded     bool          `json:"loaded"`
	Cues       int           `json:"cues"`
	Enabled    bool          `json:"enabled"`
	Visible    bool          `json:"visible"`
	Current    int           `json:"current"` // position in the sequence, -1 for none
	Matched    int           `json:"matched"`
	LastSample time.Duration `json:"lastSample"`
	Settings   Settings      `json:"settings"`
}

func New(display Display, opts Options) *Synchronizer {
	policy := opts.Policy
	if policy == nil {
		policy = sanitize.DefaultPolicy()
	}
	settings := DefaultSettings()
	if opts.Settings != nil {
		settings = *opts.Settings
	}

	return &Synchronizer{
		display:  display,
		policy:   policy,
		logger:   logging.OrNop(opts.Logger),
		settings: settings,
		enabled:  !opts.Disabled,
		current:  -1,
		matched:  -1,
	}
}

// Load replaces the cue sequence and forgets the active cue. Anything
// still on screen from the previous track is hidden. It returns the
// number of cues now loaded.
func (s *Synchronizer) Load(cues []subtitle.Cue) int {
	if s.current >= 0 {
		s.display.Hide()
	}

	s.cues = append([]subtitle.Cue(nil), cues...)
	s.current = -1
	s.markup = ""
	s.matched = -1

	s.logger.Debugw("Loaded cues", "count", len(s.cues))
	return len(s.cues)
}

func (s *Synchronizer) Loaded() bool {
	return len(s.cues) > 0
}

func (s *Synchronizer) Len() int {
	return len(s.cues)
}

// SetEnabled turns output on or off. Disabling hides the current cue
// at once; enabling shows nothing until the next time sample.
func (s *Synchronizer) SetEnabled(enabled bool) {
	if s.enabled == enabled {
		return
	}
	s.enabled = enabled

	if !enabled && s.current >= 0 {
		s.display.Hide()
		s.current = -1
		s.markup = ""
	}
	s.logger.Debugw("Subtitles toggled", "enabled", enabled)
}

func (s *Synchronizer) Enabled() bool {
	return s.enabled
}

// flips the enabled flag and returns the new value
func (s *Synchronizer) Toggle() bool {
	s.SetEnabled(!s.enabled)
	return s.enabled
}

// OnTimeSample evaluates one playback position. The first cue in
// sequence order whose inclusive range contains t becomes active.
func (s *Synchronizer) OnTimeSample(t time.Duration) {
	if len(s.cues) == 0 {
		return
	}

	idx := s.match(t)
	s.matched = idx
	s.last = t

	if !s.enabled || idx == s.current {
		return
	}

	if idx < 0 {
		s.display.Hide()
		s.current = -1
		s.markup = ""
		return
	}

	s.markup = s.RenderText(s.cues[idx].Text)
	s.current = idx
	s.display.Show(s.markup, s.settings)
}

func (s *Synchronizer) match(t time.Duration) int {
	for i := range s.cues {
		if s.cues[i].Contains(t) {
			return i
		}
	}
	return -1
}

// RenderText returns the sanitised display markup for cue text.
func (s *Synchronizer) RenderText(text string) string {
	return s.policy.Render(text)
}

// PlainText returns cue text with all markup removed.
func (s *Synchronizer) PlainText(text string) string {
	return s.policy.PlainText(text)
}

// UpdateSettings merges a partial snapshot over the current settings.
// A position change while a cue is visible hides it, restyles and
// shows it again so it never lingers at the old position.
func (s *Synchronizer) UpdateSettings(patch SettingsPatch) Settings {
	prev := s.settings
	s.settings = prev.Merge(patch)

	if s.current >= 0 && prev.Position != s.settings.Position {
		s.display.Hide()
		s.display.Restyle(s.settings)
		s.display.Show(s.markup, s.settings)
	} else {
		s.display.Restyle(s.settings)
	}

	return s.settings
}

func (s *Synchronizer) Settings() Settings {
	return s.settings
}

// Span is the latest end time among well-formed cues.
func (s *Synchronizer) Span() time.Duration {
	var span time.Duration
	for _, c := range s.cues {
		if c.Valid() && c.EndTime > span {
			span = c.EndTime
		}
	}
	return span
}

// returns the cue on display, if any
func (s *Synchronizer) CurrentCue() (subtitle.Cue, bool) {
	if s.current < 0 {
		return subtitle.Cue{}, false
	}
	return s.cues[s.current], true
}

func (s *Synchronizer) State() State {
	return State{
		Loaded:     s.Loaded(),
		Cues:       len(s.cues),
		Enabled:    s.enabled,
		Visible:    s.current >= 0,
		Current:    s.current,
		Matched:    s.matched,
		LastSample: s.last,
		Settings:   s.settings,
	}
}

// Close hides anything on screen and drops the loaded cues.
func (s *Synchronizer) Close() {
	if s.current >= 0 {
		s.display.Hide()
	}
	s.cues = nil
	s.current = -1
	s.markup = ""
	s.matched = -1
}
