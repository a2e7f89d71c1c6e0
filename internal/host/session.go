package host

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mgpai22/subtrack/internal/logging"
	"github.com/mgpai22/subtrack/internal/player"
	"github.com/mgpai22/subtrack/internal/sanitize"
	"github.com/mgpai22/subtrack/internal/subtitle"
)

type SessionOptions struct {
	Policy  *sanitize.Policy
	Store   SettingsStore  // nil keeps settings for the session only
	Display player.Display // optional downstream display
	Logger  *logging.Logger

	PollInterval time.Duration
	Clock        player.Clock // ticker factory for Play
}

// DisplayState is what a polling client needs to draw the overlay.
type DisplayState struct {
	Frame
	Enabled     bool    `json:"enabled"`
	Loaded      bool    `json:"loaded"`
	Cues        int     `json:"cues"`
	CurrentTime float64 `json:"currentTime"`
}

// Session owns one synchronizer and serialises every access to it, so
// the sampling goroutine and message handlers never interleave.
type Session struct {
	id     string
	opts   SessionOptions
	logger *logging.Logger

	mu        sync.Mutex
	engine    *player.Synchronizer
	frames    *FrameDisplay
	scheduler *player.Scheduler
	closed    bool
}

func NewSession(id string, opts SessionOptions) *Session {
	logger := logging.OrNop(opts.Logger).With("session", id)

	snap := DefaultSnapshot()
	if opts.Store != nil {
		if stored, ok := opts.Store.Load(); ok {
			snap = stored
		}
	}

	frames := NewFrameDisplay(opts.Display, snap.Settings)
	settings := snap.Settings

	return &Session{
		id:     id,
		opts:   opts,
		logger: logger,
		frames: frames,
		engine: player.New(frames, player.Options{
			Policy:   opts.Policy,
			Settings: &settings,
			Disabled: !snap.Enabled,
			Logger:   logger,
		}),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Handle dispatches one boundary message. Failures are reported in the
// response, never returned.
func (s *Session) Handle(msg Message) Response {
	switch msg.Action {
	case ActionLoadSubtitles:
		n, err := s.Load(msg.SRTContent)
		if err != nil {
			return failure(err)
		}
		loaded := n > 0
		return Response{Success: true, Cues: &n, Loaded: &loaded}

	case ActionUpdateSettings:
		var patch player.SettingsPatch
		if msg.Settings != nil {
			patch = *msg.Settings
		}
		settings, err := s.UpdateSettings(patch)
		if err != nil {
			return failure(err)
		}
		return Response{Success: true, Settings: &settings}

	case ActionToggleSubtitles:
		enabled, err := s.Toggle()
		if err != nil {
			return failure(err)
		}
		return Response{Success: true, Enabled: &enabled}

	default:
		return failure(fmt.Errorf("%w: %q", ErrUnknownAction, msg.Action))
	}
}

// Load parses SRT (or WebVTT) text and replaces the cue sequence. A
// document with no usable blocks loads zero cues.
func (s *Session) Load(document string) (int, error) {
	cues := subtitle.Parse(document)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrSessionClosed
	}

	n := s.engine.Load(cues)
	s.logger.Infow("Subtitles loaded", "cues", n)
	return n, nil
}

// LoadCues replaces the sequence with already parsed cues.
func (s *Session) LoadCues(cues []subtitle.Cue) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrSessionClosed
	}
	return s.engine.Load(cues), nil
}

func (s *Session) UpdateSettings(patch player.SettingsPatch) (player.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return player.Settings{}, ErrSessionClosed
	}

	settings := s.engine.UpdateSettings(patch)
	s.save()
	return settings, nil
}

func (s *Session) Toggle() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrSessionClosed
	}

	enabled := s.engine.Toggle()
	s.save()
	return enabled, nil
}

func (s *Session) SetEnabled(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}

	s.engine.SetEnabled(enabled)
	s.save()
	return nil
}

// caller holds s.mu
func (s *Session) save() {
	if s.opts.Store == nil {
		return
	}
	snap := Snapshot{Settings: s.engine.Settings(), Enabled: s.engine.Enabled()}
	if err := s.opts.Store.Save(snap); err != nil {
		s.logger.Warnw("Failed to save settings", "error", err)
	}
}

// Sample feeds one playback position to the synchronizer.
func (s *Session) Sample(t time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.engine.OnTimeSample(t)
}

// Observe takes a time report from a client that owns the media
// element. Paused reports are not sampled.
func (s *Session) Observe(currentTime float64, paused bool) (DisplayState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return DisplayState{}, ErrSessionClosed
	}
	if !paused {
		s.engine.OnTimeSample(subtitle.Seconds(currentTime))
	}
	return s.displayState(), nil
}

func (s *Session) DisplayState() DisplayState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayState()
}

func (s *Session) displayState() DisplayState {
	st := s.engine.State()
	return DisplayState{
		Frame:       s.frames.Frame(),
		Enabled:     st.Enabled,
		Loaded:      st.Loaded,
		Cues:        st.Cues,
		CurrentTime: st.LastSample.Seconds(),
	}
}

func (s *Session) State() player.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

func (s *Session) Settings() player.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Settings()
}

// Span is the end of the last cue loaded.
func (s *Session) Span() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Span()
}

// PlainText strips markup from cue text with the session's policy.
func (s *Session) PlainText(text string) string {
	return s.engine.PlainText(text)
}

// Play starts sampling media on the session's poll interval until ctx
// is cancelled or the session is closed.
func (s *Session) Play(ctx context.Context, media player.MediaClock) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.scheduler != nil {
		s.mu.Unlock()
		return player.ErrSchedulerRunning
	}
	sched := player.NewScheduler(media, s.Sample, player.SchedulerOptions{
		Interval: s.opts.PollInterval,
		Clock:    s.opts.Clock,
	})
	s.scheduler = sched
	s.mu.Unlock()

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start sampling: %w", err)
	}
	s.logger.Debugw("Sampling started", "interval", sched.Interval())
	return nil
}

// Close stops sampling, hides anything on screen and drops the cues.
// Calling it more than once is harmless.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	sched := s.scheduler
	s.scheduler = nil
	s.mu.Unlock()

	// the sample func takes s.mu, so stop outside it
	if sched != nil {
		sched.Stop()
	}

	s.mu.Lock()
	s.engine.Close()
	s.mu.Unlock()
	s.logger.Debugw("Session closed")
}
