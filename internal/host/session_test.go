package host

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mgpai22/subtrack/internal/player"
)

const twoCues = `1
00:00:00,000 --> 00:00:02,000
A

2
00:00:03,000 --> 00:00:05,000
<b>B</b>
`

func TestHandleLoadSubtitles(t *testing.T) {
	s := NewSession("test", SessionOptions{})

	resp := s.Handle(Message{Action: ActionLoadSubtitles, SRTContent: twoCues})
	if !resp.Success {
		t.Fatalf("load failed: %s", resp.Error)
	}
	if resp.Cues == nil || *resp.Cues != 2 {
		t.Errorf("cues = %v, want 2", resp.Cues)
	}
	if resp.Loaded == nil || !*resp.Loaded {
		t.Error("expected loaded = true")
	}
}

func TestHandleLoadEmptyDocument(t *testing.T) {
	s := NewSession("test", SessionOptions{})

	for _, doc := range []string{"", "not a subtitle file", "1\nbroken --> timing\nText"} {
		resp := s.Handle(Message{Action: ActionLoadSubtitles, SRTContent: doc})
		if !resp.Success {
			t.Errorf("load of %q should succeed, got %s", doc, resp.Error)
			continue
		}
		if *resp.Cues != 0 || *resp.Loaded {
			t.Errorf("load of %q: cues=%d loaded=%v", doc, *resp.Cues, *resp.Loaded)
		}
	}

	if st := s.DisplayState(); st.Loaded || st.Visible {
		t.Errorf("unexpected state after empty loads: %+v", st)
	}
}

func TestHandleUpdateSettingsMergesOverCurrent(t *testing.T) {
	s := NewSession("test", SessionOptions{})

	size := 30
	resp := s.Handle(Message{Action: ActionUpdateSettings, Settings: &player.SettingsPatch{FontSize: &size}})
	if !resp.Success {
		t.Fatalf("update failed: %s", resp.Error)
	}

	opacity := 40
	resp = s.Handle(Message{Action: ActionUpdateSettings, Settings: &player.SettingsPatch{Opacity: &opacity}})

	want := player.DefaultSettings()
	want.FontSize = 30
	want.Opacity = 40
	if diff := cmp.Diff(&want, resp.Settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleToggleAndUnknownAction(t *testing.T) {
	s := NewSession("test", SessionOptions{})

	resp := s.Handle(Message{Action: ActionToggleSubtitles})
	if !resp.Success || resp.Enabled == nil || *resp.Enabled {
		t.Errorf("first toggle should disable: %+v", resp)
	}
	resp = s.Handle(Message{Action: ActionToggleSubtitles})
	if resp.Enabled == nil || !*resp.Enabled {
		t.Errorf("second toggle should enable: %+v", resp)
	}

	resp = s.Handle(Message{Action: "rewind"})
	if resp.Success || resp.Error == "" {
		t.Errorf("unknown action should fail: %+v", resp)
	}
}

func TestObserveDrivesFrames(t *testing.T) {
	s := NewSession("test", SessionOptions{})
	s.Load(twoCues)

	tests := []struct {
		at      float64
		paused  bool
		visible bool
		markup  string
	}{
		{at: 1, visible: true, markup: "A"},
		{at: 2.5, visible: false},
		{at: 4, paused: true, visible: false},
		{at: 4, visible: true, markup: "<b>B</b>"},
		{at: 6, visible: false},
	}

	for _, tt := range tests {
		st, err := s.Observe(tt.at, tt.paused)
		if err != nil {
			t.Fatalf("Observe(%v): %v", tt.at, err)
		}
		if st.Visible != tt.visible || st.Markup != tt.markup {
			t.Errorf("at %v paused=%v: visible=%v markup=%q, want %v %q",
				tt.at, tt.paused, st.Visible, st.Markup, tt.visible, tt.markup)
		}
	}
}

func TestSessionForwardsToDisplay(t *testing.T) {
	rec := &recordingDisplay{}
	s := NewSession("test", SessionOptions{Display: rec})
	s.Load(twoCues)

	s.Sample(time.Second)
	s.Sample(time.Second)
	s.Sample(4 * time.Second)

	want := []string{"show A", "show <b>B</b>"}
	if diff := cmp.Diff(want, rec.calls()); diff != "" {
		t.Errorf("display calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	if _, ok := store.Load(); ok {
		t.Fatal("new store should be empty")
	}

	first := NewSession("a", SessionOptions{Store: store})
	top := player.PositionTop
	if _, err := first.UpdateSettings(player.SettingsPatch{Position: &top}); err != nil {
		t.Fatal(err)
	}
	if _, err := first.Toggle(); err != nil {
		t.Fatal(err)
	}

	second := NewSession("b", SessionOptions{Store: store})
	st := second.State()
	if st.Settings.Position != player.PositionTop {
		t.Errorf("position = %q, want top", st.Settings.Position)
	}
	if st.Enabled {
		t.Error("disabled flag should carry over through the store")
	}
}

func TestClosedSessionRejectsMessages(t *testing.T) {
	rec := &recordingDisplay{}
	s := NewSession("test", SessionOptions{Display: rec})
	s.Load(twoCues)
	s.Sample(time.Second)

	s.Close()
	s.Close()

	resp := s.Handle(Message{Action: ActionToggleSubtitles})
	if resp.Success {
		t.Error("closed session accepted a message")
	}
	if _, err := s.Load(twoCues); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Load after Close: %v", err)
	}
	s.Sample(4 * time.Second)

	want := []string{"show A", "hide"}
	if diff := cmp.Diff(want, rec.calls()); diff != "" {
		t.Errorf("display calls mismatch (-want +got):\n%s", diff)
	}
}

func TestPlaySamplesMediaClock(t *testing.T) {
	rec := &recordingDisplay{shown: make(chan string, 4)}
	clock := &stepClock{}
	s := NewSession("test", SessionOptions{Display: rec, Clock: clock})
	s.Load(twoCues)

	media := player.NewPlaybackClock(nil)
	media.Seek(time.Second)
	media.Play()

	if err := s.Play(context.Background(), media); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if err := s.Play(context.Background(), media); !errors.Is(err, player.ErrSchedulerRunning) {
		t.Errorf("second Play: %v", err)
	}

	clock.ticker.ch <- time.Now()
	select {
	case got := <-rec.shown:
		if got != "A" {
			t.Errorf("shown %q, want A", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no cue shown after a tick")
	}

	s.Close()
}

type recordingDisplay struct {
	mu    sync.Mutex
	log   []string
	shown chan string
}

func (r *recordingDisplay) Show(markup string, _ player.Settings) {
	r.mu.Lock()
	r.log = append(r.log, "show "+markup)
	r.mu.Unlock()
	if r.shown != nil {
		r.shown <- markup
	}
}

func (r *recordingDisplay) Hide() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, "hide")
}

func (r *recordingDisplay) Restyle(player.Settings) {}

func (r *recordingDisplay) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.log...)
}

type stepTicker struct {
	ch chan time.Time
}

func (s *stepTicker) C() <-chan time.Time { return s.ch }
func (s *stepTicker) Stop()               {}

type stepClock struct {
	ticker *stepTicker
}

func (c *stepClock) NewTicker(time.Duration) player.Ticker {
	c.ticker = &stepTicker{ch: make(chan time.Time)}
	return c.ticker
}
