package host

import (
	"errors"
	"testing"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(SessionOptions{})

	a := r.Create()
	b := r.Create()
	if a.ID() == b.ID() {
		t.Fatal("session ids must be unique")
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}

	got, err := r.Get(a.ID())
	if err != nil || got != a {
		t.Fatalf("Get(%s) = %v, %v", a.ID(), got, err)
	}

	if err := r.Teardown(a.ID()); err != nil {
		t.Fatalf("Teardown: %v", err)
	}
	if _, err := r.Get(a.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after teardown: %v", err)
	}
	if err := r.Teardown(a.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second teardown: %v", err)
	}

	r.Close()
	if r.Len() != 0 {
		t.Errorf("Len after Close = %d", r.Len())
	}
}

func TestRegistryNavigate(t *testing.T) {
	r := NewRegistry(SessionOptions{})
	old := r.Create()

	old.Load(twoCues)
	old.Toggle()

	fresh, err := r.Navigate(old.ID())
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if fresh == old || fresh.ID() != old.ID() {
		t.Fatal("navigate should replace the session under the same id")
	}

	st := fresh.State()
	if st.Loaded {
		t.Error("cues should not survive navigation")
	}
	if st.Enabled {
		t.Error("stored enabled flag should survive navigation")
	}

	if _, err := old.Load(twoCues); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("old session still usable: %v", err)
	}

	got, _ := r.Get(old.ID())
	if got != fresh {
		t.Error("registry still points at the old session")
	}

	if _, err := r.Navigate("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Navigate(missing): %v", err)
	}
}

func TestMessageForKey(t *testing.T) {
	current := DefaultSnapshot().Settings
	current.FontSize = 8
	current.Opacity = 98

	tests := []struct {
		key   Key
		check func(Message) bool
	}{
		{KeyFontUp, func(m Message) bool { return *m.Settings.FontSize == 9 }},
		{KeyFontDown, func(m Message) bool { return *m.Settings.FontSize == MinFontSize }},
		{KeyOpacityUp, func(m Message) bool { return *m.Settings.Opacity == 100 }},
		{KeyOpacityDown, func(m Message) bool { return *m.Settings.Opacity == 93 }},
		{"W", func(m Message) bool { return *m.Settings.Position == "top" }},
		{KeyMiddle, func(m Message) bool { return *m.Settings.Position == "middle" }},
		{KeyBottom, func(m Message) bool { return *m.Settings.Position == "bottom" }},
		{KeyToggle, func(m Message) bool { return m.Action == ActionToggleSubtitles }},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			msg, ok := MessageForKey(tt.key, current)
			if !ok {
				t.Fatal("key not bound")
			}
			if !tt.check(msg) {
				t.Errorf("unexpected message %+v", msg)
			}
		})
	}

	if _, ok := MessageForKey("x", current); ok {
		t.Error("unbound key reported ok")
	}
}
