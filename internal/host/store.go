package host

import (
	"sync"

	"github.com/mgpai22/subtrack/internal/player"
)

// Snapshot is what a SettingsStore keeps between sessions.
type Snapshot struct {
	Settings player.Settings `json:"settings"`
	Enabled  bool            `json:"enabled"`
}

func DefaultSnapshot() Snapshot {
	return Snapshot{Settings: player.DefaultSettings(), Enabled: true}
}

type SettingsStore interface {
	// Load reports false when nothing has been saved yet.
	Load() (Snapshot, bool)
	Save(Snapshot) error
}

// MemoryStore keeps the last saved snapshot in memory, shared by every
// session of a registry.
type MemoryStore struct {
	mu    sync.RWMutex
	snap  Snapshot
	saved bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap, m.saved
}

func (m *MemoryStore) Save(s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = s
	m.saved = true
	return nil
}
