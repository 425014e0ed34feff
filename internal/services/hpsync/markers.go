package hpsync

import (
	"sync"
	"time"

	"github.com/tavernkeep/companion/internal/clock"
)

// DefaultSuppressionWindow is how long a local vitals write suppresses
// incoming change events for the same character.
const DefaultSuppressionWindow = 2 * time.Second

// MarkerSet records recent local vitals writes so their echoes on the change
// feed can be recognized and dropped. Entries expire after the suppression
// window; re-marking a character restarts its window.
type MarkerSet struct {
	mu      sync.Mutex
	clock   clock.TimeProvider
	window  time.Duration
	entries map[string]time.Time // characterID -> marked at
}

// NewMarkerSet creates a marker set with the given clock and window.
// A non-positive window falls back to the default.
func NewMarkerSet(timeProvider clock.TimeProvider, window time.Duration) *MarkerSet {
	if timeProvider == nil {
		timeProvider = clock.SystemTimeProvider{}
	}
	if window <= 0 {
		window = DefaultSuppressionWindow
	}

	return &MarkerSet{
		clock:   timeProvider,
		window:  window,
		entries: make(map[string]time.Time),
	}
}

// Mark records a local write for the character, starting its suppression window
func (m *MarkerSet) Mark(characterID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[characterID] = m.clock.Now()
}

// IsMarked reports whether the character is inside an active suppression
// window. Expired entries are pruned as they are seen.
func (m *MarkerSet) IsMarked(characterID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	markedAt, ok := m.entries[characterID]
	if !ok {
		return false
	}

	if m.clock.Now().Sub(markedAt) >= m.window {
		delete(m.entries, characterID)
		return false
	}

	return true
}
