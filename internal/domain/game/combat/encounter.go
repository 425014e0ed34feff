package combat

import (
	"time"
)

// EncounterStatus represents the current state of an encounter
type EncounterStatus string

const (
	EncounterStatusActive    EncounterStatus = "active"    // Combat in progress
	EncounterStatusCompleted EncounterStatus = "completed" // Encounter finished or archived
)

// ParticipantType represents the type of participant
type ParticipantType string

const (
	ParticipantTypePlayer  ParticipantType = "player"
	ParticipantTypeMonster ParticipantType = "monster"
)

// Encounter represents one combat session's persisted state.
// Turn always indexes into the current participant list, or the list is empty.
type Encounter struct {
	ID         string          `json:"id"`
	CampaignID string          `json:"campaign_id"`
	Name       string          `json:"name"`
	Status     EncounterStatus `json:"status"`
	Saved      bool            `json:"saved"` // archived for later reload, distinct from merely ended
	Round      int             `json:"round"`
	Turn       int             `json:"turn"` // index into the sort-ordered participant list
	CombatLog  []string        `json:"combat_log"`
	CreatedAt  time.Time       `json:"created_at"`
	EndedAt    *time.Time      `json:"ended_at"`
}

// Participant represents one combatant's live state within an encounter
type Participant struct {
	ID          string          `json:"id"`
	EncounterID string          `json:"encounter_id"`
	SortOrder   int             `json:"sort_order"`
	Type        ParticipantType `json:"type"`
	Name        string          `json:"name"`

	// Source references; both may be empty for improvised entries
	CharacterID string `json:"character_id,omitempty"`
	MonsterKey  string `json:"monster_key,omitempty"`

	Initiative int      `json:"initiative"` // 0 means unrolled
	CurrentHP  int      `json:"current_hp"`
	MaxHP      int      `json:"max_hp"`
	TempHP     int      `json:"temp_hp"`
	AC         int      `json:"ac"`
	Conditions []string `json:"conditions"`
	Notes      string   `json:"notes"`
	IsActive   bool     `json:"is_active"`
}

// PreparationEntry is a pre-launch roster line. It lives only in the
// lifecycle controller's working set and is never persisted standalone.
type PreparationEntry struct {
	ID          string
	Name        string
	Type        ParticipantType
	CharacterID string
	MonsterKey  string
	MaxHP       int
	CurrentHP   int
	TempHP      int
	AC          int
	Initiative  int
}

// NewEncounter creates a new active encounter at round 1, turn 0
func NewEncounter(id, campaignID, name string) *Encounter {
	return &Encounter{
		ID:         id,
		CampaignID: campaignID,
		Name:       name,
		Status:     EncounterStatusActive,
		Round:      1,
		Turn:       0,
		CombatLog:  []string{},
		CreatedAt:  time.Now(),
	}
}

// AdvanceTurn moves the turn pointer forward, wrapping to the top of the
// order and incrementing the round when it passes the end. Round and Turn
// must be persisted together by the caller.
func (e *Encounter) AdvanceTurn(participantCount int) {
	if e.Status != EncounterStatusActive || participantCount == 0 {
		return
	}

	e.Turn++
	if e.Turn >= participantCount {
		e.Turn = 0
		e.Round++
	}
}

// ClampTurn rebases the turn pointer after the roster shrinks so it always
// indexes a live participant slot.
func (e *Encounter) ClampTurn(participantCount int) {
	if participantCount == 0 {
		e.Turn = 0
		return
	}
	if e.Turn >= participantCount {
		e.Turn = 0
	}
}

// End marks the encounter completed
func (e *Encounter) End() {
	now := time.Now()
	e.Status = EncounterStatusCompleted
	e.EndedAt = &now
}

// AddCombatLogEntry appends a round-prefixed entry to the bounded combat log
func (e *Encounter) AddCombatLogEntry(entry string) {
	if e.CombatLog == nil {
		e.CombatLog = []string{}
	}
	e.CombatLog = append(e.CombatLog, entry)

	// Keep only the last 20 entries to prevent unbounded growth
	if len(e.CombatLog) > 20 {
		e.CombatLog = e.CombatLog[len(e.CombatLog)-20:]
	}
}

// IsAlive returns true if the participant has more than 0 HP
func (p *Participant) IsAlive() bool {
	return p.CurrentHP > 0
}

// ApplyDamage reduces current HP, floored at zero. Non-positive amounts are
// a no-op. Temporary HP is tracked separately and deliberately not consumed
// here; it is only ever set by explicit edits or character sync.
func (p *Participant) ApplyDamage(amount int) {
	if amount <= 0 {
		return
	}

	p.CurrentHP -= amount
	if p.CurrentHP <= 0 {
		p.CurrentHP = 0
		p.IsActive = false
	}
}

// Heal restores hit points up to max. Non-positive amounts are a no-op.
func (p *Participant) Heal(amount int) {
	if amount <= 0 {
		return
	}

	p.CurrentHP += amount
	if p.CurrentHP > p.MaxHP {
		p.CurrentHP = p.MaxHP
	}

	// Back in the fight if they were down
	if p.CurrentHP > 0 && !p.IsActive {
		p.IsActive = true
	}
}

// ToggleCondition adds the tag if absent, removes it if present.
// No mutual exclusivity between tags is enforced.
func (p *Participant) ToggleCondition(tag string) {
	for i, c := range p.Conditions {
		if c == tag {
			p.Conditions = append(p.Conditions[:i], p.Conditions[i+1:]...)
			return
		}
	}
	p.Conditions = append(p.Conditions, tag)
}

// HasCondition reports whether the tag is currently set
func (p *Participant) HasCondition(tag string) bool {
	for _, c := range p.Conditions {
		if c == tag {
			return true
		}
	}
	return false
}
