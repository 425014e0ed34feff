// Package encounter implements the combat lifecycle: preparation rosters,
// launched encounters, turn progression, and live participant mutation.
package encounter

import (
	"context"
	"sync"

	"github.com/tavernkeep/companion/internal/clients/bestiary"
	"github.com/tavernkeep/companion/internal/dice"
	"github.com/tavernkeep/companion/internal/domain/game/combat"
	"github.com/tavernkeep/companion/internal/repositories/characters"
	"github.com/tavernkeep/companion/internal/repositories/encounters"
	"github.com/tavernkeep/companion/internal/services/hpsync"
	"github.com/tavernkeep/companion/internal/uuid"
)

//go:generate mockgen -destination=mock/mock_service.go -package=mockencounter -source=service.go

// HPDeltaMode selects whether an HP delta is damage or healing
type HPDeltaMode string

const (
	HPDeltaDamage HPDeltaMode = "damage"
	HPDeltaHeal   HPDeltaMode = "heal"
)

// origin tag attached to character vitals writes made by this service
const vitalsWriteOrigin = hpsync.OriginEncounter

// BestiaryService is the slice of the monster catalog this service needs
type BestiaryService interface {
	GetMonster(ctx context.Context, key string) (*bestiary.StatBlock, error)
}

// Service drives the encounter state machine: Preparing (an in-memory roster
// per campaign), Active (a persisted encounter with a live turn loop), and
// Completed (ended, optionally saved for a later reload).
type Service interface {
	// AddToPreparation appends an entry to a campaign's preparation roster
	AddToPreparation(ctx context.Context, campaignID string, entry *combat.PreparationEntry) (*combat.PreparationEntry, error)

	// RemoveFromPreparation removes one entry from the preparation roster
	RemoveFromPreparation(ctx context.Context, campaignID, entryID string) error

	// GetPreparation returns the campaign's current preparation roster
	GetPreparation(ctx context.Context, campaignID string) []*combat.PreparationEntry

	// RollAllMonsterInitiative rolls a d20 for every unrolled monster, in the
	// active encounter if one exists, otherwise in the preparation roster
	RollAllMonsterInitiative(ctx context.Context, campaignID string) error

	// Launch materializes the preparation roster into a live encounter
	Launch(ctx context.Context, campaignID, name string) (*combat.Encounter, error)

	// SaveForLater materializes the roster into a saved, non-live encounter
	SaveForLater(ctx context.Context, campaignID, name string) (*combat.Encounter, error)

	// LoadSavedEncounter rehydrates a saved encounter into the preparation roster
	LoadSavedEncounter(ctx context.Context, encounterID string) ([]*combat.PreparationEntry, error)

	// NextTurn advances the turn pointer, wrapping into a new round at the end
	NextTurn(ctx context.Context, encounterID string) (*combat.Encounter, error)

	// SortByInitiativeNow re-sorts the live roster and restarts the round at the top
	SortByInitiativeNow(ctx context.Context, encounterID string) ([]*combat.Participant, error)

	// AddMonsters appends count copies of a catalog monster to a live roster
	AddMonsters(ctx context.Context, encounterID, monsterKey string, count int) ([]*combat.Participant, error)

	// AddCampaignPlayers adds every campaign character not already in the roster
	AddCampaignPlayers(ctx context.Context, encounterID string) ([]*combat.Participant, error)

	// RemoveParticipant deletes a roster row and rebases the turn pointer
	RemoveParticipant(ctx context.Context, encounterID, participantID string) error

	// ApplyHPDelta damages or heals a participant; player HP changes are
	// written through to the character record
	ApplyHPDelta(ctx context.Context, encounterID, participantID string, amount int, mode HPDeltaMode) (*combat.Participant, error)

	// ToggleCondition flips a condition tag on a participant
	ToggleCondition(ctx context.Context, encounterID, participantID, tag string) (*combat.Participant, error)

	// EndCombat completes the encounter and reseeds preparation from the
	// campaign's character roster
	EndCombat(ctx context.Context, encounterID string) error

	// DeleteEncounter purges an encounter and all of its participants
	DeleteEncounter(ctx context.Context, encounterID string) error

	// GetEncounter returns a single encounter
	GetEncounter(ctx context.Context, encounterID string) (*combat.Encounter, error)

	// GetActiveEncounter returns the campaign's active encounter, nil if none
	GetActiveEncounter(ctx context.Context, campaignID string) (*combat.Encounter, error)

	// ListEncounters returns a campaign's encounters, newest first
	ListEncounters(ctx context.Context, campaignID string) ([]*combat.Encounter, error)

	// ListParticipants returns an encounter's roster in sort order
	ListParticipants(ctx context.Context, encounterID string) ([]*combat.Participant, error)

	// SyncCharacterVitals projects a character's HP change onto the matching
	// player participant in the campaign's active encounter
	SyncCharacterVitals(ctx context.Context, campaignID, characterID string, currentHP, temporaryHP int) error
}

type service struct {
	repository    encounters.Repository
	characterRepo characters.Repository
	bestiary      BestiaryService
	roller        dice.Roller
	uuidGenerator uuid.Generator
	markers       *hpsync.MarkerSet

	mu          sync.Mutex
	preparation map[string][]*combat.PreparationEntry // campaignID -> working roster
}

// ServiceConfig holds the dependencies for the encounter service
type ServiceConfig struct {
	Repository          encounters.Repository // Required
	CharacterRepository characters.Repository // Required
	Bestiary            BestiaryService       // Required
	Roller              dice.Roller           // Required
	UUIDGenerator       uuid.Generator        // Required
	Markers             *hpsync.MarkerSet     // Optional, defaults to a 2s system-clock set
}

// NewService creates a new encounter service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}
	if cfg.CharacterRepository == nil {
		panic("character repository is required")
	}
	if cfg.Bestiary == nil {
		panic("bestiary service is required")
	}
	if cfg.Roller == nil {
		panic("dice roller is required")
	}
	if cfg.UUIDGenerator == nil {
		panic("uuid generator is required")
	}

	markers := cfg.Markers
	if markers == nil {
		markers = hpsync.NewMarkerSet(nil, 0)
	}

	return &service{
		repository:    cfg.Repository,
		characterRepo: cfg.CharacterRepository,
		bestiary:      cfg.Bestiary,
		roller:        cfg.Roller,
		uuidGenerator: cfg.UUIDGenerator,
		markers:       markers,
		preparation:   make(map[string][]*combat.PreparationEntry),
	}
}

func (s *service) GetEncounter(ctx context.Context, encounterID string) (*combat.Encounter, error) {
	return s.repository.GetEncounter(ctx, encounterID)
}

func (s *service) GetActiveEncounter(ctx context.Context, campaignID string) (*combat.Encounter, error) {
	return s.repository.GetActiveByCampaign(ctx, campaignID)
}

func (s *service) ListEncounters(ctx context.Context, campaignID string) ([]*combat.Encounter, error) {
	return s.repository.GetByCampaign(ctx, campaignID)
}

func (s *service) ListParticipants(ctx context.Context, encounterID string) ([]*combat.Participant, error) {
	return s.repository.ListParticipants(ctx, encounterID)
}
