package encounters

//go:generate mockgen -destination=mock/mock_repository.go -package=mockencrepo -source=repository.go

import (
	"context"

	"github.com/tavernkeep/companion/internal/domain/game/combat"
)

// Repository defines the interface for encounter and participant storage
type Repository interface {
	// CreateEncounter stores a new encounter
	CreateEncounter(ctx context.Context, encounter *combat.Encounter) error

	// GetEncounter retrieves an encounter by ID
	GetEncounter(ctx context.Context, id string) (*combat.Encounter, error)

	// UpdateEncounter modifies an existing encounter
	UpdateEncounter(ctx context.Context, encounter *combat.Encounter) error

	// DeleteEncounter removes an encounter and all of its participants
	DeleteEncounter(ctx context.Context, id string) error

	// GetByCampaign retrieves all encounters for a campaign
	GetByCampaign(ctx context.Context, campaignID string) ([]*combat.Encounter, error)

	// GetActiveByCampaign retrieves the active encounter for a campaign, nil if none
	GetActiveByCampaign(ctx context.Context, campaignID string) (*combat.Encounter, error)

	// AddParticipants stores participants for an encounter in one bulk insert
	AddParticipants(ctx context.Context, participants []*combat.Participant) error

	// UpdateParticipant modifies a single participant row
	UpdateParticipant(ctx context.Context, participant *combat.Participant) error

	// DeleteParticipant removes a single participant row
	DeleteParticipant(ctx context.Context, encounterID, participantID string) error

	// ListParticipants retrieves an encounter's participants ordered by sort order
	ListParticipants(ctx context.Context, encounterID string) ([]*combat.Participant, error)
}
