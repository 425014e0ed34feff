package characters

//go:generate mockgen -destination=mock/mock_repository.go -package=mockcharrepo -source=repository.go

import (
	"context"

	"github.com/tavernkeep/companion/internal/domain/character"
)

// VitalsEvent is one change notification for a character's hit points.
// Origin identifies the writer so consumers can recognize their own echoes.
type VitalsEvent struct {
	CharacterID string `json:"character_id"`
	CampaignID  string `json:"campaign_id"`
	CurrentHP   int    `json:"current_hp"`
	TemporaryHP int    `json:"temporary_hp"`
	Origin      string `json:"origin,omitempty"`
}

// Repository defines character record storage plus a campaign-scoped
// change feed for vitals writes.
type Repository interface {
	// Create stores a new character
	Create(ctx context.Context, ch *character.Character) error

	// Get retrieves a character by ID
	Get(ctx context.Context, id string) (*character.Character, error)

	// GetByCampaign retrieves all characters in a campaign
	GetByCampaign(ctx context.Context, campaignID string) ([]*character.Character, error)

	// Update replaces a character record and emits a vitals event
	Update(ctx context.Context, ch *character.Character, origin string) error

	// PatchVitals updates only current/temporary HP and emits a vitals event
	PatchVitals(ctx context.Context, characterID string, currentHP, temporaryHP int, origin string) error

	// Delete removes a character
	Delete(ctx context.Context, id string) error

	// Watch subscribes to vitals events for a campaign. The returned channel
	// closes when ctx is cancelled.
	Watch(ctx context.Context, campaignID string) (<-chan VitalsEvent, error)
}
