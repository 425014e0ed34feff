// Package character orchestrates character record access and rest recovery
package character

import (
	"context"
	"log"

	"github.com/tavernkeep/companion/internal/dice"
	"github.com/tavernkeep/companion/internal/domain/character"
	dnderr "github.com/tavernkeep/companion/internal/errors"
	"github.com/tavernkeep/companion/internal/repositories/characters"
	"github.com/tavernkeep/companion/internal/uuid"
)

//go:generate mockgen -destination=mock/mock_service.go -package=mockcharacter -source=service.go

// origin tag attached to vitals writes initiated by the character's own player
const vitalsWriteOrigin = "character"

// RestResult reports what a completed rest restored, for toast-style feedback
type RestResult struct {
	Character *character.Character
	Healing   int
	Labels    []string
}

// Service manages character records and applies rest recovery to them
type Service interface {
	// Create stores a new character record, assigning an ID if absent
	Create(ctx context.Context, ch *character.Character) (*character.Character, error)

	// Get retrieves a character by ID
	Get(ctx context.Context, characterID string) (*character.Character, error)

	// ListByCampaign retrieves all characters in a campaign
	ListByCampaign(ctx context.Context, campaignID string) ([]*character.Character, error)

	// RestorableResources lists what a rest of the given type could restore
	RestorableResources(ctx context.Context, characterID string, restType character.RestType) ([]character.RestorableResource, error)

	// ShortRest spends hit dice for healing and resets the selected resources
	ShortRest(ctx context.Context, characterID string, hitDiceToSpend int, resourceIDs []string) (*RestResult, error)

	// LongRest restores the character fully
	LongRest(ctx context.Context, characterID string) (*RestResult, error)

	// UpdateVitals sets current and temporary HP from a player's own edit
	UpdateVitals(ctx context.Context, characterID string, currentHP, temporaryHP int) error

	// Delete removes a character record
	Delete(ctx context.Context, characterID string) error
}

type service struct {
	repository    characters.Repository
	roller        dice.Roller
	uuidGenerator uuid.Generator
}

// ServiceConfig holds the dependencies for the character service
type ServiceConfig struct {
	Repository    characters.Repository // Required
	Roller        dice.Roller           // Required
	UUIDGenerator uuid.Generator        // Required
}

// NewService creates a new character service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}
	if cfg.Roller == nil {
		panic("dice roller is required")
	}
	if cfg.UUIDGenerator == nil {
		panic("uuid generator is required")
	}

	return &service{
		repository:    cfg.Repository,
		roller:        cfg.Roller,
		uuidGenerator: cfg.UUIDGenerator,
	}
}

// Create stores a new character record, assigning an ID if absent
func (s *service) Create(ctx context.Context, ch *character.Character) (*character.Character, error) {
	if ch == nil {
		return nil, dnderr.InvalidArgument("character cannot be nil")
	}
	if ch.Name == "" {
		return nil, dnderr.InvalidArgument("character name is required")
	}
	if ch.CampaignID == "" {
		return nil, dnderr.InvalidArgument("campaign ID is required")
	}

	if ch.ID == "" {
		ch.ID = s.uuidGenerator.New()
	}

	if err := s.repository.Create(ctx, ch); err != nil {
		return nil, err
	}

	return ch, nil
}

// Get retrieves a character by ID
func (s *service) Get(ctx context.Context, characterID string) (*character.Character, error) {
	return s.repository.Get(ctx, characterID)
}

// ListByCampaign retrieves all characters in a campaign
func (s *service) ListByCampaign(ctx context.Context, campaignID string) ([]*character.Character, error) {
	return s.repository.GetByCampaign(ctx, campaignID)
}

// RestorableResources lists what a rest of the given type could restore
func (s *service) RestorableResources(ctx context.Context, characterID string, restType character.RestType) ([]character.RestorableResource, error) {
	ch, err := s.repository.Get(ctx, characterID)
	if err != nil {
		return nil, err
	}

	return character.RestorableResources(ch, restType), nil
}

// ShortRest spends hit dice for healing and resets the selected resources.
// The rules engine computes the patch; this commits it and returns the labels.
func (s *service) ShortRest(ctx context.Context, characterID string, hitDiceToSpend int, resourceIDs []string) (*RestResult, error) {
	if hitDiceToSpend < 0 {
		return nil, dnderr.InvalidArgument("hit dice to spend cannot be negative")
	}

	ch, err := s.repository.Get(ctx, characterID)
	if err != nil {
		return nil, err
	}

	update, err := character.BuildShortRestUpdate(ch, hitDiceToSpend, resourceIDs, s.roller)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to compute short rest")
	}

	update.Apply(ch)
	if err := s.repository.Update(ctx, ch, vitalsWriteOrigin); err != nil {
		return nil, dnderr.Wrap(err, "failed to save short rest")
	}

	log.Printf("Character %s short rested: healed %d, %d labels", ch.Name, update.Healing, len(update.Labels))
	return &RestResult{Character: ch, Healing: update.Healing, Labels: update.Labels}, nil
}

// LongRest restores the character fully
func (s *service) LongRest(ctx context.Context, characterID string) (*RestResult, error) {
	ch, err := s.repository.Get(ctx, characterID)
	if err != nil {
		return nil, err
	}

	update := character.BuildLongRestUpdate(ch)

	update.Apply(ch)
	if err := s.repository.Update(ctx, ch, vitalsWriteOrigin); err != nil {
		return nil, dnderr.Wrap(err, "failed to save long rest")
	}

	log.Printf("Character %s long rested", ch.Name)
	return &RestResult{Character: ch, Healing: update.Healing, Labels: update.Labels}, nil
}

// UpdateVitals sets current and temporary HP from a player's own edit. The
// write goes out on the change feed with this service's origin tag so the
// encounter roster picks it up.
func (s *service) UpdateVitals(ctx context.Context, characterID string, currentHP, temporaryHP int) error {
	if currentHP < 0 || temporaryHP < 0 {
		return dnderr.InvalidArgument("hit points cannot be negative")
	}

	ch, err := s.repository.Get(ctx, characterID)
	if err != nil {
		return err
	}

	if currentHP > ch.HP.Max {
		currentHP = ch.HP.Max
	}

	return s.repository.PatchVitals(ctx, characterID, currentHP, temporaryHP, vitalsWriteOrigin)
}

// Delete removes a character record
func (s *service) Delete(ctx context.Context, characterID string) error {
	return s.repository.Delete(ctx, characterID)
}
