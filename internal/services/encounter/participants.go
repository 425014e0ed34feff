package encounter

import (
	"context"
	"fmt"
	"log"

	"github.com/tavernkeep/companion/internal/domain/game/combat"
	dnderr "github.com/tavernkeep/companion/internal/errors"
)

// AddMonsters appends count copies of a catalog monster to the live roster,
// numbered when count > 1. Rows are written one at a time; a mid-sequence
// failure leaves the rows already written in place.
func (s *service) AddMonsters(ctx context.Context, encounterID, monsterKey string, count int) ([]*combat.Participant, error) {
	if count <= 0 {
		return nil, dnderr.InvalidArgument("count must be positive")
	}

	encounter, participants, err := s.getActiveRoster(ctx, encounterID)
	if err != nil {
		return nil, err
	}

	block, err := s.bestiary.GetMonster(ctx, monsterKey)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to look up monster '%s'", monsterKey)
	}

	tail := nextSortOrder(participants)
	added := make([]*combat.Participant, 0, count)
	for i := 0; i < count; i++ {
		p := &combat.Participant{
			ID:          s.uuidGenerator.New(),
			EncounterID: encounterID,
			SortOrder:   tail + i,
			Type:        combat.ParticipantTypeMonster,
			Name:        monsterDisplayName(block.Name, i, count),
			MonsterKey:  block.Key,
			Initiative:  0,
			CurrentHP:   block.HitPoints,
			MaxHP:       block.HitPoints,
			AC:          block.ArmorClass,
			IsActive:    true,
		}

		if err := s.repository.AddParticipants(ctx, []*combat.Participant{p}); err != nil {
			return added, dnderr.Wrapf(err, "failed to add %s", p.Name)
		}
		added = append(added, p)
	}

	encounter.AddCombatLogEntry(fmt.Sprintf("Round %d: %d x %s joined the fight", encounter.Round, count, block.Name))
	if err := s.repository.UpdateEncounter(ctx, encounter); err != nil {
		log.Printf("Failed to record combat log for encounter %s: %v", encounterID, err)
	}

	return added, nil
}

// AddCampaignPlayers adds one participant per campaign character not already
// present in the roster, seeding HP and temp HP from the character record.
func (s *service) AddCampaignPlayers(ctx context.Context, encounterID string) ([]*combat.Participant, error) {
	encounter, participants, err := s.getActiveRoster(ctx, encounterID)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool)
	for _, p := range participants {
		if p.CharacterID != "" {
			present[p.CharacterID] = true
		}
	}

	chars, err := s.characterRepo.GetByCampaign(ctx, encounter.CampaignID)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list campaign characters")
	}

	tail := nextSortOrder(participants)
	added := make([]*combat.Participant, 0, len(chars))
	for _, ch := range chars {
		if present[ch.ID] {
			continue
		}

		p := &combat.Participant{
			ID:          s.uuidGenerator.New(),
			EncounterID: encounterID,
			SortOrder:   tail + len(added),
			Type:        combat.ParticipantTypePlayer,
			Name:        ch.Name,
			CharacterID: ch.ID,
			Initiative:  0,
			CurrentHP:   ch.HP.Current,
			MaxHP:       ch.HP.Max,
			TempHP:      ch.HP.Temporary,
			AC:          ch.ArmorClass,
			IsActive:    ch.HP.Current > 0,
		}

		if err := s.repository.AddParticipants(ctx, []*combat.Participant{p}); err != nil {
			return added, dnderr.Wrapf(err, "failed to add %s", p.Name)
		}
		added = append(added, p)
	}

	return added, nil
}

// RemoveParticipant deletes a roster row and rebases the turn pointer so it
// keeps indexing the combatant whose turn it was, or wraps to the top if the
// pointer fell off the end.
func (s *service) RemoveParticipant(ctx context.Context, encounterID, participantID string) error {
	encounter, err := s.repository.GetEncounter(ctx, encounterID)
	if err != nil {
		return err
	}

	participants, err := s.repository.ListParticipants(ctx, encounterID)
	if err != nil {
		return dnderr.Wrap(err, "failed to list participants")
	}

	removedIndex := -1
	for i, p := range participants {
		if p.ID == participantID {
			removedIndex = i
			break
		}
	}
	if removedIndex == -1 {
		return dnderr.NotFoundf("participant not found: %s", participantID)
	}

	if err := s.repository.DeleteParticipant(ctx, encounterID, participantID); err != nil {
		return dnderr.Wrap(err, "failed to remove participant")
	}

	originalTurn := encounter.Turn
	if removedIndex < encounter.Turn {
		encounter.Turn--
	}
	encounter.ClampTurn(len(participants) - 1)

	if encounter.Turn != originalTurn {
		if err := s.repository.UpdateEncounter(ctx, encounter); err != nil {
			return dnderr.Wrap(err, "failed to rebase turn pointer")
		}
	}

	return nil
}

// ApplyHPDelta damages or heals a participant. Non-positive amounts are a
// quiet no-op. Player HP changes are written through to the character record,
// with the local-write marker set first so the change feed echo is dropped.
func (s *service) ApplyHPDelta(ctx context.Context, encounterID, participantID string, amount int, mode HPDeltaMode) (*combat.Participant, error) {
	encounter, participant, err := s.getActiveParticipant(ctx, encounterID, participantID)
	if err != nil {
		return nil, err
	}

	if amount <= 0 {
		return participant, nil
	}

	switch mode {
	case HPDeltaDamage:
		participant.ApplyDamage(amount)
		encounter.AddCombatLogEntry(fmt.Sprintf("Round %d: %s takes %d damage", encounter.Round, participant.Name, amount))
	case HPDeltaHeal:
		participant.Heal(amount)
		encounter.AddCombatLogEntry(fmt.Sprintf("Round %d: %s heals %d HP", encounter.Round, participant.Name, amount))
	default:
		return nil, dnderr.InvalidArgument("unknown HP delta mode: " + string(mode))
	}

	if err := s.repository.UpdateParticipant(ctx, participant); err != nil {
		return nil, dnderr.Wrapf(err, "failed to update %s", participant.Name)
	}

	if err := s.repository.UpdateEncounter(ctx, encounter); err != nil {
		log.Printf("Failed to record combat log for encounter %s: %v", encounterID, err)
	}

	if participant.Type == combat.ParticipantTypePlayer && participant.CharacterID != "" {
		s.markers.Mark(participant.CharacterID)
		if err := s.characterRepo.PatchVitals(ctx, participant.CharacterID, participant.CurrentHP, participant.TempHP, vitalsWriteOrigin); err != nil {
			// Roster write already landed; the character record catches up on
			// the next edit
			log.Printf("Failed to write HP back to character %s: %v", participant.CharacterID, err)
		}
	}

	return participant, nil
}

// ToggleCondition flips a condition tag on a participant
func (s *service) ToggleCondition(ctx context.Context, encounterID, participantID, tag string) (*combat.Participant, error) {
	if tag == "" {
		return nil, dnderr.InvalidArgument("condition tag is required")
	}

	_, participant, err := s.getActiveParticipant(ctx, encounterID, participantID)
	if err != nil {
		return nil, err
	}

	participant.ToggleCondition(tag)

	if err := s.repository.UpdateParticipant(ctx, participant); err != nil {
		return nil, dnderr.Wrapf(err, "failed to update %s", participant.Name)
	}

	return participant, nil
}

// SyncCharacterVitals projects a character's HP change onto the matching
// player participant in the campaign's active encounter. With no active
// encounter or no matching participant there is nothing to do.
func (s *service) SyncCharacterVitals(ctx context.Context, campaignID, characterID string, currentHP, temporaryHP int) error {
	encounter, err := s.repository.GetActiveByCampaign(ctx, campaignID)
	if err != nil {
		return dnderr.Wrap(err, "failed to look up active encounter")
	}
	if encounter == nil {
		return nil
	}

	participants, err := s.repository.ListParticipants(ctx, encounter.ID)
	if err != nil {
		return dnderr.Wrap(err, "failed to list participants")
	}

	for _, p := range participants {
		if p.Type != combat.ParticipantTypePlayer || p.CharacterID != characterID {
			continue
		}

		p.CurrentHP = currentHP
		if p.CurrentHP < 0 {
			p.CurrentHP = 0
		}
		p.TempHP = temporaryHP
		p.IsActive = p.CurrentHP > 0

		if err := s.repository.UpdateParticipant(ctx, p); err != nil {
			return dnderr.Wrapf(err, "failed to sync vitals for %s", p.Name)
		}
		return nil
	}

	return nil
}

// nextSortOrder returns one past the highest sort order in the roster.
// Removals leave gaps, so len(participants) can collide with a survivor.
func nextSortOrder(participants []*combat.Participant) int {
	next := 0
	for _, p := range participants {
		if p.SortOrder >= next {
			next = p.SortOrder + 1
		}
	}
	return next
}

func monsterDisplayName(name string, index, count int) string {
	if count <= 1 {
		return name
	}
	return fmt.Sprintf("%s %d", name, index+1)
}

func (s *service) getActiveRoster(ctx context.Context, encounterID string) (*combat.Encounter, []*combat.Participant, error) {
	encounter, err := s.repository.GetEncounter(ctx, encounterID)
	if err != nil {
		return nil, nil, err
	}

	if encounter.Status != combat.EncounterStatusActive {
		return nil, nil, dnderr.InvalidState("encounter is not active: " + encounterID)
	}

	participants, err := s.repository.ListParticipants(ctx, encounterID)
	if err != nil {
		return nil, nil, dnderr.Wrap(err, "failed to list participants")
	}

	return encounter, participants, nil
}

func (s *service) getActiveParticipant(ctx context.Context, encounterID, participantID string) (*combat.Encounter, *combat.Participant, error) {
	encounter, participants, err := s.getActiveRoster(ctx, encounterID)
	if err != nil {
		return nil, nil, err
	}

	for _, p := range participants {
		if p.ID == participantID {
			return encounter, p, nil
		}
	}

	return nil, nil, dnderr.NotFoundf("participant not found: %s", participantID)
}
