package encounter

import (
	"context"
	"log"

	"github.com/tavernkeep/companion/internal/domain/game/combat"
	dnderr "github.com/tavernkeep/companion/internal/errors"
)

// AddToPreparation appends an entry to a campaign's preparation roster
func (s *service) AddToPreparation(ctx context.Context, campaignID string, entry *combat.PreparationEntry) (*combat.PreparationEntry, error) {
	if campaignID == "" {
		return nil, dnderr.InvalidArgument("campaign ID is required")
	}
	if entry == nil {
		return nil, dnderr.InvalidArgument("entry cannot be nil")
	}
	if entry.Name == "" {
		return nil, dnderr.InvalidArgument("entry name is required")
	}

	if entry.ID == "" {
		entry.ID = s.uuidGenerator.New()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.preparation[campaignID] = append(s.preparation[campaignID], entry)
	return entry, nil
}

// RemoveFromPreparation removes one entry from the preparation roster
func (s *service) RemoveFromPreparation(ctx context.Context, campaignID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.preparation[campaignID]
	for i, entry := range entries {
		if entry.ID == entryID {
			s.preparation[campaignID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}

	return dnderr.NotFoundf("preparation entry not found: %s", entryID)
}

// GetPreparation returns a copy of the campaign's current preparation roster
func (s *service) GetPreparation(ctx context.Context, campaignID string) []*combat.PreparationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.preparation[campaignID]
	out := make([]*combat.PreparationEntry, len(entries))
	for i, entry := range entries {
		clone := *entry
		out[i] = &clone
	}
	return out
}

// RollAllMonsterInitiative rolls a d20 for every monster that has not rolled
// yet. If the campaign has an active encounter the live roster is rolled and
// persisted; otherwise the preparation roster is rolled in place.
func (s *service) RollAllMonsterInitiative(ctx context.Context, campaignID string) error {
	active, err := s.repository.GetActiveByCampaign(ctx, campaignID)
	if err != nil {
		return dnderr.Wrap(err, "failed to look up active encounter")
	}

	if active != nil {
		participants, err := s.repository.ListParticipants(ctx, active.ID)
		if err != nil {
			return dnderr.Wrap(err, "failed to list participants")
		}

		unrolled := make([]*combat.Participant, 0)
		for _, p := range participants {
			if p.Type == combat.ParticipantTypeMonster && p.Initiative == 0 {
				unrolled = append(unrolled, p)
			}
		}

		if err := combat.RollParticipantInitiative(unrolled, s.roller); err != nil {
			return dnderr.Wrap(err, "failed to roll initiative")
		}

		for _, p := range unrolled {
			if err := s.repository.UpdateParticipant(ctx, p); err != nil {
				return dnderr.Wrapf(err, "failed to save initiative for %s", p.Name)
			}
		}
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return combat.RollPreparationInitiative(s.preparation[campaignID], s.roller)
}

// Launch materializes the preparation roster into a live encounter: entries
// are stably sorted by descending initiative and written as participant rows
// in one bulk insert, and the roster clears on success.
func (s *service) Launch(ctx context.Context, campaignID, name string) (*combat.Encounter, error) {
	return s.materialize(ctx, campaignID, name, false)
}

// SaveForLater materializes the roster exactly like Launch, but the encounter
// is created already completed and flagged saved, so it never runs a turn
// loop until it is reloaded.
func (s *service) SaveForLater(ctx context.Context, campaignID, name string) (*combat.Encounter, error) {
	return s.materialize(ctx, campaignID, name, true)
}

func (s *service) materialize(ctx context.Context, campaignID, name string, saved bool) (*combat.Encounter, error) {
	if campaignID == "" {
		return nil, dnderr.InvalidArgument("campaign ID is required")
	}
	if name == "" {
		return nil, dnderr.InvalidArgument("encounter name is required")
	}

	s.mu.Lock()
	entries := s.preparation[campaignID]
	s.mu.Unlock()

	if len(entries) == 0 {
		return nil, dnderr.InvalidState("preparation roster is empty")
	}

	if !saved {
		active, err := s.repository.GetActiveByCampaign(ctx, campaignID)
		if err != nil {
			return nil, dnderr.Wrap(err, "failed to look up active encounter")
		}
		if active != nil {
			return nil, dnderr.InvalidState("campaign already has an active encounter: " + active.Name)
		}
	}

	ordered := make([]*combat.PreparationEntry, len(entries))
	copy(ordered, entries)
	combat.SortPreparationByInitiative(ordered)

	encounter := combat.NewEncounter(s.uuidGenerator.New(), campaignID, name)
	if saved {
		encounter.End()
		encounter.Saved = true
	}

	if err := s.repository.CreateEncounter(ctx, encounter); err != nil {
		return nil, dnderr.Wrap(err, "failed to create encounter")
	}

	participants := make([]*combat.Participant, len(ordered))
	for i, entry := range ordered {
		participants[i] = &combat.Participant{
			ID:          s.uuidGenerator.New(),
			EncounterID: encounter.ID,
			SortOrder:   i,
			Type:        entry.Type,
			Name:        entry.Name,
			CharacterID: entry.CharacterID,
			MonsterKey:  entry.MonsterKey,
			Initiative:  entry.Initiative,
			CurrentHP:   entry.CurrentHP,
			MaxHP:       entry.MaxHP,
			TempHP:      entry.TempHP,
			AC:          entry.AC,
			IsActive:    entry.CurrentHP > 0,
		}
	}

	if err := s.repository.AddParticipants(ctx, participants); err != nil {
		return nil, dnderr.Wrap(err, "failed to add participants")
	}

	s.mu.Lock()
	delete(s.preparation, campaignID)
	s.mu.Unlock()

	log.Printf("Encounter %s (%s) created with %d participants", encounter.Name, encounter.ID, len(participants))
	return encounter, nil
}

// LoadSavedEncounter rehydrates a saved encounter's participants into the
// campaign's preparation roster, replacing whatever was there, so the fight
// can be edited and launched again.
func (s *service) LoadSavedEncounter(ctx context.Context, encounterID string) ([]*combat.PreparationEntry, error) {
	encounter, err := s.repository.GetEncounter(ctx, encounterID)
	if err != nil {
		return nil, err
	}

	if encounter.Status != combat.EncounterStatusCompleted || !encounter.Saved {
		return nil, dnderr.InvalidState("encounter is not saved for reload: " + encounterID)
	}

	participants, err := s.repository.ListParticipants(ctx, encounterID)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list participants")
	}

	entries := make([]*combat.PreparationEntry, len(participants))
	for i, p := range participants {
		entries[i] = &combat.PreparationEntry{
			ID:          s.uuidGenerator.New(),
			Name:        p.Name,
			Type:        p.Type,
			CharacterID: p.CharacterID,
			MonsterKey:  p.MonsterKey,
			MaxHP:       p.MaxHP,
			CurrentHP:   p.CurrentHP,
			TempHP:      p.TempHP,
			AC:          p.AC,
			Initiative:  p.Initiative,
		}
	}

	s.mu.Lock()
	s.preparation[encounter.CampaignID] = entries
	s.mu.Unlock()

	return entries, nil
}

// NextTurn advances the turn pointer. Round and turn are written in a single
// update so no reader observes a torn pair. With an empty roster this is a
// no-op rather than an error.
func (s *service) NextTurn(ctx context.Context, encounterID string) (*combat.Encounter, error) {
	encounter, err := s.repository.GetEncounter(ctx, encounterID)
	if err != nil {
		return nil, err
	}

	if encounter.Status != combat.EncounterStatusActive {
		return nil, dnderr.InvalidState("encounter is not active: " + encounterID)
	}

	participants, err := s.repository.ListParticipants(ctx, encounterID)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list participants")
	}

	if len(participants) == 0 {
		return encounter, nil
	}

	encounter.AdvanceTurn(len(participants))

	if err := s.repository.UpdateEncounter(ctx, encounter); err != nil {
		return nil, dnderr.Wrap(err, "failed to advance turn")
	}

	return encounter, nil
}

// SortByInitiativeNow re-sorts the live roster by current initiative and
// restarts the round at the top of the new order. Keeping the turn pointer on
// the same combatant across a reorder is deliberately not attempted.
func (s *service) SortByInitiativeNow(ctx context.Context, encounterID string) ([]*combat.Participant, error) {
	encounter, err := s.repository.GetEncounter(ctx, encounterID)
	if err != nil {
		return nil, err
	}

	if encounter.Status != combat.EncounterStatusActive {
		return nil, dnderr.InvalidState("encounter is not active: " + encounterID)
	}

	participants, err := s.repository.ListParticipants(ctx, encounterID)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list participants")
	}

	combat.SortParticipantsByInitiative(participants)

	for i, p := range participants {
		if p.SortOrder == i {
			continue
		}
		p.SortOrder = i
		if err := s.repository.UpdateParticipant(ctx, p); err != nil {
			return nil, dnderr.Wrapf(err, "failed to reorder %s", p.Name)
		}
	}

	encounter.Turn = 0
	if err := s.repository.UpdateEncounter(ctx, encounter); err != nil {
		return nil, dnderr.Wrap(err, "failed to reset turn pointer")
	}

	return participants, nil
}

// EndCombat completes the encounter and reseeds the preparation roster from
// the campaign's character roster so the next fight can be set up immediately.
func (s *service) EndCombat(ctx context.Context, encounterID string) error {
	encounter, err := s.repository.GetEncounter(ctx, encounterID)
	if err != nil {
		return err
	}

	if encounter.Status != combat.EncounterStatusActive {
		return dnderr.InvalidState("encounter is not active: " + encounterID)
	}

	encounter.End()
	if err := s.repository.UpdateEncounter(ctx, encounter); err != nil {
		return dnderr.Wrap(err, "failed to end encounter")
	}

	chars, err := s.characterRepo.GetByCampaign(ctx, encounter.CampaignID)
	if err != nil {
		// The fight is over either way; an empty roster just means manual prep
		log.Printf("Failed to reseed preparation for campaign %s: %v", encounter.CampaignID, err)
		chars = nil
	}

	entries := make([]*combat.PreparationEntry, 0, len(chars))
	for _, ch := range chars {
		entries = append(entries, &combat.PreparationEntry{
			ID:          s.uuidGenerator.New(),
			Name:        ch.Name,
			Type:        combat.ParticipantTypePlayer,
			CharacterID: ch.ID,
			MaxHP:       ch.HP.Max,
			CurrentHP:   ch.HP.Current,
			TempHP:      ch.HP.Temporary,
			AC:          ch.ArmorClass,
		})
	}

	s.mu.Lock()
	s.preparation[encounter.CampaignID] = entries
	s.mu.Unlock()

	log.Printf("Encounter %s ended after %d rounds", encounter.Name, encounter.Round)
	return nil
}

// DeleteEncounter purges an encounter and all of its participants
func (s *service) DeleteEncounter(ctx context.Context, encounterID string) error {
	if err := s.repository.DeleteEncounter(ctx, encounterID); err != nil {
		return err
	}

	log.Printf("Encounter %s deleted", encounterID)
	return nil
}
