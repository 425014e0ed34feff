package encounters

import (
	"context"
	"sort"
	"sync"

	dnderr "github.com/tavernkeep/companion/internal/errors"

	"github.com/tavernkeep/companion/internal/domain/game/combat"
)

type inMemoryRepository struct {
	mu           sync.RWMutex
	encounters   map[string]*combat.Encounter
	participants map[string]map[string]*combat.Participant // encounterID -> participantID -> participant
	byCampaign   map[string][]string                       // campaignID -> encounter IDs
}

// NewInMemoryRepository creates a new in-memory encounter repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		encounters:   make(map[string]*combat.Encounter),
		participants: make(map[string]map[string]*combat.Participant),
		byCampaign:   make(map[string][]string),
	}
}

// CreateEncounter stores a new encounter
func (r *inMemoryRepository) CreateEncounter(ctx context.Context, encounter *combat.Encounter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encounters[encounter.ID]; exists {
		return dnderr.AlreadyExists("encounter already exists: " + encounter.ID)
	}

	r.encounters[encounter.ID] = cloneEncounter(encounter)
	r.participants[encounter.ID] = make(map[string]*combat.Participant)
	r.byCampaign[encounter.CampaignID] = append(r.byCampaign[encounter.CampaignID], encounter.ID)

	return nil
}

// GetEncounter retrieves an encounter by ID
func (r *inMemoryRepository) GetEncounter(ctx context.Context, id string) (*combat.Encounter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	encounter, exists := r.encounters[id]
	if !exists {
		return nil, dnderr.NotFoundf("encounter not found: %s", id)
	}

	return cloneEncounter(encounter), nil
}

// UpdateEncounter modifies an existing encounter
func (r *inMemoryRepository) UpdateEncounter(ctx context.Context, encounter *combat.Encounter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encounters[encounter.ID]; !exists {
		return dnderr.NotFoundf("encounter not found: %s", encounter.ID)
	}

	r.encounters[encounter.ID] = cloneEncounter(encounter)
	return nil
}

// DeleteEncounter removes an encounter and all of its participants
func (r *inMemoryRepository) DeleteEncounter(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	encounter, exists := r.encounters[id]
	if !exists {
		return dnderr.NotFoundf("encounter not found: %s", id)
	}

	delete(r.encounters, id)
	delete(r.participants, id)

	campaignEncounters := r.byCampaign[encounter.CampaignID]
	for i, eid := range campaignEncounters {
		if eid == id {
			r.byCampaign[encounter.CampaignID] = append(campaignEncounters[:i], campaignEncounters[i+1:]...)
			break
		}
	}

	return nil
}

// GetByCampaign retrieves all encounters for a campaign
func (r *inMemoryRepository) GetByCampaign(ctx context.Context, campaignID string) ([]*combat.Encounter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	encounterIDs := r.byCampaign[campaignID]
	encounters := make([]*combat.Encounter, 0, len(encounterIDs))

	for _, id := range encounterIDs {
		if encounter, exists := r.encounters[id]; exists {
			encounters = append(encounters, cloneEncounter(encounter))
		}
	}

	// Newest first for list views
	sort.Slice(encounters, func(i, j int) bool {
		return encounters[i].CreatedAt.After(encounters[j].CreatedAt)
	})

	return encounters, nil
}

// GetActiveByCampaign retrieves the active encounter for a campaign
func (r *inMemoryRepository) GetActiveByCampaign(ctx context.Context, campaignID string) (*combat.Encounter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.byCampaign[campaignID] {
		if encounter, exists := r.encounters[id]; exists {
			if encounter.Status == combat.EncounterStatusActive {
				return cloneEncounter(encounter), nil
			}
		}
	}

	return nil, nil
}

// AddParticipants stores participants for an encounter in one bulk insert
func (r *inMemoryRepository) AddParticipants(ctx context.Context, participants []*combat.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range participants {
		byID, exists := r.participants[p.EncounterID]
		if !exists {
			return dnderr.NotFoundf("encounter not found: %s", p.EncounterID)
		}
		byID[p.ID] = cloneParticipant(p)
	}

	return nil
}

// UpdateParticipant modifies a single participant row
func (r *inMemoryRepository) UpdateParticipant(ctx context.Context, participant *combat.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byID, exists := r.participants[participant.EncounterID]
	if !exists {
		return dnderr.NotFoundf("encounter not found: %s", participant.EncounterID)
	}
	if _, exists := byID[participant.ID]; !exists {
		return dnderr.NotFoundf("participant not found: %s", participant.ID)
	}

	byID[participant.ID] = cloneParticipant(participant)
	return nil
}

// DeleteParticipant removes a single participant row
func (r *inMemoryRepository) DeleteParticipant(ctx context.Context, encounterID, participantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byID, exists := r.participants[encounterID]
	if !exists {
		return dnderr.NotFoundf("encounter not found: %s", encounterID)
	}
	if _, exists := byID[participantID]; !exists {
		return dnderr.NotFoundf("participant not found: %s", participantID)
	}

	delete(byID, participantID)
	return nil
}

// ListParticipants retrieves an encounter's participants ordered by sort order
func (r *inMemoryRepository) ListParticipants(ctx context.Context, encounterID string) ([]*combat.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byID := r.participants[encounterID]

	participants := make([]*combat.Participant, 0, len(byID))
	for _, p := range byID {
		participants = append(participants, cloneParticipant(p))
	}

	sort.Slice(participants, func(i, j int) bool {
		if participants[i].SortOrder != participants[j].SortOrder {
			return participants[i].SortOrder < participants[j].SortOrder
		}
		return participants[i].ID < participants[j].ID
	})

	return participants, nil
}

func cloneEncounter(e *combat.Encounter) *combat.Encounter {
	clone := *e
	clone.CombatLog = append([]string(nil), e.CombatLog...)
	return &clone
}

func cloneParticipant(p *combat.Participant) *combat.Participant {
	clone := *p
	clone.Conditions = append([]string(nil), p.Conditions...)
	return &clone
}
