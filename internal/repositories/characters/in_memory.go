package characters

import (
	"context"
	"sync"

	"github.com/tavernkeep/companion/internal/domain/character"
	dnderr "github.com/tavernkeep/companion/internal/errors"
)

type inMemoryRepository struct {
	mu         sync.RWMutex
	characters map[string]*character.Character
	byCampaign map[string][]string

	subMu       sync.Mutex
	subscribers map[string][]chan VitalsEvent // campaignID -> subscriber channels
}

// NewInMemoryRepository creates a new in-memory character repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		characters:  make(map[string]*character.Character),
		byCampaign:  make(map[string][]string),
		subscribers: make(map[string][]chan VitalsEvent),
	}
}

// Create stores a new character
func (r *inMemoryRepository) Create(ctx context.Context, ch *character.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[ch.ID]; exists {
		return dnderr.AlreadyExists("character already exists: " + ch.ID)
	}

	r.characters[ch.ID] = cloneCharacter(ch)
	r.byCampaign[ch.CampaignID] = append(r.byCampaign[ch.CampaignID], ch.ID)

	return nil
}

// Get retrieves a character by ID
func (r *inMemoryRepository) Get(ctx context.Context, id string) (*character.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ch, exists := r.characters[id]
	if !exists {
		return nil, dnderr.NotFoundf("character not found: %s", id)
	}

	return cloneCharacter(ch), nil
}

// GetByCampaign retrieves all characters in a campaign
func (r *inMemoryRepository) GetByCampaign(ctx context.Context, campaignID string) ([]*character.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byCampaign[campaignID]
	out := make([]*character.Character, 0, len(ids))
	for _, id := range ids {
		if ch, exists := r.characters[id]; exists {
			out = append(out, cloneCharacter(ch))
		}
	}

	return out, nil
}

// Update replaces a character record and emits a vitals event
func (r *inMemoryRepository) Update(ctx context.Context, ch *character.Character, origin string) error {
	r.mu.Lock()

	if _, exists := r.characters[ch.ID]; !exists {
		r.mu.Unlock()
		return dnderr.NotFoundf("character not found: %s", ch.ID)
	}

	r.characters[ch.ID] = cloneCharacter(ch)
	r.mu.Unlock()

	r.publish(VitalsEvent{
		CharacterID: ch.ID,
		CampaignID:  ch.CampaignID,
		CurrentHP:   ch.HP.Current,
		TemporaryHP: ch.HP.Temporary,
		Origin:      origin,
	})

	return nil
}

// PatchVitals updates only current/temporary HP and emits a vitals event
func (r *inMemoryRepository) PatchVitals(ctx context.Context, characterID string, currentHP, temporaryHP int, origin string) error {
	r.mu.Lock()

	ch, exists := r.characters[characterID]
	if !exists {
		r.mu.Unlock()
		return dnderr.NotFoundf("character not found: %s", characterID)
	}

	ch.HP.Current = currentHP
	ch.HP.Temporary = temporaryHP
	campaignID := ch.CampaignID
	r.mu.Unlock()

	r.publish(VitalsEvent{
		CharacterID: characterID,
		CampaignID:  campaignID,
		CurrentHP:   currentHP,
		TemporaryHP: temporaryHP,
		Origin:      origin,
	})

	return nil
}

// Delete removes a character
func (r *inMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, exists := r.characters[id]
	if !exists {
		return dnderr.NotFoundf("character not found: %s", id)
	}

	delete(r.characters, id)

	ids := r.byCampaign[ch.CampaignID]
	for i, cid := range ids {
		if cid == id {
			r.byCampaign[ch.CampaignID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}

	return nil
}

// Watch subscribes to vitals events for a campaign
func (r *inMemoryRepository) Watch(ctx context.Context, campaignID string) (<-chan VitalsEvent, error) {
	sub := make(chan VitalsEvent, 16)

	r.subMu.Lock()
	r.subscribers[campaignID] = append(r.subscribers[campaignID], sub)
	r.subMu.Unlock()

	go func() {
		<-ctx.Done()

		r.subMu.Lock()
		subs := r.subscribers[campaignID]
		for i, s := range subs {
			if s == sub {
				r.subscribers[campaignID] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		r.subMu.Unlock()
		close(sub)
	}()

	return sub, nil
}

func (r *inMemoryRepository) publish(event VitalsEvent) {
	r.subMu.Lock()
	defer r.subMu.Unlock()

	for _, sub := range r.subscribers[event.CampaignID] {
		select {
		case sub <- event:
		default:
			// Slow subscriber; drop rather than block the writer
		}
	}
}

func cloneCharacter(ch *character.Character) *character.Character {
	clone := *ch
	clone.Conditions = append([]string(nil), ch.Conditions...)
	if ch.CustomResources != nil {
		clone.CustomResources = make([]character.CustomResource, len(ch.CustomResources))
		copy(clone.CustomResources, ch.CustomResources)
	}
	if ch.SpellSlotsUsed != nil {
		clone.SpellSlotsUsed = make(map[int]int, len(ch.SpellSlotsUsed))
		for k, v := range ch.SpellSlotsUsed {
			clone.SpellSlotsUsed[k] = v
		}
	}
	return &clone
}
