package characters

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/tavernkeep/companion/internal/domain/character"
	dnderr "github.com/tavernkeep/companion/internal/errors"
)

const (
	characterKeyPrefix    = "character:"
	campaignCharactersKey = "campaign:%s:characters"
	vitalsChannelKey      = "campaign:%s:vitals"
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

type redisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed character repository.
// Vitals writes are published on a campaign Pub/Sub channel so other
// sessions can react to them.
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg.Client == nil {
		panic("redis client is required")
	}

	return &redisRepository{
		client: cfg.Client,
	}
}

// Create stores a new character
func (r *redisRepository) Create(ctx context.Context, ch *character.Character) error {
	if ch == nil {
		return dnderr.InvalidArgument("character cannot be nil")
	}
	if ch.ID == "" {
		return dnderr.InvalidArgument("character ID cannot be empty")
	}

	key := characterKeyPrefix + ch.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return dnderr.Wrap(err, "failed to check character existence")
	}
	if exists > 0 {
		return dnderr.AlreadyExists("character already exists: " + ch.ID)
	}

	data, err := json.Marshal(ch)
	if err != nil {
		return dnderr.Wrap(err, "failed to serialize character")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, fmt.Sprintf(campaignCharactersKey, ch.CampaignID), ch.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrap(err, "failed to create character")
	}

	return nil
}

// Get retrieves a character by ID
func (r *redisRepository) Get(ctx context.Context, id string) (*character.Character, error) {
	data, err := r.client.Get(ctx, characterKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, dnderr.NotFoundf("character not found: %s", id)
		}
		return nil, dnderr.Wrap(err, "failed to get character")
	}

	var ch character.Character
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, dnderr.Wrap(err, "failed to deserialize character")
	}

	return &ch, nil
}

// GetByCampaign retrieves all characters in a campaign
func (r *redisRepository) GetByCampaign(ctx context.Context, campaignID string) ([]*character.Character, error) {
	ids, err := r.client.SMembers(ctx, fmt.Sprintf(campaignCharactersKey, campaignID)).Result()
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to get campaign characters")
	}

	if len(ids) == 0 {
		return []*character.Character{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = characterKeyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to get characters")
	}

	characters := make([]*character.Character, 0, len(values))
	for _, val := range values {
		data, ok := val.(string)
		if !ok {
			continue
		}

		var ch character.Character
		if err := json.Unmarshal([]byte(data), &ch); err != nil {
			continue
		}
		characters = append(characters, &ch)
	}

	return characters, nil
}

// Update replaces a character record and emits a vitals event
func (r *redisRepository) Update(ctx context.Context, ch *character.Character, origin string) error {
	if ch == nil {
		return dnderr.InvalidArgument("character cannot be nil")
	}

	key := characterKeyPrefix + ch.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return dnderr.Wrap(err, "failed to check character existence")
	}
	if exists == 0 {
		return dnderr.NotFoundf("character not found: %s", ch.ID)
	}

	data, err := json.Marshal(ch)
	if err != nil {
		return dnderr.Wrap(err, "failed to serialize character")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return dnderr.Wrap(err, "failed to update character")
	}

	r.publish(ctx, VitalsEvent{
		CharacterID: ch.ID,
		CampaignID:  ch.CampaignID,
		CurrentHP:   ch.HP.Current,
		TemporaryHP: ch.HP.Temporary,
		Origin:      origin,
	})

	return nil
}

// PatchVitals updates only current/temporary HP and emits a vitals event
func (r *redisRepository) PatchVitals(ctx context.Context, characterID string, currentHP, temporaryHP int, origin string) error {
	ch, err := r.Get(ctx, characterID)
	if err != nil {
		return err
	}

	ch.HP.Current = currentHP
	ch.HP.Temporary = temporaryHP

	data, err := json.Marshal(ch)
	if err != nil {
		return dnderr.Wrap(err, "failed to serialize character")
	}

	if err := r.client.Set(ctx, characterKeyPrefix+characterID, data, 0).Err(); err != nil {
		return dnderr.Wrap(err, "failed to patch character vitals")
	}

	r.publish(ctx, VitalsEvent{
		CharacterID: characterID,
		CampaignID:  ch.CampaignID,
		CurrentHP:   currentHP,
		TemporaryHP: temporaryHP,
		Origin:      origin,
	})

	return nil
}

// Delete removes a character
func (r *redisRepository) Delete(ctx context.Context, id string) error {
	ch, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, characterKeyPrefix+id)
	pipe.SRem(ctx, fmt.Sprintf(campaignCharactersKey, ch.CampaignID), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrap(err, "failed to delete character")
	}

	return nil
}

// Watch subscribes to vitals events for a campaign via Redis Pub/Sub
func (r *redisRepository) Watch(ctx context.Context, campaignID string) (<-chan VitalsEvent, error) {
	pubsub := r.client.Subscribe(ctx, fmt.Sprintf(vitalsChannelKey, campaignID))

	// Confirm the subscription before handing the channel out
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, dnderr.Wrap(err, "failed to subscribe to vitals channel")
	}

	events := make(chan VitalsEvent, 16)

	go func() {
		defer close(events)
		defer func() {
			if err := pubsub.Close(); err != nil {
				log.Printf("Failed to close vitals subscription: %v", err)
			}
		}()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var event VitalsEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("Dropping malformed vitals event: %v", err)
					continue
				}

				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}

func (r *redisRepository) publish(ctx context.Context, event VitalsEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to serialize vitals event: %v", err)
		return
	}

	// Change-feed delivery is best effort; a failed publish never fails the write
	if err := r.client.Publish(ctx, fmt.Sprintf(vitalsChannelKey, event.CampaignID), payload).Err(); err != nil {
		log.Printf("Failed to publish vitals event for character %s: %v", event.CharacterID, err)
	}
}
