package encounters

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/tavernkeep/companion/internal/domain/game/combat"
	dnderr "github.com/tavernkeep/companion/internal/errors"
)

const (
	encounterKeyPrefix    = "encounter:"
	participantKeyPrefix  = "participant:"
	campaignEncountersKey = "campaign:%s:encounters"
	encounterMembersKey   = "encounter:%s:participants"
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

type redisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed encounter repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg.Client == nil {
		panic("redis client is required")
	}

	return &redisRepository{
		client: cfg.Client,
	}
}

// CreateEncounter stores a new encounter
func (r *redisRepository) CreateEncounter(ctx context.Context, encounter *combat.Encounter) error {
	if encounter == nil {
		return dnderr.InvalidArgument("encounter cannot be nil")
	}
	if encounter.ID == "" {
		return dnderr.InvalidArgument("encounter ID cannot be empty")
	}

	key := encounterKeyPrefix + encounter.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return dnderr.Wrap(err, "failed to check encounter existence")
	}
	if exists > 0 {
		return dnderr.AlreadyExists("encounter already exists: " + encounter.ID)
	}

	data, err := json.Marshal(encounter)
	if err != nil {
		return dnderr.Wrap(err, "failed to serialize encounter")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, fmt.Sprintf(campaignEncountersKey, encounter.CampaignID), encounter.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrap(err, "failed to create encounter")
	}

	return nil
}

// GetEncounter retrieves an encounter by ID
func (r *redisRepository) GetEncounter(ctx context.Context, id string) (*combat.Encounter, error) {
	data, err := r.client.Get(ctx, encounterKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, dnderr.NotFoundf("encounter not found: %s", id)
		}
		return nil, dnderr.Wrap(err, "failed to get encounter")
	}

	var encounter combat.Encounter
	if err := json.Unmarshal(data, &encounter); err != nil {
		return nil, dnderr.Wrap(err, "failed to deserialize encounter")
	}

	return &encounter, nil
}

// UpdateEncounter modifies an existing encounter
func (r *redisRepository) UpdateEncounter(ctx context.Context, encounter *combat.Encounter) error {
	if encounter == nil {
		return dnderr.InvalidArgument("encounter cannot be nil")
	}

	key := encounterKeyPrefix + encounter.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return dnderr.Wrap(err, "failed to check encounter existence")
	}
	if exists == 0 {
		return dnderr.NotFoundf("encounter not found: %s", encounter.ID)
	}

	data, err := json.Marshal(encounter)
	if err != nil {
		return dnderr.Wrap(err, "failed to serialize encounter")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return dnderr.Wrap(err, "failed to update encounter")
	}

	return nil
}

// DeleteEncounter removes an encounter and all of its participants
func (r *redisRepository) DeleteEncounter(ctx context.Context, id string) error {
	encounter, err := r.GetEncounter(ctx, id)
	if err != nil {
		return err
	}

	memberIDs, err := r.client.SMembers(ctx, fmt.Sprintf(encounterMembersKey, id)).Result()
	if err != nil {
		return dnderr.Wrap(err, "failed to list encounter participants")
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, encounterKeyPrefix+id)
	pipe.Del(ctx, fmt.Sprintf(encounterMembersKey, id))
	for _, pid := range memberIDs {
		pipe.Del(ctx, participantKeyPrefix+pid)
	}
	pipe.SRem(ctx, fmt.Sprintf(campaignEncountersKey, encounter.CampaignID), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrap(err, "failed to delete encounter")
	}

	return nil
}

// GetByCampaign retrieves all encounters for a campaign
func (r *redisRepository) GetByCampaign(ctx context.Context, campaignID string) ([]*combat.Encounter, error) {
	encounterIDs, err := r.client.SMembers(ctx, fmt.Sprintf(campaignEncountersKey, campaignID)).Result()
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to get campaign encounters")
	}

	if len(encounterIDs) == 0 {
		return []*combat.Encounter{}, nil
	}

	keys := make([]string, len(encounterIDs))
	for i, id := range encounterIDs {
		keys[i] = encounterKeyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to get encounters")
	}

	encounters := make([]*combat.Encounter, 0, len(values))
	for _, val := range values {
		data, ok := val.(string)
		if !ok {
			// Deleted since the index read; skip
			continue
		}

		var encounter combat.Encounter
		if err := json.Unmarshal([]byte(data), &encounter); err != nil {
			continue
		}
		encounters = append(encounters, &encounter)
	}

	// Newest first for list views
	sort.Slice(encounters, func(i, j int) bool {
		return encounters[i].CreatedAt.After(encounters[j].CreatedAt)
	})

	return encounters, nil
}

// GetActiveByCampaign retrieves the active encounter for a campaign
func (r *redisRepository) GetActiveByCampaign(ctx context.Context, campaignID string) (*combat.Encounter, error) {
	encounters, err := r.GetByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	for _, encounter := range encounters {
		if encounter.Status == combat.EncounterStatusActive {
			return encounter, nil
		}
	}

	return nil, nil
}

// AddParticipants stores participants for an encounter in one bulk insert
func (r *redisRepository) AddParticipants(ctx context.Context, participants []*combat.Participant) error {
	if len(participants) == 0 {
		return nil
	}

	pipe := r.client.TxPipeline()
	for _, p := range participants {
		if p.ID == "" || p.EncounterID == "" {
			return dnderr.InvalidArgument("participant ID and encounter ID are required")
		}

		data, err := json.Marshal(p)
		if err != nil {
			return dnderr.Wrap(err, "failed to serialize participant")
		}

		pipe.Set(ctx, participantKeyPrefix+p.ID, data, 0)
		pipe.SAdd(ctx, fmt.Sprintf(encounterMembersKey, p.EncounterID), p.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrap(err, "failed to add participants")
	}

	return nil
}

// UpdateParticipant modifies a single participant row
func (r *redisRepository) UpdateParticipant(ctx context.Context, participant *combat.Participant) error {
	if participant == nil {
		return dnderr.InvalidArgument("participant cannot be nil")
	}

	key := participantKeyPrefix + participant.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return dnderr.Wrap(err, "failed to check participant existence")
	}
	if exists == 0 {
		return dnderr.NotFoundf("participant not found: %s", participant.ID)
	}

	data, err := json.Marshal(participant)
	if err != nil {
		return dnderr.Wrap(err, "failed to serialize participant")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return dnderr.Wrap(err, "failed to update participant")
	}

	return nil
}

// DeleteParticipant removes a single participant row
func (r *redisRepository) DeleteParticipant(ctx context.Context, encounterID, participantID string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, participantKeyPrefix+participantID)
	pipe.SRem(ctx, fmt.Sprintf(encounterMembersKey, encounterID), participantID)

	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrap(err, "failed to delete participant")
	}

	return nil
}

// ListParticipants retrieves an encounter's participants ordered by sort order
func (r *redisRepository) ListParticipants(ctx context.Context, encounterID string) ([]*combat.Participant, error) {
	memberIDs, err := r.client.SMembers(ctx, fmt.Sprintf(encounterMembersKey, encounterID)).Result()
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list encounter participants")
	}

	if len(memberIDs) == 0 {
		return []*combat.Participant{}, nil
	}

	keys := make([]string, len(memberIDs))
	for i, id := range memberIDs {
		keys[i] = participantKeyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to get participants")
	}

	participants := make([]*combat.Participant, 0, len(values))
	for _, val := range values {
		data, ok := val.(string)
		if !ok {
			continue
		}

		var p combat.Participant
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			continue
		}
		participants = append(participants, &p)
	}

	sort.Slice(participants, func(i, j int) bool {
		if participants[i].SortOrder != participants[j].SortOrder {
			return participants[i].SortOrder < participants[j].SortOrder
		}
		return participants[i].ID < participants[j].ID
	})

	return participants, nil
}
