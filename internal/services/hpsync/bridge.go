// Package hpsync keeps a player's canonical character HP and their live
// encounter participant row consistent in both directions, dropping echoes
// of its own writes via an expiring marker set.
package hpsync

import (
	"context"
	"log"

	"github.com/tavernkeep/companion/internal/repositories/characters"
)

// OriginEncounter tags vitals events produced by the encounter service's
// write-through, so the bridge can tell its own echoes from genuine edits.
const OriginEncounter = "encounter"

// EncounterVitals is the slice of the encounter service the bridge needs:
// projecting an inbound character HP change onto the active roster.
type EncounterVitals interface {
	SyncCharacterVitals(ctx context.Context, campaignID, characterID string, currentHP, temporaryHP int) error
}

// Bridge consumes a campaign's character change feed and patches the active
// encounter's player participants to match. An event is an echo only when it
// carries the encounter write-through origin AND its character is inside the
// suppression window; everything else projects onto the roster, so a player's
// own sheet edit is never lost to a nearby roster write.
type Bridge struct {
	characterRepo characters.Repository
	encounters    EncounterVitals
	markers       *MarkerSet
}

// BridgeConfig holds the dependencies for the sync bridge
type BridgeConfig struct {
	CharacterRepository characters.Repository // Required
	Encounters          EncounterVitals       // Required
	Markers             *MarkerSet            // Required, shared with the encounter service
}

// NewBridge creates a new HP sync bridge
func NewBridge(cfg *BridgeConfig) *Bridge {
	if cfg.CharacterRepository == nil {
		panic("character repository is required")
	}
	if cfg.Encounters == nil {
		panic("encounter service is required")
	}
	if cfg.Markers == nil {
		panic("marker set is required")
	}

	return &Bridge{
		characterRepo: cfg.CharacterRepository,
		encounters:    cfg.Encounters,
		markers:       cfg.Markers,
	}
}

// Run consumes the campaign's vitals feed until ctx is cancelled. A failed
// projection is logged and skipped; the feed itself closing ends the run.
func (b *Bridge) Run(ctx context.Context, campaignID string) error {
	events, err := b.characterRepo.Watch(ctx, campaignID)
	if err != nil {
		return err
	}

	log.Printf("HP sync bridge watching campaign %s", campaignID)

	for event := range events {
		if event.Origin == OriginEncounter && b.markers.IsMarked(event.CharacterID) {
			log.Printf("Dropping echoed vitals event for character %s", event.CharacterID)
			continue
		}

		if err := b.encounters.SyncCharacterVitals(ctx, event.CampaignID, event.CharacterID, event.CurrentHP, event.TemporaryHP); err != nil {
			log.Printf("Failed to sync vitals for character %s: %v", event.CharacterID, err)
		}
	}

	return ctx.Err()
}
