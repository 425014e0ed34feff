package hpsync_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavernkeep/companion/internal/clients/bestiary"
	"github.com/tavernkeep/companion/internal/dice"
	"github.com/tavernkeep/companion/internal/domain/character"
	"github.com/tavernkeep/companion/internal/domain/game/combat"
	dnderr "github.com/tavernkeep/companion/internal/errors"
	"github.com/tavernkeep/companion/internal/repositories/characters"
	"github.com/tavernkeep/companion/internal/repositories/encounters"
	"github.com/tavernkeep/companion/internal/services/encounter"
	"github.com/tavernkeep/companion/internal/services/hpsync"
	"github.com/tavernkeep/companion/internal/uuid"
)

type nullCatalog struct{}

func (nullCatalog) GetMonster(ctx context.Context, key string) (*bestiary.StatBlock, error) {
	return nil, dnderr.NotFoundf("monster not found: %s", key)
}

// Full round trip: a GM heal lands on the roster and the character record,
// its echo on the change feed is suppressed, and a later edit by the player
// flows back onto the roster.
func TestBridge_EndToEndEchoSuppression(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	characterRepo := characters.NewInMemoryRepository()
	encounterRepo := encounters.NewInMemoryRepository()
	markers := hpsync.NewMarkerSet(nil, 2*time.Second)

	encounterSvc := encounter.NewService(&encounter.ServiceConfig{
		Repository:          encounterRepo,
		CharacterRepository: characterRepo,
		Bestiary:            nullCatalog{},
		Roller:              dice.NewRandomRoller(),
		UUIDGenerator:       uuid.NewGoogleUUIDGenerator(),
		Markers:             markers,
	})

	bridge := hpsync.NewBridge(&hpsync.BridgeConfig{
		CharacterRepository: characterRepo,
		Encounters:          encounterSvc,
		Markers:             markers,
	})

	require.NoError(t, characterRepo.Create(ctx, &character.Character{
		ID:         "char-1",
		CampaignID: "camp-1",
		Name:       "Theren",
		ArmorClass: 16,
		HP:         character.HPResource{Current: 10, Max: 24},
	}))

	_, err := encounterSvc.AddToPreparation(ctx, "camp-1", &combat.PreparationEntry{
		Name:        "Theren",
		Type:        combat.ParticipantTypePlayer,
		CharacterID: "char-1",
		CurrentHP:   10,
		MaxHP:       24,
		AC:          16,
		Initiative:  12,
	})
	require.NoError(t, err)

	enc, err := encounterSvc.Launch(ctx, "camp-1", "Bridge Ambush")
	require.NoError(t, err)

	go func() { _ = bridge.Run(ctx, "camp-1") }()
	time.Sleep(20 * time.Millisecond)

	participants, err := encounterSvc.ListParticipants(ctx, enc.ID)
	require.NoError(t, err)

	// GM heals +5: roster and character record both land on 15, and the
	// echoed change-feed event must not be reprocessed
	_, err = encounterSvc.ApplyHPDelta(ctx, enc.ID, participants[0].ID, 5, encounter.HPDeltaHeal)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	participants, err = encounterSvc.ListParticipants(ctx, enc.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, participants[0].CurrentHP)

	ch, err := characterRepo.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, 15, ch.HP.Current)

	// The player then edits their own sheet; no marker, so it projects in
	require.NoError(t, characterRepo.PatchVitals(ctx, "char-1", 20, 3, "character"))

	require.Eventually(t, func() bool {
		participants, err := encounterSvc.ListParticipants(ctx, enc.ID)
		if err != nil || len(participants) == 0 {
			return false
		}
		return participants[0].CurrentHP == 20 && participants[0].TempHP == 3
	}, time.Second, 10*time.Millisecond)
}
