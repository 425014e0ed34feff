package encounter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mockbestiary "github.com/tavernkeep/companion/internal/clients/bestiary/mock"
	mockdice "github.com/tavernkeep/companion/internal/dice/mock"
	"github.com/tavernkeep/companion/internal/domain/game/combat"
	dnderr "github.com/tavernkeep/companion/internal/errors"
	"github.com/tavernkeep/companion/internal/repositories/characters"
	mockencrepo "github.com/tavernkeep/companion/internal/repositories/encounters/mock"
)

// Store failures surface to the caller and abort the operation; nothing is
// retried or rolled back.
func newMockedService(t *testing.T) (*mockencrepo.MockRepository, Service) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mockencrepo.NewMockRepository(ctrl)

	svc := NewService(&ServiceConfig{
		Repository:          repo,
		CharacterRepository: characters.NewInMemoryRepository(),
		Bestiary:            &catalogAdapter{client: mockbestiary.NewMockClient(ctrl)},
		Roller:              mockdice.NewManualMockRoller(),
		UUIDGenerator:       &seqIDGenerator{},
	})

	return repo, svc
}

func TestLaunch_CreateFailureSurfaces(t *testing.T) {
	repo, svc := newMockedService(t)
	ctx := context.Background()

	_, err := svc.AddToPreparation(ctx, "camp-1", &combat.PreparationEntry{
		Name: "Ogre", Type: combat.ParticipantTypeMonster, CurrentHP: 59, MaxHP: 59,
	})
	require.NoError(t, err)

	repo.EXPECT().GetActiveByCampaign(ctx, "camp-1").Return(nil, nil)
	repo.EXPECT().CreateEncounter(ctx, gomock.Any()).Return(dnderr.Unavailable("store offline"))

	_, err = svc.Launch(ctx, "camp-1", "Bridge Ambush")
	require.Error(t, err)
	assert.Equal(t, dnderr.CodeUnavailable, dnderr.GetCode(err))

	// The roster stays intact for a retry
	assert.Len(t, svc.GetPreparation(ctx, "camp-1"), 1)
}

func TestNextTurn_UpdateFailureSurfaces(t *testing.T) {
	repo, svc := newMockedService(t)
	ctx := context.Background()

	enc := combat.NewEncounter("enc-1", "camp-1", "Bridge Ambush")
	repo.EXPECT().GetEncounter(ctx, "enc-1").Return(enc, nil)
	repo.EXPECT().ListParticipants(ctx, "enc-1").Return([]*combat.Participant{
		{ID: "p-1", EncounterID: "enc-1", Name: "Ogre"},
	}, nil)
	repo.EXPECT().UpdateEncounter(ctx, gomock.Any()).Return(dnderr.Unavailable("store offline"))

	_, err := svc.NextTurn(ctx, "enc-1")
	require.Error(t, err)
	assert.Equal(t, dnderr.CodeUnavailable, dnderr.GetCode(err))
}

func TestRemoveParticipant_DeleteFailureSurfaces(t *testing.T) {
	repo, svc := newMockedService(t)
	ctx := context.Background()

	enc := combat.NewEncounter("enc-1", "camp-1", "Bridge Ambush")
	repo.EXPECT().GetEncounter(ctx, "enc-1").Return(enc, nil)
	repo.EXPECT().ListParticipants(ctx, "enc-1").Return([]*combat.Participant{
		{ID: "p-1", EncounterID: "enc-1", Name: "Ogre"},
	}, nil)
	repo.EXPECT().DeleteParticipant(ctx, "enc-1", "p-1").Return(dnderr.Unavailable("store offline"))

	err := svc.RemoveParticipant(ctx, "enc-1", "p-1")
	require.Error(t, err)
	assert.Equal(t, dnderr.CodeUnavailable, dnderr.GetCode(err))
}
