package encounters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavernkeep/companion/internal/domain/game/combat"
	dnderr "github.com/tavernkeep/companion/internal/errors"
	"github.com/tavernkeep/companion/internal/testutils"
)

func setupRedisRepo(t *testing.T) Repository {
	t.Helper()

	client := testutils.CreateTestRedisClient(t)
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

func TestRedisRepository_EncounterCRUD(t *testing.T) {
	repo := setupRedisRepo(t)
	ctx := context.Background()

	enc := combat.NewEncounter("enc-1", "camp-1", "Goblin Ambush")
	require.NoError(t, repo.CreateEncounter(ctx, enc))

	err := repo.CreateEncounter(ctx, enc)
	assert.True(t, dnderr.IsAlreadyExists(err))

	got, err := repo.GetEncounter(ctx, "enc-1")
	require.NoError(t, err)
	assert.Equal(t, "Goblin Ambush", got.Name)
	assert.Equal(t, combat.EncounterStatusActive, got.Status)

	got.Round = 3
	got.Turn = 2
	require.NoError(t, repo.UpdateEncounter(ctx, got))

	updated, err := repo.GetEncounter(ctx, "enc-1")
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Round)
	assert.Equal(t, 2, updated.Turn)

	require.NoError(t, repo.DeleteEncounter(ctx, "enc-1"))

	_, err = repo.GetEncounter(ctx, "enc-1")
	assert.True(t, dnderr.IsNotFound(err))
}

func TestRedisRepository_UpdateEncounter_NotFound(t *testing.T) {
	repo := setupRedisRepo(t)

	err := repo.UpdateEncounter(context.Background(), combat.NewEncounter("missing", "camp-1", "Ghost"))
	assert.True(t, dnderr.IsNotFound(err))
}

func TestRedisRepository_GetByCampaign_NewestFirst(t *testing.T) {
	repo := setupRedisRepo(t)
	ctx := context.Background()

	base := time.Now()

	first := combat.NewEncounter("enc-1", "camp-1", "First")
	first.CreatedAt = base
	second := combat.NewEncounter("enc-2", "camp-1", "Second")
	second.CreatedAt = base.Add(time.Minute)
	other := combat.NewEncounter("enc-3", "camp-2", "Elsewhere")

	require.NoError(t, repo.CreateEncounter(ctx, first))
	require.NoError(t, repo.CreateEncounter(ctx, second))
	require.NoError(t, repo.CreateEncounter(ctx, other))

	encounters, err := repo.GetByCampaign(ctx, "camp-1")
	require.NoError(t, err)
	require.Len(t, encounters, 2)
	assert.Equal(t, "enc-2", encounters[0].ID)
	assert.Equal(t, "enc-1", encounters[1].ID)

	empty, err := repo.GetByCampaign(ctx, "camp-none")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRedisRepository_GetActiveByCampaign(t *testing.T) {
	repo := setupRedisRepo(t)
	ctx := context.Background()

	done := combat.NewEncounter("enc-1", "camp-1", "Old Fight")
	done.End()
	live := combat.NewEncounter("enc-2", "camp-1", "Current Fight")

	require.NoError(t, repo.CreateEncounter(ctx, done))
	require.NoError(t, repo.CreateEncounter(ctx, live))

	active, err := repo.GetActiveByCampaign(ctx, "camp-1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "enc-2", active.ID)

	none, err := repo.GetActiveByCampaign(ctx, "camp-2")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRedisRepository_Participants(t *testing.T) {
	repo := setupRedisRepo(t)
	ctx := context.Background()

	enc := combat.NewEncounter("enc-1", "camp-1", "Skirmish")
	require.NoError(t, repo.CreateEncounter(ctx, enc))

	require.NoError(t, repo.AddParticipants(ctx, []*combat.Participant{
		{ID: "p-2", EncounterID: "enc-1", SortOrder: 1, Name: "Goblin 1", Type: combat.ParticipantTypeMonster, CurrentHP: 7, MaxHP: 7, IsActive: true},
		{ID: "p-1", EncounterID: "enc-1", SortOrder: 0, Name: "Theren", Type: combat.ParticipantTypePlayer, CurrentHP: 24, MaxHP: 24, IsActive: true},
	}))

	listed, err := repo.ListParticipants(ctx, "enc-1")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Theren", listed[0].Name)
	assert.Equal(t, "Goblin 1", listed[1].Name)

	listed[1].CurrentHP = 3
	listed[1].Conditions = []string{"poisoned"}
	require.NoError(t, repo.UpdateParticipant(ctx, listed[1]))

	listed, err = repo.ListParticipants(ctx, "enc-1")
	require.NoError(t, err)
	assert.Equal(t, 3, listed[1].CurrentHP)
	assert.Equal(t, []string{"poisoned"}, listed[1].Conditions)

	require.NoError(t, repo.DeleteParticipant(ctx, "enc-1", "p-1"))

	listed, err = repo.ListParticipants(ctx, "enc-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "p-2", listed[0].ID)
}

func TestRedisRepository_AddParticipants_Validation(t *testing.T) {
	repo := setupRedisRepo(t)

	err := repo.AddParticipants(context.Background(), []*combat.Participant{
		{ID: "", EncounterID: "enc-1", Name: "Nameless"},
	})
	assert.True(t, dnderr.IsInvalidArgument(err))
}

func TestRedisRepository_DeleteEncounter_RemovesParticipants(t *testing.T) {
	repo := setupRedisRepo(t)
	ctx := context.Background()

	enc := combat.NewEncounter("enc-1", "camp-1", "Skirmish")
	require.NoError(t, repo.CreateEncounter(ctx, enc))
	require.NoError(t, repo.AddParticipants(ctx, []*combat.Participant{
		{ID: "p-1", EncounterID: "enc-1", Name: "Goblin 1"},
	}))

	require.NoError(t, repo.DeleteEncounter(ctx, "enc-1"))

	listed, err := repo.ListParticipants(ctx, "enc-1")
	require.NoError(t, err)
	assert.Empty(t, listed)

	encounters, err := repo.GetByCampaign(ctx, "camp-1")
	require.NoError(t, err)
	assert.Empty(t, encounters)
}
