package characters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavernkeep/companion/internal/domain/character"
	dnderr "github.com/tavernkeep/companion/internal/errors"
	"github.com/tavernkeep/companion/internal/testutils"
)

func setupRedisRepo(t *testing.T) Repository {
	t.Helper()

	client := testutils.CreateTestRedisClient(t)
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

func TestRedisRepository_CRUD(t *testing.T) {
	repo := setupRedisRepo(t)
	ctx := context.Background()

	ch := newTestCharacter("char-1", "camp-1")
	ch.SpellSlotsUsed = map[int]int{1: 2}
	ch.CustomResources = []character.CustomResource{
		{ID: "blessing", Name: "Blessing of the Forge", Max: 1, ShortRest: true, LongRest: true},
	}
	require.NoError(t, repo.Create(ctx, ch))

	err := repo.Create(ctx, ch)
	assert.True(t, dnderr.IsAlreadyExists(err))

	got, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, "Theren", got.Name)
	assert.Equal(t, map[int]int{1: 2}, got.SpellSlotsUsed)
	require.Len(t, got.CustomResources, 1)
	assert.Equal(t, "blessing", got.CustomResources[0].ID)

	got.HP.Current = 30
	require.NoError(t, repo.Update(ctx, got, ""))

	updated, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, 30, updated.HP.Current)

	require.NoError(t, repo.Delete(ctx, "char-1"))

	_, err = repo.Get(ctx, "char-1")
	assert.True(t, dnderr.IsNotFound(err))
}

func TestRedisRepository_Update_NotFound(t *testing.T) {
	repo := setupRedisRepo(t)

	err := repo.Update(context.Background(), newTestCharacter("missing", "camp-1"), "")
	assert.True(t, dnderr.IsNotFound(err))
}

func TestRedisRepository_GetByCampaign(t *testing.T) {
	repo := setupRedisRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestCharacter("char-1", "camp-1")))
	require.NoError(t, repo.Create(ctx, newTestCharacter("char-2", "camp-1")))
	require.NoError(t, repo.Create(ctx, newTestCharacter("char-3", "camp-2")))

	chars, err := repo.GetByCampaign(ctx, "camp-1")
	require.NoError(t, err)
	assert.Len(t, chars, 2)

	empty, err := repo.GetByCampaign(ctx, "camp-none")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRedisRepository_PatchVitals(t *testing.T) {
	repo := setupRedisRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestCharacter("char-1", "camp-1")))
	require.NoError(t, repo.PatchVitals(ctx, "char-1", 12, 3, "session-a"))

	got, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, 12, got.HP.Current)
	assert.Equal(t, 3, got.HP.Temporary)

	err = repo.PatchVitals(ctx, "missing", 1, 0, "")
	assert.True(t, dnderr.IsNotFound(err))
}

func TestRedisRepository_Watch_ReceivesVitalsEvents(t *testing.T) {
	repo := setupRedisRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, repo.Create(ctx, newTestCharacter("char-1", "camp-1")))

	events, err := repo.Watch(ctx, "camp-1")
	require.NoError(t, err)

	require.NoError(t, repo.PatchVitals(ctx, "char-1", 19, 2, "session-a"))

	select {
	case event := <-events:
		assert.Equal(t, "char-1", event.CharacterID)
		assert.Equal(t, "camp-1", event.CampaignID)
		assert.Equal(t, 19, event.CurrentHP)
		assert.Equal(t, 2, event.TemporaryHP)
		assert.Equal(t, "session-a", event.Origin)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for vitals event")
	}
}

func TestRedisRepository_Watch_ClosesOnCancel(t *testing.T) {
	repo := setupRedisRepo(t)
	ctx, cancel := context.WithCancel(context.Background())

	events, err := repo.Watch(ctx, "camp-1")
	require.NoError(t, err)

	cancel()

	select {
	case _, open := <-events:
		assert.False(t, open, "channel should be closed after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
