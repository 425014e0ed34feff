package characters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavernkeep/companion/internal/domain/character"
	dnderr "github.com/tavernkeep/companion/internal/errors"
)

func newTestCharacter(id, campaignID string) *character.Character {
	return &character.Character{
		ID:         id,
		CampaignID: campaignID,
		OwnerID:    "user-1",
		Name:       "Theren",
		Class:      "cleric",
		Level:      5,
		ArmorClass: 16,
		HP: character.HPResource{
			Current: 24,
			Max:     33,
		},
	}
}

func TestInMemoryRepository_CRUD(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	ch := newTestCharacter("char-1", "camp-1")
	require.NoError(t, repo.Create(ctx, ch))

	err := repo.Create(ctx, ch)
	assert.True(t, dnderr.IsAlreadyExists(err))

	got, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, "Theren", got.Name)

	// Returned copy must not alias the stored record
	got.HP.Current = 1
	again, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, 24, again.HP.Current)

	require.NoError(t, repo.Delete(ctx, "char-1"))

	_, err = repo.Get(ctx, "char-1")
	assert.True(t, dnderr.IsNotFound(err))
}

func TestInMemoryRepository_GetByCampaign(t *testing.T) {
	repo := NewInMemoryRepository()
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

func TestInMemoryRepository_Watch_ReceivesVitalsEvents(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, repo.Create(ctx, newTestCharacter("char-1", "camp-1")))

	events, err := repo.Watch(ctx, "camp-1")
	require.NoError(t, err)

	require.NoError(t, repo.PatchVitals(ctx, "char-1", 19, 0, "session-a"))

	select {
	case event := <-events:
		assert.Equal(t, "char-1", event.CharacterID)
		assert.Equal(t, "camp-1", event.CampaignID)
		assert.Equal(t, 19, event.CurrentHP)
		assert.Equal(t, 0, event.TemporaryHP)
		assert.Equal(t, "session-a", event.Origin)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for vitals event")
	}
}

func TestInMemoryRepository_Watch_UpdateEmitsEvent(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := newTestCharacter("char-1", "camp-1")
	require.NoError(t, repo.Create(ctx, ch))

	events, err := repo.Watch(ctx, "camp-1")
	require.NoError(t, err)

	ch.HP.Current = 30
	ch.HP.Temporary = 5
	require.NoError(t, repo.Update(ctx, ch, "rest"))

	select {
	case event := <-events:
		assert.Equal(t, 30, event.CurrentHP)
		assert.Equal(t, 5, event.TemporaryHP)
		assert.Equal(t, "rest", event.Origin)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for vitals event")
	}
}

func TestInMemoryRepository_Watch_IgnoresOtherCampaigns(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, repo.Create(ctx, newTestCharacter("char-1", "camp-1")))

	events, err := repo.Watch(ctx, "camp-2")
	require.NoError(t, err)

	require.NoError(t, repo.PatchVitals(ctx, "char-1", 10, 0, ""))

	select {
	case event := <-events:
		t.Fatalf("unexpected event for other campaign: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestInMemoryRepository_Watch_ClosesOnCancel(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())

	events, err := repo.Watch(ctx, "camp-1")
	require.NoError(t, err)

	cancel()

	select {
	case _, open := <-events:
		assert.False(t, open, "channel should be closed after cancel")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
