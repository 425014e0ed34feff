package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mockdice "github.com/tavernkeep/companion/internal/dice/mock"
	"github.com/tavernkeep/companion/internal/domain/game/combat"
)

func TestRollPreparationInitiative_MonstersOnly(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{14, 7})

	entries := []*combat.PreparationEntry{
		{Name: "Aria", Type: combat.ParticipantTypePlayer, Initiative: 0},
		{Name: "Goblin 1", Type: combat.ParticipantTypeMonster, Initiative: 0},
		{Name: "Goblin 2", Type: combat.ParticipantTypeMonster, Initiative: 0},
		{Name: "Ogre", Type: combat.ParticipantTypeMonster, Initiative: 12},
	}

	require.NoError(t, combat.RollPreparationInitiative(entries, roller))

	// Player left untouched, already-rolled monster left untouched
	assert.Equal(t, 0, entries[0].Initiative)
	assert.Equal(t, 14, entries[1].Initiative)
	assert.Equal(t, 7, entries[2].Initiative)
	assert.Equal(t, 12, entries[3].Initiative)
}

func TestSortPreparationByInitiative_StableDescending(t *testing.T) {
	entries := []*combat.PreparationEntry{
		{Name: "A", Initiative: 15},
		{Name: "B", Initiative: 15},
		{Name: "C", Initiative: 20},
	}

	combat.SortPreparationByInitiative(entries)

	// C first; A before B on the tie
	assert.Equal(t, "C", entries[0].Name)
	assert.Equal(t, "A", entries[1].Name)
	assert.Equal(t, "B", entries[2].Name)
}

func TestSortPreparationByInitiative_Idempotent(t *testing.T) {
	entries := []*combat.PreparationEntry{
		{Name: "C", Initiative: 20},
		{Name: "A", Initiative: 15},
		{Name: "B", Initiative: 15},
	}

	combat.SortPreparationByInitiative(entries)
	first := []string{entries[0].Name, entries[1].Name, entries[2].Name}

	combat.SortPreparationByInitiative(entries)
	second := []string{entries[0].Name, entries[1].Name, entries[2].Name}

	assert.Equal(t, first, second)
}

func TestSortPreparationByInitiative_Empty(t *testing.T) {
	var entries []*combat.PreparationEntry
	combat.SortPreparationByInitiative(entries)
	assert.Empty(t, entries)
}

func TestSortParticipantsByInitiative(t *testing.T) {
	participants := []*combat.Participant{
		{Name: "A", Initiative: 15},
		{Name: "B", Initiative: 15},
		{Name: "C", Initiative: 20},
	}

	combat.SortParticipantsByInitiative(participants)

	assert.Equal(t, "C", participants[0].Name)
	assert.Equal(t, "A", participants[1].Name)
	assert.Equal(t, "B", participants[2].Name)
}
