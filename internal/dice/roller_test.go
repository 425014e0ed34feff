package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavernkeep/companion/internal/dice"
)

func TestRoll_Bounds(t *testing.T) {
	roller := dice.NewRandomRoller()

	for i := 0; i < 100; i++ {
		result, err := roller.Roll(1, 20, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Total, 1)
		assert.LessOrEqual(t, result.Total, 20)
		assert.Len(t, result.Rolls, 1)
	}
}

func TestRoll_BonusApplied(t *testing.T) {
	result, err := dice.Roll(2, 6, 3)
	require.NoError(t, err)

	assert.Equal(t, result.RawTotal+3, result.Total)
	assert.Equal(t, 3, result.Bonus)
	assert.Len(t, result.Rolls, 2)
}

func TestRoll_InvalidInput(t *testing.T) {
	_, err := dice.Roll(0, 6, 0)
	assert.Error(t, err)

	_, err = dice.Roll(1, 0, 0)
	assert.Error(t, err)
}
