package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tavernkeep/companion/internal/domain/game/combat"
)

func TestParticipant_ApplyDamage(t *testing.T) {
	tests := []struct {
		name       string
		currentHP  int
		damage     int
		expectedHP int
	}{
		{"partial damage", 20, 5, 15},
		{"exact kill", 20, 20, 0},
		{"overkill floors at zero", 10, 50, 0},
		{"zero damage is a no-op", 12, 0, 12},
		{"negative damage is a no-op", 12, -4, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &combat.Participant{CurrentHP: tt.currentHP, MaxHP: 20, IsActive: true}
			p.ApplyDamage(tt.damage)
			assert.Equal(t, tt.expectedHP, p.CurrentHP)
		})
	}
}

func TestParticipant_ApplyDamage_DropsAtZero(t *testing.T) {
	p := &combat.Participant{CurrentHP: 3, MaxHP: 20, IsActive: true}
	p.ApplyDamage(3)

	assert.Equal(t, 0, p.CurrentHP)
	assert.False(t, p.IsActive)
	assert.False(t, p.IsAlive())
}

func TestParticipant_ApplyDamage_DoesNotConsumeTempHP(t *testing.T) {
	// Temp HP is a separately displayed pool; damage goes straight to current HP
	p := &combat.Participant{CurrentHP: 10, MaxHP: 20, TempHP: 5, IsActive: true}
	p.ApplyDamage(4)

	assert.Equal(t, 6, p.CurrentHP)
	assert.Equal(t, 5, p.TempHP)
}

func TestParticipant_Heal(t *testing.T) {
	tests := []struct {
		name       string
		currentHP  int
		heal       int
		expectedHP int
	}{
		{"partial heal", 10, 5, 15},
		{"heal caps at max", 18, 10, 20},
		{"zero heal is a no-op", 10, 0, 10},
		{"negative heal is a no-op", 10, -3, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &combat.Participant{CurrentHP: tt.currentHP, MaxHP: 20, IsActive: true}
			p.Heal(tt.heal)
			assert.Equal(t, tt.expectedHP, p.CurrentHP)
		})
	}
}

func TestParticipant_Heal_RevivesDowned(t *testing.T) {
	p := &combat.Participant{CurrentHP: 0, MaxHP: 20, IsActive: false}
	p.Heal(5)

	assert.Equal(t, 5, p.CurrentHP)
	assert.True(t, p.IsActive)
}

func TestParticipant_ToggleCondition(t *testing.T) {
	p := &combat.Participant{}

	p.ToggleCondition("poisoned")
	assert.True(t, p.HasCondition("poisoned"))

	p.ToggleCondition("stunned")
	assert.True(t, p.HasCondition("poisoned"))
	assert.True(t, p.HasCondition("stunned"))

	p.ToggleCondition("poisoned")
	assert.False(t, p.HasCondition("poisoned"))
	assert.True(t, p.HasCondition("stunned"))
}

func TestEncounter_AdvanceTurn(t *testing.T) {
	enc := combat.NewEncounter("enc-1", "camp-1", "Bandit Ambush")

	enc.AdvanceTurn(3)
	assert.Equal(t, 1, enc.Turn)
	assert.Equal(t, 1, enc.Round)

	enc.AdvanceTurn(3)
	assert.Equal(t, 2, enc.Turn)
	assert.Equal(t, 1, enc.Round)

	// Wraps to the top and starts a new round
	enc.AdvanceTurn(3)
	assert.Equal(t, 0, enc.Turn)
	assert.Equal(t, 2, enc.Round)
}

func TestEncounter_AdvanceTurn_WrapsFromLateRound(t *testing.T) {
	enc := combat.NewEncounter("enc-1", "camp-1", "Bandit Ambush")
	enc.Turn = 2
	enc.Round = 4

	enc.AdvanceTurn(3)

	assert.Equal(t, 0, enc.Turn)
	assert.Equal(t, 5, enc.Round)
}

func TestEncounter_AdvanceTurn_EmptyRosterIsNoOp(t *testing.T) {
	enc := combat.NewEncounter("enc-1", "camp-1", "Bandit Ambush")

	enc.AdvanceTurn(0)

	assert.Equal(t, 0, enc.Turn)
	assert.Equal(t, 1, enc.Round)
}

func TestEncounter_AdvanceTurn_CompletedIsNoOp(t *testing.T) {
	enc := combat.NewEncounter("enc-1", "camp-1", "Bandit Ambush")
	enc.End()

	enc.AdvanceTurn(3)

	assert.Equal(t, 0, enc.Turn)
	assert.Equal(t, 1, enc.Round)
	assert.Equal(t, combat.EncounterStatusCompleted, enc.Status)
	assert.NotNil(t, enc.EndedAt)
}

func TestEncounter_ClampTurn(t *testing.T) {
	enc := combat.NewEncounter("enc-1", "camp-1", "Bandit Ambush")
	enc.Turn = 2

	// Roster shrank below the pointer
	enc.ClampTurn(2)
	assert.Equal(t, 0, enc.Turn)

	enc.Turn = 1
	enc.ClampTurn(3)
	assert.Equal(t, 1, enc.Turn)

	enc.ClampTurn(0)
	assert.Equal(t, 0, enc.Turn)
}

func TestEncounter_AddCombatLogEntry_Bounded(t *testing.T) {
	enc := combat.NewEncounter("enc-1", "camp-1", "Bandit Ambush")

	for i := 0; i < 30; i++ {
		enc.AddCombatLogEntry("swing and a miss")
	}

	assert.Len(t, enc.CombatLog, 20)
}
