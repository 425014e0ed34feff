package combat

import (
	"sort"

	"github.com/tavernkeep/companion/internal/dice"
)

// RollPreparationInitiative assigns a d20 roll to every monster entry whose
// initiative is still unset. Player entries are left untouched; their rolls
// arrive from the players themselves.
func RollPreparationInitiative(entries []*PreparationEntry, roller dice.Roller) error {
	for _, entry := range entries {
		if entry.Type != ParticipantTypeMonster || entry.Initiative != 0 {
			continue
		}

		result, err := roller.Roll(1, 20, 0)
		if err != nil {
			return err
		}
		entry.Initiative = result.Total
	}
	return nil
}

// RollParticipantInitiative assigns a d20 roll to every monster participant
// whose initiative is still unset, for monsters added mid-combat.
func RollParticipantInitiative(participants []*Participant, roller dice.Roller) error {
	for _, p := range participants {
		if p.Type != ParticipantTypeMonster || p.Initiative != 0 {
			continue
		}

		result, err := roller.Roll(1, 20, 0)
		if err != nil {
			return err
		}
		p.Initiative = result.Total
	}
	return nil
}

// SortPreparationByInitiative orders entries by descending initiative.
// The sort is stable: equal initiatives keep their prior relative order.
func SortPreparationByInitiative(entries []*PreparationEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Initiative > entries[j].Initiative
	})
}

// SortParticipantsByInitiative orders participants by descending initiative,
// stable on ties.
func SortParticipantsByInitiative(participants []*Participant) {
	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].Initiative > participants[j].Initiative
	})
}
