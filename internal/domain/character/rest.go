package character

import (
	"fmt"

	"github.com/tavernkeep/companion/internal/dice"
)

// RestType identifies the kind of rest being taken
type RestType string

const (
	RestTypeShort RestType = "short"
	RestTypeLong  RestType = "long"
)

// RestorableResource is a derived view of one resource that a rest could
// restore. It is recomputed on demand and never persisted.
type RestorableResource struct {
	ID        string
	Name      string
	Used      int
	Max       int
	ShortRest bool
	LongRest  bool
}

// RestUpdate is the patch a rest produces. The engine computes it without
// touching storage; committing it and surfacing the labels is the caller's
// job.
type RestUpdate struct {
	HPCurrent         int
	HPTemporary       int
	HitDiceUsed       int
	ClassResourceUsed int
	CustomResources   []CustomResource
	SpellSlotsUsed    map[int]int
	IsConcentrating   bool

	Healing int
	Labels  []string
}

// RestorableResources returns the resources a rest of the given type can
// restore right now: anything with a nonzero used counter whose eligibility
// matches. Class resources always restore on a long rest.
func RestorableResources(ch *Character, restType RestType) []RestorableResource {
	var out []RestorableResource

	spec := ch.Spec()
	if spec.Resource != nil && ch.ClassResourceUsed > 0 {
		eligible := restType == RestTypeLong || spec.Resource.ShortRest
		if eligible {
			out = append(out, RestorableResource{
				ID:        spec.Resource.ID,
				Name:      spec.Resource.Name,
				Used:      ch.ClassResourceUsed,
				Max:       spec.Resource.MaxForLevel(ch.Level),
				ShortRest: spec.Resource.ShortRest,
				LongRest:  true,
			})
		}
	}

	for _, res := range ch.CustomResources {
		if res.Used == 0 {
			continue
		}
		if restType == RestTypeShort && !res.ShortRest {
			continue
		}
		if restType == RestTypeLong && !res.LongRest {
			continue
		}
		out = append(out, RestorableResource{
			ID:        res.ID,
			Name:      res.Name,
			Used:      res.Used,
			Max:       res.Max,
			ShortRest: res.ShortRest,
			LongRest:  res.LongRest,
		})
	}

	return out
}

// BuildShortRestUpdate computes the patch for a short rest: hit-die healing
// for the dice the player chose to spend, plus a reset of the selected
// restorable resources. Each die heals max(1, roll + constitution modifier).
func BuildShortRestUpdate(ch *Character, hitDiceToSpend int, resourceIDs []string, roller dice.Roller) (*RestUpdate, error) {
	update := &RestUpdate{
		HPCurrent:         ch.HP.Current,
		HPTemporary:       ch.HP.Temporary,
		HitDiceUsed:       ch.HitDice.Used,
		ClassResourceUsed: ch.ClassResourceUsed,
		CustomResources:   cloneCustomResources(ch.CustomResources),
		SpellSlotsUsed:    cloneSlotUsage(ch.SpellSlotsUsed),
		IsConcentrating:   ch.IsConcentrating,
	}

	if hitDiceToSpend > ch.HitDiceRemaining() {
		hitDiceToSpend = ch.HitDiceRemaining()
	}

	if hitDiceToSpend > 0 {
		dieSize := ch.Spec().HitDieSize
		healing := 0
		for i := 0; i < hitDiceToSpend; i++ {
			result, err := roller.Roll(1, dieSize, 0)
			if err != nil {
				return nil, err
			}
			healed := result.Total + ch.ConstitutionMod
			if healed < 1 {
				healed = 1
			}
			healing += healed
		}

		update.HPCurrent = ch.HP.Current + healing
		if update.HPCurrent > ch.HP.Max {
			update.HPCurrent = ch.HP.Max
		}

		update.HitDiceUsed = ch.HitDice.Used + hitDiceToSpend
		if update.HitDiceUsed > ch.HitDiceTotal() {
			update.HitDiceUsed = ch.HitDiceTotal()
		}

		update.Healing = update.HPCurrent - ch.HP.Current
		if update.Healing > 0 {
			update.Labels = append(update.Labels, fmt.Sprintf("+%d HP", update.Healing))
		}
	}

	restorable := RestorableResources(ch, RestTypeShort)
	for _, id := range resourceIDs {
		res, ok := findRestorable(restorable, id)
		if !ok {
			continue
		}

		spec := ch.Spec()
		if spec.Resource != nil && spec.Resource.ID == id {
			update.ClassResourceUsed = 0
		} else {
			for i := range update.CustomResources {
				if update.CustomResources[i].ID == id {
					update.CustomResources[i].Used = 0
				}
			}
		}
		update.Labels = append(update.Labels, fmt.Sprintf("+%d %s", res.Used, res.Name))
	}

	return update, nil
}

// BuildLongRestUpdate computes the patch for a long rest: full HP, cleared
// temporary HP, all usage counters zeroed, half the hit-die pool recovered
// (minimum one die), spell slots restored, and concentration dropped.
func BuildLongRestUpdate(ch *Character) *RestUpdate {
	update := &RestUpdate{
		HPCurrent:         ch.HP.Max,
		HPTemporary:       0,
		ClassResourceUsed: 0,
		CustomResources:   cloneCustomResources(ch.CustomResources),
		SpellSlotsUsed:    map[int]int{},
		IsConcentrating:   false,
	}

	recovered := ch.Level / 2
	if recovered < 1 {
		recovered = 1
	}
	update.HitDiceUsed = ch.HitDice.Used - recovered
	if update.HitDiceUsed < 0 {
		update.HitDiceUsed = 0
	}

	for i := range update.CustomResources {
		if update.CustomResources[i].LongRest {
			update.CustomResources[i].Used = 0
		}
	}

	update.Healing = ch.HP.Max - ch.HP.Current
	if update.Healing > 0 {
		update.Labels = append(update.Labels, fmt.Sprintf("+%d HP", update.Healing))
	}

	for _, res := range RestorableResources(ch, RestTypeLong) {
		update.Labels = append(update.Labels, fmt.Sprintf("+%d %s", res.Used, res.Name))
	}

	return update
}

// Apply writes the patch back onto a character record
func (u *RestUpdate) Apply(ch *Character) {
	ch.HP.Current = u.HPCurrent
	ch.HP.Temporary = u.HPTemporary
	ch.HitDice.Used = u.HitDiceUsed
	ch.ClassResourceUsed = u.ClassResourceUsed
	ch.CustomResources = cloneCustomResources(u.CustomResources)
	ch.SpellSlotsUsed = cloneSlotUsage(u.SpellSlotsUsed)
	ch.IsConcentrating = u.IsConcentrating
}

func findRestorable(resources []RestorableResource, id string) (RestorableResource, bool) {
	for _, res := range resources {
		if res.ID == id {
			return res, true
		}
	}
	return RestorableResource{}, false
}

func cloneCustomResources(in []CustomResource) []CustomResource {
	if in == nil {
		return nil
	}
	out := make([]CustomResource, len(in))
	copy(out, in)
	return out
}

func cloneSlotUsage(in map[int]int) map[int]int {
	if in == nil {
		return nil
	}
	out := make(map[int]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
