// Package character holds the canonical character record and the pure
// rest/resource-restoration rules that operate on it.
package character

// Character is the canonical character record. The combat roster keeps its
// own per-encounter copy of the vitals; the sync bridge keeps the two aligned.
type Character struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaign_id"`
	OwnerID    string `json:"owner_id"`
	Name       string `json:"name"`

	Class           string `json:"class"` // class key, e.g. "barbarian"
	Level           int    `json:"level"`
	ConstitutionMod int    `json:"constitution_mod"`
	ArmorClass      int    `json:"armor_class"`

	HP      HPResource `json:"hp"`
	HitDice HitDice    `json:"hit_dice"`

	// Used counts per spell slot level; max is derived elsewhere and only
	// the usage matters for rest restoration.
	SpellSlotsUsed map[int]int `json:"spell_slots_used,omitempty"`

	// Usage counter for the class-specific resource (rage, ki, ...).
	// The shape of the resource comes from the class spec table.
	ClassResourceUsed int `json:"class_resource_used"`

	CustomResources []CustomResource `json:"custom_resources,omitempty"`

	Conditions      []string `json:"conditions,omitempty"`
	IsConcentrating bool     `json:"is_concentrating"`
}

// HPResource tracks hit points and temporary HP
type HPResource struct {
	Current   int `json:"current"`
	Max       int `json:"max"`
	Temporary int `json:"temporary"`
}

// HitDice tracks hit-die spending. The pool size equals character level and
// the die size comes from the class spec table.
type HitDice struct {
	Used int `json:"used"`
}

// CustomResource is a user-defined expendable resource with independent
// short/long rest eligibility.
type CustomResource struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Max       int    `json:"max"`
	Used      int    `json:"used"`
	ShortRest bool   `json:"short_rest"`
	LongRest  bool   `json:"long_rest"`
}

// Spec returns the class spec for this character's class
func (c *Character) Spec() ClassSpec {
	return SpecForClass(c.Class)
}

// HitDiceTotal returns the size of the hit-die pool, one die per level
func (c *Character) HitDiceTotal() int {
	return c.Level
}

// HitDiceRemaining returns how many hit dice are still available to spend
func (c *Character) HitDiceRemaining() int {
	remaining := c.HitDiceTotal() - c.HitDice.Used
	if remaining < 0 {
		return 0
	}
	return remaining
}
