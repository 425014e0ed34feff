package character

// ClassSpec describes the rest-relevant shape of a class: its hit die and
// its class-specific expendable resource, if it has one. Dispatching through
// this table keeps the rest rules free of per-class branching.
type ClassSpec struct {
	Key        string
	HitDieSize int
	Resource   *ClassResourceSpec
}

// ClassResourceSpec describes one class resource variant
type ClassResourceSpec struct {
	ID          string
	Name        string
	ShortRest   bool // restorable on a short rest; every class resource restores on a long rest
	MaxForLevel func(level int) int
}

var classSpecs = map[string]ClassSpec{
	"barbarian": {
		Key:        "barbarian",
		HitDieSize: 12,
		Resource: &ClassResourceSpec{
			ID:   "rage",
			Name: "Rage",
			MaxForLevel: func(level int) int {
				switch {
				case level >= 17:
					return 6
				case level >= 12:
					return 5
				case level >= 6:
					return 4
				case level >= 3:
					return 3
				default:
					return 2
				}
			},
		},
	},
	"fighter": {
		Key:        "fighter",
		HitDieSize: 10,
		Resource: &ClassResourceSpec{
			ID:          "second-wind",
			Name:        "Second Wind",
			ShortRest:   true,
			MaxForLevel: func(level int) int { return 1 },
		},
	},
	"paladin": {
		Key:        "paladin",
		HitDieSize: 10,
		Resource: &ClassResourceSpec{
			ID:          "channel-divinity",
			Name:        "Channel Divinity",
			ShortRest:   true,
			MaxForLevel: func(level int) int { return 1 },
		},
	},
	"ranger": {
		Key:        "ranger",
		HitDieSize: 10,
	},
	"monk": {
		Key:        "monk",
		HitDieSize: 8,
		Resource: &ClassResourceSpec{
			ID:          "ki",
			Name:        "Ki Points",
			ShortRest:   true,
			MaxForLevel: func(level int) int { return level },
		},
	},
	"bard": {
		Key:        "bard",
		HitDieSize: 8,
		Resource: &ClassResourceSpec{
			ID:   "bardic-inspiration",
			Name: "Bardic Inspiration",
			MaxForLevel: func(level int) int {
				uses := (level-5)/4 + 3 // scales with charisma in play; table uses the floor
				if uses < 1 {
					return 1
				}
				return uses
			},
		},
	},
	"cleric": {
		Key:        "cleric",
		HitDieSize: 8,
		Resource: &ClassResourceSpec{
			ID:          "channel-divinity",
			Name:        "Channel Divinity",
			ShortRest:   true,
			MaxForLevel: func(level int) int {
				switch {
				case level >= 18:
					return 3
				case level >= 6:
					return 2
				default:
					return 1
				}
			},
		},
	},
	"druid": {
		Key:        "druid",
		HitDieSize: 8,
		Resource: &ClassResourceSpec{
			ID:          "wild-shape",
			Name:        "Wild Shape",
			ShortRest:   true,
			MaxForLevel: func(level int) int { return 2 },
		},
	},
	"rogue": {
		Key:        "rogue",
		HitDieSize: 8,
	},
	"warlock": {
		Key:        "warlock",
		HitDieSize: 8,
	},
	"sorcerer": {
		Key:        "sorcerer",
		HitDieSize: 6,
		Resource: &ClassResourceSpec{
			ID:          "sorcery-points",
			Name:        "Sorcery Points",
			MaxForLevel: func(level int) int { return level },
		},
	},
	"wizard": {
		Key:        "wizard",
		HitDieSize: 6,
		Resource: &ClassResourceSpec{
			ID:          "arcane-recovery",
			Name:        "Arcane Recovery",
			MaxForLevel: func(level int) int { return 1 },
		},
	},
}

// defaultSpec covers homebrew or unknown classes
var defaultSpec = ClassSpec{Key: "adventurer", HitDieSize: 8}

// SpecForClass looks up the class spec by key, falling back to a d8 class
// with no class resource.
func SpecForClass(key string) ClassSpec {
	if spec, ok := classSpecs[key]; ok {
		return spec
	}
	return defaultSpec
}
