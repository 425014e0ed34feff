// Package bestiary wraps the external monster catalog API behind a small
// read-only interface.
package bestiary

//go:generate mockgen -destination=mock/mock_client.go -package=mockbestiary -source=interface.go

// StatBlock is the subset of a monster stat block the encounter engine needs
type StatBlock struct {
	Key             string
	Name            string
	Type            string
	ArmorClass      int
	HitPoints       int
	HitDice         string
	ChallengeRating float64
}

// Client is the read-only catalog interface
type Client interface {
	// GetMonster fetches a full stat block by key
	GetMonster(key string) (*StatBlock, error)

	// ListMonstersByChallenge returns stat blocks within a challenge rating range
	ListMonstersByChallenge(minCR, maxCR float64) ([]*StatBlock, error)
}
