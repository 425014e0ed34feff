package bestiary

import (
	"log"
	"net/http"

	apiEntities "github.com/fadedpez/dnd5e-api/entities"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"

	dnderr "github.com/tavernkeep/companion/internal/errors"
)

type client struct {
	api dnd5e.Interface
}

// Config holds configuration for the catalog client
type Config struct {
	HttpClient *http.Client
}

// New creates a catalog client backed by the hosted 5e API
func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, dnderr.InvalidArgument("cfg is required")
	}

	api, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client: cfg.HttpClient,
	})
	if err != nil {
		return nil, err
	}

	return &client{api: api}, nil
}

// GetMonster fetches a full stat block by key
func (c *client) GetMonster(key string) (*StatBlock, error) {
	if key == "" {
		return nil, dnderr.InvalidArgument("monster key is required")
	}

	monster, err := c.api.GetMonster(key)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to get monster '%s'", key)
	}

	return apiToStatBlock(monster), nil
}

// ListMonstersByChallenge returns stat blocks within a challenge rating range.
// The API filters by exact CR only, so each standard CR value in range is
// queried and each referenced monster fetched individually.
func (c *client) ListMonstersByChallenge(minCR, maxCR float64) ([]*StatBlock, error) {
	blocks := make([]*StatBlock, 0)
	seen := make(map[string]bool)

	for _, cr := range challengeRatingsInRange(minCR, maxCR) {
		crValue := cr
		refs, err := c.api.ListMonstersWithFilter(&dnd5e.ListMonstersInput{
			ChallengeRating: &crValue,
		})
		if err != nil {
			log.Printf("Failed to list monsters for CR %v: %v", cr, err)
			continue
		}

		for _, ref := range refs {
			if ref.Key == "" || seen[ref.Key] {
				continue
			}

			monster, err := c.api.GetMonster(ref.Key)
			if err != nil {
				log.Printf("Failed to get monster %s: %v", ref.Key, err)
				continue
			}
			if block := apiToStatBlock(monster); block != nil {
				blocks = append(blocks, block)
				seen[ref.Key] = true
			}
		}
	}

	return blocks, nil
}

// challengeRatingsInRange returns the standard CR values within [minCR, maxCR]
func challengeRatingsInRange(minCR, maxCR float64) []float64 {
	allCRs := []float64{0, 0.125, 0.25, 0.5, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10,
		11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30}

	var result []float64
	for _, cr := range allCRs {
		if cr >= minCR && cr <= maxCR {
			result = append(result, cr)
		}
	}
	return result
}

func apiToStatBlock(input *apiEntities.Monster) *StatBlock {
	if input == nil {
		return nil
	}

	return &StatBlock{
		Key:             input.Key,
		Name:            input.Name,
		Type:            input.Type,
		ArmorClass:      input.ArmorClass,
		HitPoints:       input.HitPoints,
		HitDice:         input.HitDice,
		ChallengeRating: float64(input.ChallengeRating),
	}
}
