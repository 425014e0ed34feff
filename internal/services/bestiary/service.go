package bestiary

//go:generate mockgen -destination=mock/mock_service.go -package=mockbestiary -source=service.go

import (
	"context"
	"sync"

	"github.com/tavernkeep/companion/internal/clients/bestiary"
	dnderr "github.com/tavernkeep/companion/internal/errors"
)

// Service defines the bestiary catalog service interface
type Service interface {
	// GetMonster fetches a specific monster stat block by key
	GetMonster(ctx context.Context, key string) (*bestiary.StatBlock, error)

	// ListByChallenge returns monsters within a challenge rating range
	ListByChallenge(ctx context.Context, minCR, maxCR float64) ([]*bestiary.StatBlock, error)

	// InvalidateCache drops every cached catalog entry
	InvalidateCache()
}

type service struct {
	client bestiary.Client

	mu        sync.RWMutex
	byKey     map[string]*bestiary.StatBlock
	listCache map[[2]float64][]*bestiary.StatBlock
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Client bestiary.Client // Required
}

// NewService creates a new bestiary catalog service. The catalog is
// read-only upstream, so entries are cached until explicitly invalidated.
func NewService(cfg *ServiceConfig) Service {
	if cfg.Client == nil {
		panic("bestiary client is required")
	}

	return &service{
		client:    cfg.Client,
		byKey:     make(map[string]*bestiary.StatBlock),
		listCache: make(map[[2]float64][]*bestiary.StatBlock),
	}
}

// GetMonster fetches a specific monster stat block by key
func (s *service) GetMonster(ctx context.Context, key string) (*bestiary.StatBlock, error) {
	if key == "" {
		return nil, dnderr.InvalidArgument("monster key is required")
	}

	s.mu.RLock()
	cached, ok := s.byKey[key]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	block, err := s.client.GetMonster(key)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to get monster '%s'", key)
	}

	s.mu.Lock()
	s.byKey[key] = block
	s.mu.Unlock()

	return block, nil
}

// ListByChallenge returns monsters within a challenge rating range
func (s *service) ListByChallenge(ctx context.Context, minCR, maxCR float64) ([]*bestiary.StatBlock, error) {
	if minCR > maxCR {
		return nil, dnderr.InvalidArgument("minCR cannot exceed maxCR")
	}

	cacheKey := [2]float64{minCR, maxCR}

	s.mu.RLock()
	cached, ok := s.listCache[cacheKey]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	blocks, err := s.client.ListMonstersByChallenge(minCR, maxCR)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list monsters")
	}

	s.mu.Lock()
	s.listCache[cacheKey] = blocks
	for _, block := range blocks {
		s.byKey[block.Key] = block
	}
	s.mu.Unlock()

	return blocks, nil
}

// InvalidateCache drops every cached catalog entry
func (s *service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byKey = make(map[string]*bestiary.StatBlock)
	s.listCache = make(map[[2]float64][]*bestiary.StatBlock)
}
